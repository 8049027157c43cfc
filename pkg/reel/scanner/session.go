package scanner

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/dupindex"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// session owns all per-scan mutable state. One session is created per
// Scan invocation and frozen into a ScanResult at completion; nothing
// survives across invocations.
type session struct {
	id   string
	root string

	mu       sync.Mutex
	files    map[string]types.FileRecord
	hashes   map[string]types.HashRecord
	warnings []types.Warning

	index *dupindex.Index

	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	bytesScanned atomic.Uint64

	statTotal atomic.Int64
	hashTotal atomic.Int64

	fullCount    atomic.Int64
	sampledCount atomic.Int64
	hashErrors   atomic.Int64

	// active tracks directory tasks currently holding a pool slot;
	// peak records the highest observed value.
	active atomic.Int64
	peak   atomic.Int64
}

func newSession(root string) *session {
	return &session{
		id:     uuid.NewString(),
		root:   root,
		files:  make(map[string]types.FileRecord),
		hashes: make(map[string]types.HashRecord),
		index:  dupindex.New(),
	}
}

// enterTask marks a directory task active and updates the peak watermark.
func (s *session) enterTask() {
	n := s.active.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

// leaveTask marks a directory task finished.
func (s *session) leaveTask() {
	s.active.Add(-1)
}

// addFile records one stated file. The relative path is the unique key;
// a path can only be recorded once per session because every directory
// is listed exactly once.
func (s *session) addFile(rec types.FileRecord) {
	s.filesScanned.Add(1)
	s.bytesScanned.Add(rec.Size)
	s.statTotal.Add(int64(rec.StatDuration))

	s.mu.Lock()
	s.files[rec.Path] = rec
	s.mu.Unlock()
}

// addHash records one computed fingerprint and feeds the duplicate index.
func (s *session) addHash(rec types.HashRecord) {
	s.hashTotal.Add(int64(rec.ComputeDuration))
	switch rec.Method {
	case types.HashFull:
		s.fullCount.Add(1)
	case types.HashSampled:
		s.sampledCount.Add(1)
	}

	s.mu.Lock()
	s.hashes[rec.Path] = rec
	s.mu.Unlock()

	s.index.Add(rec.Digest, rec.Path)
}

// warn appends a recovered error to the session's warning list.
func (s *session) warn(kind types.WarningKind, path string, err error) {
	s.mu.Lock()
	s.warnings = append(s.warnings, types.Warning{
		Kind: kind,
		Path: path,
		Err:  err.Error(),
	})
	s.mu.Unlock()
}

// freeze sorts the file map and produces the immutable result. The sort
// orders by creation time ascending with path as the deterministic
// tie-break; its wall-clock cost is reported as the sort stage.
func (s *session) freeze(scanElapsed time.Duration, hashEnabled bool) *types.ScanResult {
	sortStart := time.Now()

	files := make([]types.FileRecord, 0, len(s.files))
	for _, rec := range s.files {
		files = append(files, rec)
	}
	slices.SortStableFunc(files, func(a, b types.FileRecord) int {
		if c := a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})

	sortElapsed := time.Since(sortStart)

	result := &types.ScanResult{
		SessionID:       s.id,
		Root:            s.root,
		Files:           files,
		TotalFiles:      int64(len(files)),
		TotalDirs:       s.dirsScanned.Load(),
		TotalSize:       s.bytesScanned.Load(),
		PeakConcurrency: s.peak.Load(),
		Warnings:        s.warnings,
		Timings: types.StageTimings{
			Scan: scanElapsed,
			Stat: time.Duration(s.statTotal.Load()),
			Hash: time.Duration(s.hashTotal.Load()),
			Sort: sortElapsed,
		},
	}

	if n := result.TotalFiles; n > 0 {
		result.Averages = types.StageAverages{
			Stat: result.Timings.Stat / time.Duration(n),
		}
		if hashed := s.fullCount.Load() + s.sampledCount.Load(); hashed > 0 {
			result.Averages.Hash = result.Timings.Hash / time.Duration(hashed)
		}
	}

	if hashEnabled {
		result.Hashes = s.hashes
		result.Groups = s.index.Groups()
		result.Hashing = hashStats(s, len(result.Groups))
	}

	return result
}
