package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// timestamps carries the three per-file times collected by the platform
// specific fileTimes helpers.
type timestamps struct {
	create time.Time
	modify time.Time
	access time.Time
}

// statFiles fetches metadata for a directory's files in fixed-size
// batches. Stats within a batch run concurrently; batches run
// sequentially so the peak fan-out per pool slot stays bounded by the
// batch size.
func (s *Scanner) statFiles(ctx context.Context, dir string, names []string) {
	batch := s.opts.BatchSize
	for start := 0; start < len(names); start += batch {
		select {
		case <-ctx.Done():
			return
		default:
		}

		end := min(start+batch, len(names))

		var wg sync.WaitGroup
		for _, name := range names[start:end] {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				s.statFile(filepath.Join(dir, name))
			}(name)
		}
		wg.Wait()
	}
}

// statFile records one file's metadata and, when hashing is enabled,
// its fingerprint. A stat failure excludes the file from the session
// entirely; a hash failure keeps the metadata but skips grouping.
func (s *Scanner) statFile(full string) {
	rel := s.relPath(full)

	statStart := time.Now()
	info, err := os.Lstat(full)
	statDuration := time.Since(statStart)
	if err != nil {
		s.sess.warn(types.WarnFileStat, rel, err)
		logger.Warn("stat failed", "path", rel, "error", err)
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	ts := fileTimes(info)
	rec := types.FileRecord{
		Path:         rel,
		Size:         uint64(info.Size()),
		CreateTime:   ts.create,
		ModifyTime:   ts.modify,
		AccessTime:   ts.access,
		StatDuration: statDuration,
	}
	s.sess.addFile(rec)
	s.reportProgress()

	if s.engine != nil {
		s.hashFile(full, rec)
	}
}

// hashFile fingerprints one stated file and feeds the duplicate index.
func (s *Scanner) hashFile(full string, rec types.FileRecord) {
	start := time.Now()
	digest, method, err := s.engine.Fingerprint(full, rec.Size)
	elapsed := time.Since(start)
	if err != nil {
		s.sess.hashErrors.Add(1)
		s.sess.warn(types.WarnHashCompute, rec.Path, err)
		logger.Warn("hash failed", "path", rec.Path, "error", err)
		return
	}

	s.sess.addHash(types.HashRecord{
		Path:            rec.Path,
		Digest:          digest,
		Method:          method,
		ComputeDuration: elapsed,
	})
}
