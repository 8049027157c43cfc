// Package scanner implements the bounded-concurrency traversal at the heart
// of the reel media scanner. A single worker pool admits at most
// MaxConcurrency directory tasks at a time; each task lists one directory,
// feeds newly found subdirectories back into the queue, and stats (and
// optionally fingerprints) the directory's files in fixed-size batches
// inside its own pool slot.
package scanner

import (
	"github.com/rebelmx4/go-reel-docs/pkg/reel/config"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/playback"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/hashing"
)

// Progress is a snapshot of scan activity for progress reporting.
type Progress struct {
	// DirsScanned is the number of directories listed so far.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of files stated so far.
	FilesScanned int64 `json:"files_scanned"`

	// HashesComputed is the number of fingerprints produced so far.
	HashesComputed int64 `json:"hashes_computed"`

	// ActiveTasks is the number of directory tasks currently running.
	ActiveTasks int64 `json:"active_tasks"`

	// CurrentPath is the directory most recently admitted.
	CurrentPath string `json:"current_path"`
}

// Options configures a scan session.
type Options struct {
	// Root is the directory to scan.
	Root string

	// MaxConcurrency caps simultaneously active directory tasks.
	// Stat batches run inside their owning task's slot, so this single
	// bound covers directory listing and file metadata fan-out together.
	MaxConcurrency int

	// BatchSize is the number of files stated concurrently per batch
	// within one directory. Batches run sequentially to bound peak
	// descriptor usage.
	BatchSize int

	// EnableHash turns fingerprinting and duplicate grouping on.
	EnableHash bool

	// HashThreshold is the byte boundary between full and sampled
	// hashing. Zero uses the hashing package default.
	HashThreshold int64

	// HashSampleSize is the bytes per sampled window. Zero uses the
	// hashing package default.
	HashSampleSize int64

	// FullAlways forces full-content hashing regardless of file size,
	// for callers that need byte-exact duplicate confirmation.
	FullAlways bool

	// Exclude contains glob patterns for paths to skip entirely.
	Exclude []string

	// OnProgress, if set, receives throttled progress snapshots.
	// It must be safe to call from multiple goroutines.
	OnProgress func(Progress)

	// Playback is carried for the surrounding application and never
	// inspected by the scanner.
	Playback *playback.Config
}

// DefaultOptions returns options with the documented defaults.
func DefaultOptions() Options {
	return Options{
		Root:           config.DefaultPath,
		MaxConcurrency: config.DefaultMaxConcurrency,
		BatchSize:      config.DefaultBatchSize,
		HashThreshold:  hashing.DefaultThreshold,
		HashSampleSize: hashing.DefaultSampleSize,
		Exclude:        config.DefaultExclusions,
	}
}

// Validate fills in defaults for unset or invalid values.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = config.DefaultPath
	}
	if o.MaxConcurrency < 1 {
		o.MaxConcurrency = config.DefaultMaxConcurrency
	}
	if o.BatchSize < 1 {
		o.BatchSize = config.DefaultBatchSize
	}
	if o.HashThreshold <= 0 {
		o.HashThreshold = hashing.DefaultThreshold
	}
	if o.HashSampleSize <= 0 {
		o.HashSampleSize = hashing.DefaultSampleSize
	}
	return nil
}

// hashStats converts the session's hash counters into result statistics.
func hashStats(sess *session, groups int) *types.HashStats {
	return &types.HashStats{
		FullCount:       sess.fullCount.Load(),
		SampledCount:    sess.sampledCount.Load(),
		DuplicateGroups: groups,
		Errors:          sess.hashErrors.Load(),
	}
}
