package scanner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/hashing"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/logging"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

var logger = logging.Get("scanner")

// State is the lifecycle phase of a scan session.
type State int32

// Session states. A session moves Idle -> Running -> Completed or Failed.
// Individual item failures are recovered in place and never leave Running;
// only a root failure (or cancellation) ends in Failed.
const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sentinel errors returned by Scan.
var (
	// ErrNotDirectory indicates the root path is not a directory.
	ErrNotDirectory = errors.New("root path is not a directory")

	// ErrSessionUsed indicates Scan was invoked twice on one Scanner.
	ErrSessionUsed = errors.New("scan session already used")
)

// Scanner runs one scan session. A Scanner is single-use: create one per
// invocation and read the result; no state survives into the next session.
type Scanner struct {
	opts    Options
	engine  *hashing.Engine
	exclude []glob.Glob

	state atomic.Int32
	sess  *session

	currentPath  atomic.Value
	lastProgress atomic.Int64
}

// New creates a Scanner with validated options. Hash engine construction
// fails only on unusable sizing, exclusion compilation only on malformed
// patterns.
func New(opts Options) (*Scanner, error) {
	_ = opts.Validate()

	s := &Scanner{opts: opts}
	s.currentPath.Store("")

	if opts.EnableHash {
		threshold := opts.HashThreshold
		if opts.FullAlways {
			threshold = math.MaxInt64
		}
		engine, err := hashing.New(
			hashing.WithThreshold(threshold),
			hashing.WithSampleSize(opts.HashSampleSize),
		)
		if err != nil {
			return nil, err
		}
		s.engine = engine
	}

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		s.exclude = append(s.exclude, g)
	}

	return s, nil
}

// State reports the session's lifecycle phase.
func (s *Scanner) State() State {
	return State(s.state.Load())
}

// Scan walks the tree under the configured root and returns the frozen
// session. It blocks until every discovered task has finished or ctx is
// cancelled. A root failure aborts before any session state is built.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrSessionUsed
	}

	root, err := s.validateRoot()
	if err != nil {
		s.state.Store(int32(StateFailed))
		return nil, err
	}

	s.sess = newSession(root)
	logger.Info("scan started",
		"session", s.sess.id,
		"root", root,
		"max_concurrency", s.opts.MaxConcurrency,
		"hash", s.opts.EnableHash)

	scanStart := time.Now()
	if err := s.runPool(ctx, root); err != nil {
		s.state.Store(int32(StateFailed))
		logger.Error("scan aborted", "session", s.sess.id, "error", err)
		return nil, err
	}
	scanElapsed := time.Since(scanStart)

	result := s.sess.freeze(scanElapsed, s.opts.EnableHash)
	s.state.Store(int32(StateCompleted))

	logger.Info("scan completed",
		"session", result.SessionID,
		"files", result.TotalFiles,
		"dirs", result.TotalDirs,
		"size", types.FormatSize(int64(result.TotalSize)),
		"warnings", len(result.Warnings),
		"elapsed", scanElapsed)

	return result, nil
}

// validateRoot resolves the root to an absolute path and verifies it is a
// readable directory. Any failure here is fatal to the whole scan.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s: %w", root, ErrNotDirectory)
	}

	// Probe readability up front so a permission problem at the root is
	// a fatal error rather than a warning on an empty result.
	f, err := os.Open(root)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", root, err)
	}
	_ = f.Close()

	return root, nil
}

// relPath converts an absolute path under the root to the session's
// slash-separated relative key.
func (s *Scanner) relPath(full string) string {
	rel, err := filepath.Rel(s.sess.root, full)
	if err != nil {
		return filepath.ToSlash(full)
	}
	return filepath.ToSlash(rel)
}

// isExcluded reports whether the path (relative, slash-separated) or its
// base name matches an exclusion pattern.
func (s *Scanner) isExcluded(rel string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	base := filepath.Base(rel)
	for _, g := range s.exclude {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// reportProgress sends a throttled progress snapshot.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}

	// Throttle to one update per 10ms.
	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return
	}
	s.sendProgress()
}

// reportProgressForce bypasses the throttle for state transitions.
func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress()
}

func (s *Scanner) sendProgress() {
	currentPath, _ := s.currentPath.Load().(string)
	s.opts.OnProgress(Progress{
		DirsScanned:    s.sess.dirsScanned.Load(),
		FilesScanned:   s.sess.filesScanned.Load(),
		HashesComputed: s.sess.fullCount.Load() + s.sess.sampledCount.Load(),
		ActiveTasks:    s.sess.active.Load(),
		CurrentPath:    currentPath,
	})
}
