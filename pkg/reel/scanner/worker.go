package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// runPool drives the bounded worker pool over the directory queue until
// every discovered task has finished. Quiescence is tracked by an
// outstanding-work counter: incremented before every enqueue, decremented
// after a task completes, with the zero check performed by the same atomic
// decrement. A just-finished task's children are counted before its own
// decrement, so zero can only be observed when nothing is queued and
// nothing is active.
func (s *Scanner) runPool(ctx context.Context, root string) error {
	queueSize := s.opts.MaxConcurrency * 4
	if queueSize < 64 {
		queueSize = 64
	}
	dirQueue := make(chan string, queueSize)

	poolCtx, done := context.WithCancel(ctx)
	defer done()

	var inFlight atomic.Int64
	inFlight.Store(1)
	dirQueue <- root

	var wg sync.WaitGroup
	for i := 0; i < s.opts.MaxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.dirWorker(poolCtx, dirQueue, &inFlight, done)
		}()
	}
	wg.Wait()

	s.reportProgressForce()
	return ctx.Err()
}

// dirWorker consumes directory tasks until the pool reaches quiescence or
// the context is cancelled.
func (s *Scanner) dirWorker(ctx context.Context, dirQueue chan string, inFlight *atomic.Int64, done context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case dir := <-dirQueue:
			s.processDirectory(ctx, dir, dirQueue, inFlight)

			// The decrement and zero test are a single atomic op.
			// Children enqueued by this task were already counted, so
			// zero here means no task is queued or mid-flight anywhere.
			if inFlight.Add(-1) == 0 {
				done()
				return
			}
		}
	}
}

// processDirectory lists one directory, feeds subdirectories back into the
// queue, and stats the directory's files in batches within this task's
// pool slot. An unreadable directory is recorded as a warning and its
// subtree abandoned.
func (s *Scanner) processDirectory(ctx context.Context, dir string, dirQueue chan string, inFlight *atomic.Int64) {
	s.sess.enterTask()
	defer s.sess.leaveTask()

	s.currentPath.Store(dir)
	s.sess.dirsScanned.Add(1)
	s.reportProgress()

	entries, err := os.ReadDir(dir)
	if err != nil {
		rel := s.relPath(dir)
		s.sess.warn(types.WarnDirectoryRead, rel, err)
		logger.Warn("directory unreadable, skipping subtree", "path", rel, "error", err)
		return
	}

	// Files are collected in listing order; subdirectories go straight
	// back into the queue.
	var files []string
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		full := filepath.Join(dir, entry.Name())
		if s.isExcluded(s.relPath(full)) {
			continue
		}

		switch {
		case entry.IsDir():
			s.enqueue(ctx, dirQueue, full, inFlight)
		case entry.Type().IsRegular():
			files = append(files, entry.Name())
		}
		// Symlinks and special files are skipped.
	}

	s.statFiles(ctx, dir, files)
}

// enqueue publishes a discovered subdirectory. The outstanding-work count
// is incremented before the task becomes visible so quiescence cannot be
// signalled between publish and receipt. When the queue is full and every
// worker is busy, the handoff moves to a goroutine instead of deadlocking
// the caller's pool slot.
func (s *Scanner) enqueue(ctx context.Context, dirQueue chan string, path string, inFlight *atomic.Int64) {
	inFlight.Add(1)

	select {
	case dirQueue <- path:
	case <-ctx.Done():
		inFlight.Add(-1)
	default:
		go func() {
			select {
			case dirQueue <- path:
			case <-ctx.Done():
				inFlight.Add(-1)
			}
		}()
	}
}
