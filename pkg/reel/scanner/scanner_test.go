package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/config"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.MaxConcurrency != config.DefaultMaxConcurrency {
		t.Errorf("MaxConcurrency = %d, want %d", opts.MaxConcurrency, config.DefaultMaxConcurrency)
	}
	if opts.BatchSize != config.DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", opts.BatchSize, config.DefaultBatchSize)
	}
	if opts.EnableHash {
		t.Error("hashing should default to off")
	}
	if opts.HashThreshold != 10*1024 {
		t.Errorf("HashThreshold = %d, want 10240", opts.HashThreshold)
	}
	if opts.HashSampleSize != 2*1024 {
		t.Errorf("HashSampleSize = %d, want 2048", opts.HashSampleSize)
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{MaxConcurrency: -3, BatchSize: 0}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if opts.MaxConcurrency != config.DefaultMaxConcurrency {
		t.Errorf("MaxConcurrency = %d, want default", opts.MaxConcurrency)
	}
	if opts.BatchSize != config.DefaultBatchSize {
		t.Errorf("BatchSize = %d, want default", opts.BatchSize)
	}
	if opts.Root != config.DefaultPath {
		t.Errorf("Root = %q, want %q", opts.Root, config.DefaultPath)
	}
}

// writeSized creates a file of the given size with mildly varied content.
func writeSized(t *testing.T, path string, size int) []byte {
	t.Helper()
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return content
}

// createMediaTree builds the reference fixture: three files of 1 KiB,
// 5 KiB, and 50 KiB at the root plus an exact byte-copy of the 1 KiB file
// in a subdirectory.
func createMediaTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	intro := writeSized(t, filepath.Join(root, "intro.mp4"), 1024)
	writeSized(t, filepath.Join(root, "trailer.mp4"), 5*1024)
	writeSized(t, filepath.Join(root, "feature.mp4"), 50*1024)

	archive := filepath.Join(root, "archive")
	if err := os.Mkdir(archive, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(archive, "intro-copy.mp4"), intro, 0o644); err != nil {
		t.Fatal(err)
	}

	return root
}

func mustScan(t *testing.T, opts Options) (*Scanner, *types.ScanResult) {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return s, result
}

// TestScanWithHashing exercises the reference scenario: four files, one
// duplicate pair hashed in full, the large file sampled.
func TestScanWithHashing(t *testing.T) {
	root := createMediaTree(t)

	opts := DefaultOptions()
	opts.Root = root
	opts.EnableHash = true
	opts.Exclude = nil

	s, result := mustScan(t, opts)

	if s.State() != StateCompleted {
		t.Errorf("state = %s, want completed", s.State())
	}
	if result.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", result.TotalFiles)
	}

	if len(result.Groups) != 1 {
		t.Fatalf("got %d duplicate groups, want 1", len(result.Groups))
	}
	group := result.Groups[0]
	if len(group.Paths) != 2 {
		t.Fatalf("group has %d members, want 2", len(group.Paths))
	}
	members := map[string]bool{}
	for _, path := range group.Paths {
		members[path] = true
	}
	if !members["intro.mp4"] || !members["archive/intro-copy.mp4"] {
		t.Errorf("group members = %v, want the two 1 KiB copies", group.Paths)
	}

	for _, path := range []string{"intro.mp4", "archive/intro-copy.mp4", "trailer.mp4"} {
		rec, ok := result.Hashes[path]
		if !ok {
			t.Fatalf("no hash record for %s", path)
		}
		if rec.Method != types.HashFull {
			t.Errorf("%s hashed via %s, want full", path, rec.Method)
		}
	}
	if rec := result.Hashes["feature.mp4"]; rec.Method != types.HashSampled {
		t.Errorf("feature.mp4 hashed via %s, want sampled", rec.Method)
	}

	if result.Hashing == nil {
		t.Fatal("Hashing stats missing")
	}
	if result.Hashing.FullCount != 3 || result.Hashing.SampledCount != 1 {
		t.Errorf("hash counts = %d full / %d sampled, want 3/1",
			result.Hashing.FullCount, result.Hashing.SampledCount)
	}
	if result.Hashing.DuplicateGroups != 1 {
		t.Errorf("DuplicateGroups = %d, want 1", result.Hashing.DuplicateGroups)
	}
	if result.Hashing.Errors != 0 {
		t.Errorf("hash errors = %d, want 0", result.Hashing.Errors)
	}
}

// TestScanWithoutHashing verifies a metadata-only scan carries no hash
// state at all.
func TestScanWithoutHashing(t *testing.T) {
	root := createMediaTree(t)

	opts := DefaultOptions()
	opts.Root = root

	_, result := mustScan(t, opts)

	if result.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", result.TotalFiles)
	}
	if result.Hashing != nil {
		t.Error("Hashing stats present on a hash-disabled scan")
	}
	if len(result.Hashes) != 0 {
		t.Errorf("got %d hash records, want 0", len(result.Hashes))
	}
	if len(result.Groups) != 0 {
		t.Errorf("got %d groups, want 0", len(result.Groups))
	}
	if result.Timings.Hash != 0 {
		t.Errorf("hash stage duration = %v, want 0", result.Timings.Hash)
	}
}

// TestFileCountMatchesFileMap checks the no-duplicates/no-omissions
// property on a wider static tree.
func TestFileCountMatchesFileMap(t *testing.T) {
	root := t.TempDir()
	want := 0
	for _, dir := range []string{"", "a", "a/b", "a/b/c", "d", "d/e"} {
		full := filepath.Join(root, dir)
		if dir != "" {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
		}
		for i := 0; i < 5; i++ {
			writeSized(t, filepath.Join(full, "clip"+string(rune('0'+i))+".mp4"), 256+i)
			want++
		}
	}

	opts := DefaultOptions()
	opts.Root = root
	opts.Exclude = nil

	_, result := mustScan(t, opts)

	if int(result.TotalFiles) != want {
		t.Errorf("TotalFiles = %d, want %d", result.TotalFiles, want)
	}
	if len(result.Files) != want {
		t.Errorf("len(Files) = %d, want %d", len(result.Files), want)
	}

	seen := map[string]bool{}
	for _, rec := range result.Files {
		if seen[rec.Path] {
			t.Errorf("duplicate path in file list: %s", rec.Path)
		}
		seen[rec.Path] = true
	}
}

// TestPeakConcurrencyBounded checks the observed active-task watermark
// never exceeds the configured cap.
func TestPeakConcurrencyBounded(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		dir := filepath.Join(root, "d"+string(rune('a'+i%26))+string(rune('0'+i/26)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		writeSized(t, filepath.Join(dir, "clip.mp4"), 512)
	}

	opts := DefaultOptions()
	opts.Root = root
	opts.MaxConcurrency = 2

	_, result := mustScan(t, opts)

	if result.PeakConcurrency > 2 {
		t.Errorf("peak concurrency %d exceeded cap 2", result.PeakConcurrency)
	}
	if result.PeakConcurrency < 1 {
		t.Errorf("peak concurrency %d, want at least 1", result.PeakConcurrency)
	}
}

// TestSortedByCreateTime checks the final ordering and its determinism.
func TestSortedByCreateTime(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	for i, name := range []string{"late.mp4", "early.mp4", "middle.mp4"} {
		path := filepath.Join(root, name)
		writeSized(t, path, 128)
		mtime := base.Add(time.Duration((i*7)%5) * time.Hour)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	opts := DefaultOptions()
	opts.Root = root

	_, result := mustScan(t, opts)

	for i := 1; i < len(result.Files); i++ {
		prev, cur := result.Files[i-1], result.Files[i]
		if cur.CreateTime.Before(prev.CreateTime) {
			t.Errorf("files out of order: %s (%v) before %s (%v)",
				prev.Path, prev.CreateTime, cur.Path, cur.CreateTime)
		}
		if cur.CreateTime.Equal(prev.CreateTime) && cur.Path < prev.Path {
			t.Errorf("tie not broken by path: %s after %s", prev.Path, cur.Path)
		}
	}

	// A second scan of the same tree must produce the same order.
	s2, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	again, err := s2.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := range result.Files {
		if result.Files[i].Path != again.Files[i].Path {
			t.Errorf("order not reproducible at %d: %s vs %s",
				i, result.Files[i].Path, again.Files[i].Path)
		}
	}
}

// TestUnreadableSubdirectory simulates a permission failure mid-tree: the
// scan must still complete, report a warning for the directory, and
// exclude its contents.
func TestUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	writeSized(t, filepath.Join(root, "visible.mp4"), 512)

	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSized(t, filepath.Join(locked, "hidden.mp4"), 512)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	opts := DefaultOptions()
	opts.Root = root

	s, result := mustScan(t, opts)

	if s.State() != StateCompleted {
		t.Errorf("state = %s, want completed", s.State())
	}
	if result.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1 (locked subtree excluded)", result.TotalFiles)
	}

	found := false
	for _, warning := range result.Warnings {
		if warning.Kind == types.WarnDirectoryRead && warning.Path == "locked" {
			found = true
		}
	}
	if !found {
		t.Errorf("no directory-read warning for locked dir; warnings = %v", result.Warnings)
	}
}

// TestHashFailureKeepsMetadata verifies a file the engine cannot read
// stays in the file map but never reaches the duplicate index.
func TestHashFailureKeepsMetadata(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	sealed := filepath.Join(root, "sealed.mp4")
	writeSized(t, sealed, 512)
	if err := os.Chmod(sealed, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(sealed, 0o644) })

	opts := DefaultOptions()
	opts.Root = root
	opts.EnableHash = true

	s, result := mustScan(t, opts)

	if s.State() != StateCompleted {
		t.Errorf("state = %s, want completed", s.State())
	}
	if result.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1 (metadata survives hash failure)", result.TotalFiles)
	}
	if _, ok := result.Hashes["sealed.mp4"]; ok {
		t.Error("unreadable file has a hash record")
	}
	if result.Hashing.Errors != 1 {
		t.Errorf("hash errors = %d, want 1", result.Hashing.Errors)
	}

	found := false
	for _, warning := range result.Warnings {
		if warning.Kind == types.WarnHashCompute && warning.Path == "sealed.mp4" {
			found = true
		}
	}
	if !found {
		t.Errorf("no hash-compute warning; warnings = %v", result.Warnings)
	}
}

func TestFatalRootErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Root = filepath.Join(t.TempDir(), "does-not-exist")

		s, err := New(opts)
		if err != nil {
			t.Fatal(err)
		}
		result, err := s.Scan(context.Background())
		if err == nil {
			t.Fatal("expected error for missing root")
		}
		if result != nil {
			t.Error("result returned alongside fatal root error")
		}
		if s.State() != StateFailed {
			t.Errorf("state = %s, want failed", s.State())
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "clip.mp4")
		writeSized(t, file, 64)

		opts := DefaultOptions()
		opts.Root = file

		s, err := New(opts)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Scan(context.Background()); !errors.Is(err, ErrNotDirectory) {
			t.Errorf("error = %v, want ErrNotDirectory", err)
		}
	})
}

func TestScannerSingleUse(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "clip.mp4"), 64)

	opts := DefaultOptions()
	opts.Root = root

	s, _ := mustScan(t, opts)
	if _, err := s.Scan(context.Background()); !errors.Is(err, ErrSessionUsed) {
		t.Errorf("second Scan error = %v, want ErrSessionUsed", err)
	}
}

func TestExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "keep.mp4"), 64)

	skipped := filepath.Join(root, "render-cache")
	if err := os.Mkdir(skipped, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSized(t, filepath.Join(skipped, "tmp.bin"), 64)

	opts := DefaultOptions()
	opts.Root = root
	opts.Exclude = []string{"render-cache"}

	_, result := mustScan(t, opts)

	if result.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", result.TotalFiles)
	}
	if result.Files[0].Path != "keep.mp4" {
		t.Errorf("remaining file = %s, want keep.mp4", result.Files[0].Path)
	}
}

func TestScanCancelledContext(t *testing.T) {
	root := createMediaTree(t)

	opts := DefaultOptions()
	opts.Root = root

	s, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if s.State() != StateFailed {
		t.Errorf("state = %s, want failed", s.State())
	}
}

func TestProgressReporting(t *testing.T) {
	root := createMediaTree(t)

	var mu sync.Mutex
	var calls int
	var last Progress
	opts := DefaultOptions()
	opts.Root = root
	opts.OnProgress = func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = p
	}

	_, result := mustScan(t, opts)

	mu.Lock()
	defer mu.Unlock()
	if calls == 0 {
		t.Fatal("progress callback never invoked")
	}
	if last.FilesScanned != result.TotalFiles {
		t.Errorf("final progress files = %d, want %d", last.FilesScanned, result.TotalFiles)
	}
}
