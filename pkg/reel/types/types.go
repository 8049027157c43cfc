// Package types provides the core data types for the reel media scanner.
// It defines the per-file records collected during a scan, the frozen
// ScanResult returned to callers, and utility functions for parsing and
// formatting sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// FileRecord contains the metadata collected for one regular file.
// Paths are relative to the scan root and unique within a session.
type FileRecord struct {
	// Path is the path relative to the scan root.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size uint64 `json:"size"`

	// CreateTime is the creation (birth) time of the file. On platforms
	// that do not expose birth time it falls back to the modification time.
	CreateTime time.Time `json:"create_time"`

	// ModifyTime is the last modification time.
	ModifyTime time.Time `json:"modify_time"`

	// AccessTime is the last access time.
	AccessTime time.Time `json:"access_time"`

	// StatDuration is the wall-clock cost of fetching this record's metadata.
	StatDuration time.Duration `json:"stat_duration"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (f *FileRecord) HumanSize() string {
	return FormatSize(int64(f.Size))
}

// HashMethod identifies how a file's fingerprint was computed.
type HashMethod string

// Hash methods.
const (
	// HashFull means the entire file content was hashed.
	HashFull HashMethod = "full"

	// HashSampled means only head/mid/tail windows were hashed.
	HashSampled HashMethod = "sampled"
)

// HashRecord contains the fingerprint computed for one file.
// At most one HashRecord exists per file per session.
type HashRecord struct {
	// Path is the path relative to the scan root.
	Path string `json:"path"`

	// Digest is the fixed-width lowercase hex fingerprint.
	Digest string `json:"digest"`

	// Method records whether the digest covers the full content or samples.
	Method HashMethod `json:"method"`

	// ComputeDuration is the wall-clock cost of computing the digest.
	ComputeDuration time.Duration `json:"compute_duration"`
}

// DuplicateGroup is a set of files sharing one fingerprint, in discovery
// order. Membership means fingerprint equality only: for sampled hashes the
// files are candidate duplicates, not proven byte-identical.
type DuplicateGroup struct {
	// Digest is the shared fingerprint.
	Digest string `json:"digest"`

	// Paths lists the member files in discovery order.
	Paths []string `json:"paths"`
}

// WarningKind classifies a recovered scan error.
type WarningKind string

// Warning kinds.
const (
	// WarnDirectoryRead indicates an unreadable directory whose subtree
	// was skipped.
	WarnDirectoryRead WarningKind = "directory-read"

	// WarnFileStat indicates a failed metadata fetch; the file is absent
	// from the file map.
	WarnFileStat WarningKind = "file-stat"

	// WarnHashCompute indicates a read failure during fingerprinting; the
	// file keeps its metadata but is excluded from duplicate grouping.
	WarnHashCompute WarningKind = "hash-compute"
)

// Warning represents a recovered error encountered during scanning.
// Every recovered error is attached to the ScanResult so programmatic
// callers can react without parsing log output.
type Warning struct {
	// Kind classifies the failure.
	Kind WarningKind `json:"kind"`

	// Path is the file or directory where the failure occurred.
	Path string `json:"path"`

	// Err is the underlying error message.
	Err string `json:"error"`
}

// StageTimings breaks down where a scan spent its time.
//
// Scan and Sort are wall-clock phase durations. Stat and Hash overlap the
// traversal phase, so they are reported as the cumulative sum of per-file
// costs instead.
type StageTimings struct {
	// Scan is the wall-clock duration of the traversal phase, including
	// the stat and hash work interleaved with it.
	Scan time.Duration `json:"scan"`

	// Stat is the cumulative per-file metadata fetch cost.
	Stat time.Duration `json:"stat"`

	// Hash is the cumulative per-file fingerprint cost.
	Hash time.Duration `json:"hash"`

	// Sort is the wall-clock duration of the final ordering pass.
	Sort time.Duration `json:"sort"`
}

// StageAverages reports the mean per-file cost of each stage.
type StageAverages struct {
	Stat time.Duration `json:"stat"`
	Hash time.Duration `json:"hash"`
}

// HashStats summarizes fingerprinting activity for a session.
// It is nil on results produced with hashing disabled.
type HashStats struct {
	// FullCount is the number of files hashed over their entire content.
	FullCount int64 `json:"full_count"`

	// SampledCount is the number of files hashed via head/mid/tail windows.
	SampledCount int64 `json:"sampled_count"`

	// DuplicateGroups is the number of reportable groups (two or more members).
	DuplicateGroups int `json:"duplicate_groups"`

	// Errors is the number of files whose fingerprint could not be computed.
	Errors int64 `json:"errors"`
}

// ScanResult is the frozen outcome of a completed scan session.
// It is immutable once returned; all query methods are read-only.
type ScanResult struct {
	// SessionID uniquely identifies the scan invocation.
	SessionID string `json:"session_id"`

	// Root is the absolute path that was scanned.
	Root string `json:"root"`

	// Files contains every successfully stated file, ordered by creation
	// time ascending with ties broken by path.
	Files []FileRecord `json:"files"`

	// Hashes maps relative path to the fingerprint computed for it.
	// Empty when hashing is disabled.
	Hashes map[string]HashRecord `json:"hashes,omitempty"`

	// Groups contains all duplicate groups with two or more members.
	Groups []DuplicateGroup `json:"groups,omitempty"`

	// TotalFiles is the number of unique files in the session file map.
	TotalFiles int64 `json:"total_files"`

	// TotalDirs is the number of directories traversed.
	TotalDirs int64 `json:"total_dirs"`

	// TotalSize is the sum of all recorded file sizes in bytes.
	TotalSize uint64 `json:"total_size"`

	// PeakConcurrency is the highest number of simultaneously active
	// traversal tasks observed during the scan.
	PeakConcurrency int64 `json:"peak_concurrency"`

	// Timings breaks down elapsed time by stage.
	Timings StageTimings `json:"timings"`

	// Averages reports mean per-file stage costs.
	Averages StageAverages `json:"averages"`

	// Warnings lists every recovered error, one entry per failure.
	Warnings []Warning `json:"warnings,omitempty"`

	// Hashing summarizes fingerprint activity, nil when hashing was off.
	Hashing *HashStats `json:"hashing,omitempty"`
}

// sizePattern matches size strings like "10K", "2KiB", "1.5M".
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMG]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that a size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ParseSize parses a human-readable size string into bytes.
// Supported forms: "1024", "512B", "10K", "10KiB", "2M", "1G".
// Decimal values are truncated to the nearest byte.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative size %q", ErrInvalidSize, s)
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a byte count to a human-readable IEC string.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
