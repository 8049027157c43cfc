// Package tuner detects system resources and clamps the scanner's
// concurrency settings to values the host can sustain. The scanner's
// worst-case descriptor pressure is one open directory per active task
// plus one open file per in-flight stat batch entry, so both knobs are
// bounded against RLIMIT_NOFILE with headroom left for the process.
package tuner

import "runtime"

const (
	// fdHeadroom is the number of descriptors reserved for everything
	// that is not scan I/O (log file, config, stdio, runtime).
	fdHeadroom = 64

	// minConcurrency keeps the pool useful even on tightly limited hosts.
	minConcurrency = 4

	// minBatchSize keeps stat batching meaningful.
	minBatchSize = 4
)

// SystemResources contains detected host resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// OpenFileLimit is the soft RLIMIT_NOFILE value, or 0 when the
	// platform does not expose one.
	OpenFileLimit uint64
}

// Detect returns the host's resources. It never fails; unavailable
// values are reported as zero.
func Detect() SystemResources {
	return SystemResources{
		CPUCores:      runtime.NumCPU(),
		OpenFileLimit: openFileLimit(),
	}
}

// Limits holds concurrency settings that fit the detected resources.
type Limits struct {
	// MaxConcurrency caps simultaneously active traversal tasks.
	MaxConcurrency int

	// BatchSize is the stat fan-out per batch.
	BatchSize int
}

// Clamp reduces the requested settings so that a fully loaded pool cannot
// exhaust the descriptor limit. Requested values whose worst-case usage
// fits the budget pass through unchanged.
func Clamp(resources SystemResources, maxConcurrency, batchSize int) Limits {
	if maxConcurrency < minConcurrency {
		maxConcurrency = minConcurrency
	}
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}

	if resources.OpenFileLimit == 0 {
		return Limits{MaxConcurrency: maxConcurrency, BatchSize: batchSize}
	}

	budget := int(resources.OpenFileLimit)
	if budget > fdHeadroom {
		budget -= fdHeadroom
	}

	// Every pool slot can hold a directory handle plus a full batch of
	// file handles at the same time, so the worst case is the product,
	// not the sum.
	for maxConcurrency > minConcurrency && maxConcurrency*(1+batchSize) > budget {
		maxConcurrency /= 2
	}
	if maxConcurrency < minConcurrency {
		maxConcurrency = minConcurrency
	}
	for batchSize > minBatchSize && maxConcurrency*(1+batchSize) > budget {
		batchSize /= 2
	}
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}

	return Limits{MaxConcurrency: maxConcurrency, BatchSize: batchSize}
}
