package config

// Default scan settings.
const (
	// DefaultPath is the default scan root.
	DefaultPath = "."

	// DefaultMaxConcurrency caps simultaneous directory and file
	// operations. Directory listing and stat batches share this bound.
	DefaultMaxConcurrency = 200

	// DefaultBatchSize is the number of files stated concurrently per
	// batch within one directory.
	DefaultBatchSize = 50
)

// Default hashing settings.
const (
	// DefaultHashThreshold is the boundary between full and sampled
	// hashing, as a parseable size string.
	DefaultHashThreshold = "10KiB"

	// DefaultHashSampleSize is the bytes read per sample window.
	DefaultHashSampleSize = "2KiB"
)

// DefaultExclusions are glob patterns skipped during every scan unless
// overridden in configuration.
var DefaultExclusions = []string{".git"}
