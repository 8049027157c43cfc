//go:build !unix

package tuner

// openFileLimit is unavailable on this platform.
func openFileLimit() uint64 {
	return 0
}
