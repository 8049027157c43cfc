//go:build !linux && !darwin

package scanner

import "os"

// fileTimes extracts the three timestamps from a stat result.
// Platforms without a known Stat_t layout fall back to the modification
// time for all three.
func fileTimes(info os.FileInfo) timestamps {
	return timestamps{
		create: info.ModTime(),
		modify: info.ModTime(),
		access: info.ModTime(),
	}
}
