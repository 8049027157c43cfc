//go:build darwin

package scanner

import (
	"os"
	"syscall"
	"time"
)

// fileTimes extracts the three timestamps from a stat result.
// macOS exposes true birth time via Birthtimespec.
func fileTimes(info os.FileInfo) timestamps {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return timestamps{
			create: info.ModTime(),
			modify: info.ModTime(),
			access: info.ModTime(),
		}
	}

	return timestamps{
		create: time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec),
		modify: time.Unix(stat.Mtimespec.Sec, stat.Mtimespec.Nsec),
		access: time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec),
	}
}
