//go:build linux

package scanner

import (
	"os"
	"syscall"
	"time"
)

// fileTimes extracts the three timestamps from a stat result.
// Linux does not reliably expose birth time through syscall.Stat_t, so
// creation time falls back to the modification time.
func fileTimes(info os.FileInfo) timestamps {
	ts := timestamps{
		create: info.ModTime(),
		modify: info.ModTime(),
		access: info.ModTime(),
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return ts
	}

	ts.access = time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
	return ts
}
