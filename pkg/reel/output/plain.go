package output

import (
	"bytes"
	"fmt"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// PlainFormatter produces unstyled text suitable for pipes and scripts.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	res := r.Result

	fmt.Fprintf(w, "scanned %s: %d files, %d dirs, %s in %s\n",
		res.Root, res.TotalFiles, res.TotalDirs,
		types.FormatSize(int64(res.TotalSize)), res.Timings.Scan.Round(timeUnit))
	fmt.Fprintf(w, "peak concurrency %d, stat %s, hash %s, sort %s\n",
		res.PeakConcurrency,
		res.Timings.Stat.Round(timeUnit),
		res.Timings.Hash.Round(timeUnit),
		res.Timings.Sort.Round(timeUnit))

	if len(r.Top) > 0 {
		fmt.Fprintf(w, "\nlargest files:\n")
		for _, file := range r.Top {
			fmt.Fprintf(w, "  %10s  %s\n", file.HumanSize(), file.Path)
		}
	}

	if res.Hashing != nil {
		fmt.Fprintf(w, "\nhashing: %d full, %d sampled, %d errors\n",
			res.Hashing.FullCount, res.Hashing.SampledCount, res.Hashing.Errors)
		for _, group := range res.Groups {
			fmt.Fprintf(w, "duplicates %s:\n", group.Digest)
			for _, path := range group.Paths {
				fmt.Fprintf(w, "  %s\n", path)
			}
		}
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning [%s] %s: %s\n", warning.Kind, warning.Path, warning.Err)
	}

	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
