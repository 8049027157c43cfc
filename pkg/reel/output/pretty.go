package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// PrettyFormatter renders a styled terminal view of the scan result.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r.Result))
	w.WriteString("\n")

	if len(r.Top) > 0 {
		w.WriteString(f.formatFiles(r))
	}
	if r.Result.Hashing != nil && len(r.Result.Groups) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatGroups(r.Result))
	}

	w.WriteString(f.formatFooter(r.Result))

	if len(r.Result.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Result.Warnings))
	}
	return nil
}

// formatHeader builds the summary box.
func (f *PrettyFormatter) formatHeader(res *types.ScanResult) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Root:"),
		ValueStyle.Render(res.Root)))

	summary := fmt.Sprintf("%d files in %d dirs, %s",
		res.TotalFiles, res.TotalDirs, types.FormatSize(int64(res.TotalSize)))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Scanned:"),
		ValueStyle.Render(summary),
		LabelStyle.Render("Session:"),
		MutedStyle.Render(res.SessionID)))

	if res.Hashing != nil {
		hashed := fmt.Sprintf("%d full, %d sampled, %d groups, %d errors",
			res.Hashing.FullCount, res.Hashing.SampledCount,
			res.Hashing.DuplicateGroups, res.Hashing.Errors)
		lines = append(lines, fmt.Sprintf("%s %s",
			LabelStyle.Render("Hashing:"),
			ValueStyle.Render(hashed)))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatFiles renders the largest-files listing.
func (f *PrettyFormatter) formatFiles(r *Report) string {
	var b strings.Builder
	for _, file := range r.Top {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			SizeStyle.Render(fmt.Sprintf("%10s", file.HumanSize())),
			ValueStyle.Render(file.Path)))
	}
	return b.String()
}

// formatGroups renders the candidate duplicate groups.
func (f *PrettyFormatter) formatGroups(res *types.ScanResult) string {
	var b strings.Builder
	for _, group := range res.Groups {
		b.WriteString(DigestStyle.Render(group.Digest))
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  (%d files)", len(group.Paths))))
		b.WriteString("\n")
		for _, path := range group.Paths {
			b.WriteString(fmt.Sprintf("  %s\n", ValueStyle.Render(path)))
		}
	}
	return b.String()
}

// formatFooter builds the stage timing box.
func (f *PrettyFormatter) formatFooter(res *types.ScanResult) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("scan"),
			ValueStyle.Render(res.Timings.Scan.Round(timeUnit).String())),
		fmt.Sprintf("%s %s", LabelStyle.Render("stat"),
			ValueStyle.Render(res.Timings.Stat.Round(timeUnit).String())),
	}
	if res.Hashing != nil {
		parts = append(parts, fmt.Sprintf("%s %s", LabelStyle.Render("hash"),
			ValueStyle.Render(res.Timings.Hash.Round(timeUnit).String())))
	}
	parts = append(parts,
		fmt.Sprintf("%s %s", LabelStyle.Render("sort"),
			ValueStyle.Render(res.Timings.Sort.Round(timeUnit).String())),
		fmt.Sprintf("%s %d", LabelStyle.Render("peak"), res.PeakConcurrency))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings renders one line per recovered error.
func (f *PrettyFormatter) formatWarnings(warnings []types.Warning) string {
	var b strings.Builder
	for _, warning := range warnings {
		b.WriteString(WarningStyle.Render(
			fmt.Sprintf("warning [%s] %s: %s", warning.Kind, warning.Path, warning.Err)))
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
