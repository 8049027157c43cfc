package output

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// yamlOutput is the YAML document structure.
type yamlOutput struct {
	Session string      `yaml:"session"`
	Root    string      `yaml:"root"`
	Stats   yamlStats   `yaml:"stats"`
	Files   []yamlFile  `yaml:"files"`
	Groups  []yamlGroup `yaml:"duplicate_groups,omitempty"`
	Warns   []yamlWarn  `yaml:"warnings,omitempty"`
}

type yamlStats struct {
	Files           int64  `yaml:"files"`
	Dirs            int64  `yaml:"dirs"`
	TotalSize       string `yaml:"total_size"`
	PeakConcurrency int64  `yaml:"peak_concurrency"`
	ScanTime        string `yaml:"scan_time"`
	StatTime        string `yaml:"stat_time"`
	HashTime        string `yaml:"hash_time,omitempty"`
	SortTime        string `yaml:"sort_time"`
}

type yamlFile struct {
	Path    string `yaml:"path"`
	Size    string `yaml:"size"`
	Created string `yaml:"created"`
}

type yamlGroup struct {
	Digest string   `yaml:"digest"`
	Paths  []string `yaml:"paths"`
}

type yamlWarn struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
	Err  string `yaml:"error"`
}

// YAMLFormatter emits a YAML summary of the result.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	res := r.Result

	doc := yamlOutput{
		Session: res.SessionID,
		Root:    res.Root,
		Stats: yamlStats{
			Files:           res.TotalFiles,
			Dirs:            res.TotalDirs,
			TotalSize:       types.FormatSize(int64(res.TotalSize)),
			PeakConcurrency: res.PeakConcurrency,
			ScanTime:        res.Timings.Scan.Round(timeUnit).String(),
			StatTime:        res.Timings.Stat.Round(timeUnit).String(),
			SortTime:        res.Timings.Sort.Round(timeUnit).String(),
		},
	}
	if res.Hashing != nil {
		doc.Stats.HashTime = res.Timings.Hash.Round(timeUnit).String()
	}

	for _, file := range r.Top {
		doc.Files = append(doc.Files, yamlFile{
			Path:    file.Path,
			Size:    file.HumanSize(),
			Created: file.CreateTime.Format("2006-01-02 15:04:05"),
		})
	}
	for _, group := range res.Groups {
		doc.Groups = append(doc.Groups, yamlGroup(group))
	}
	for _, warning := range res.Warnings {
		doc.Warns = append(doc.Warns, yamlWarn{
			Kind: string(warning.Kind),
			Path: warning.Path,
			Err:  warning.Err,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

var _ Formatter = (*YAMLFormatter)(nil)
