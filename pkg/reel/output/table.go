package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// TSVFormatter emits the largest files as tab-separated values.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString("SIZE\tCREATED\tPATH\n")
	for _, file := range r.Top {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			file.HumanSize(),
			file.CreateTime.Format("2006-01-02 15:04:05"),
			file.Path)
	}
	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter emits the largest files and duplicate groups as RFC 4180
// CSV.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"size", "created", "digest", "path"}); err != nil {
		return err
	}

	for _, file := range r.Top {
		digest, _ := r.Result.DigestFor(file.Path)
		record := []string{
			strconv.FormatUint(file.Size, 10),
			file.CreateTime.Format("2006-01-02 15:04:05"),
			digest,
			file.Path,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)
