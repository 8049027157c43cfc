package output

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter emits the full result as indented JSON for programmatic
// consumers.
type JSONFormatter struct{}

// jsonEnvelope wraps the result with the display subset so callers get the
// same view the human formatters show.
type jsonEnvelope struct {
	Result interface{} `json:"result"`
	Top    interface{} `json:"top,omitempty"`
}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonEnvelope{
		Result: r.Result,
		Top:    r.Top,
	})
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
