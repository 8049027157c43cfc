// Package output renders completed scan results for humans and machines.
// It consumes the frozen ScanResult; nothing in the core depends on it.
//
// Formatters register themselves under a name and are selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	var buf bytes.Buffer
//	err = formatter.Format(&buf, report)
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/logging"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

var logger = logging.Get("output")

// timeUnit is the rounding applied to durations in human-facing output.
const timeUnit = time.Millisecond

// Report is the view of a scan result handed to formatters. Top holds the
// largest-N files selected for display; the full sorted file list stays on
// Result.
type Report struct {
	Result *types.ScanResult

	// Top is the display subset: the largest files, descending.
	Top []types.FileRecord
}

// NewReport builds a report showing the top largest files.
func NewReport(result *types.ScanResult, top int) *Report {
	return &Report{
		Result: result,
		Top:    result.LargestFiles(top),
	}
}

// Formatter renders a report into a buffer.
type Formatter interface {
	Format(w *bytes.Buffer, r *Report) error
}

// registry holds the named formatter constructors.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Formatter)
)

// Register adds a formatter constructor under a name. Later registrations
// with the same name replace earlier ones.
func Register(name string, constructor func() Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		logger.Warn("formatter re-registered", "name", name)
	}
	registry[name] = constructor
}

// Get returns a new formatter instance for the given name.
func Get(name string) (Formatter, error) {
	registryMu.RLock()
	constructor, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, Formats())
	}
	return constructor(), nil
}

// Formats returns the registered formatter names, sorted.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
