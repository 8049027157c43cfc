package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

func sampleResult() *types.ScanResult {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &types.ScanResult{
		SessionID: "11111111-2222-3333-4444-555555555555",
		Root:      "/media/reels",
		Files: []types.FileRecord{
			{Path: "intro.mp4", Size: 1024, CreateTime: now, ModifyTime: now, AccessTime: now},
			{Path: "archive/intro-copy.mp4", Size: 1024, CreateTime: now.Add(time.Minute), ModifyTime: now, AccessTime: now},
			{Path: "feature.mp4", Size: 50 * 1024, CreateTime: now.Add(2 * time.Minute), ModifyTime: now, AccessTime: now},
		},
		Hashes: map[string]types.HashRecord{
			"intro.mp4":              {Digest: "00000000000000aa", Method: types.HashFull},
			"archive/intro-copy.mp4": {Digest: "00000000000000aa", Method: types.HashFull},
			"feature.mp4":            {Digest: "00000000000000bb", Method: types.HashSampled},
		},
		Groups: []types.DuplicateGroup{
			{Digest: "00000000000000aa", Paths: []string{"intro.mp4", "archive/intro-copy.mp4"}},
		},
		TotalFiles:      3,
		TotalDirs:       2,
		TotalSize:       52 * 1024,
		PeakConcurrency: 2,
		Timings: types.StageTimings{
			Scan: 12 * time.Millisecond,
			Stat: 4 * time.Millisecond,
			Hash: 6 * time.Millisecond,
			Sort: time.Millisecond,
		},
		Hashing: &types.HashStats{FullCount: 2, SampledCount: 1, DuplicateGroups: 1},
	}
}

func TestRegistryContainsAllFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "plain", "pretty", "tsv", "yaml"}, Formats())
}

func TestGetUnknownFormat(t *testing.T) {
	_, err := Get("sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestNewReportSelectsLargest(t *testing.T) {
	report := NewReport(sampleResult(), 1)
	require.Len(t, report.Top, 1)
	assert.Equal(t, "feature.mp4", report.Top[0].Path)
}

// TestFormattersRender smoke-tests every registered formatter against the
// same report.
func TestFormattersRender(t *testing.T) {
	report := NewReport(sampleResult(), 10)

	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			formatter, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, formatter.Format(&buf, report))
			assert.NotZero(t, buf.Len())
			assert.Contains(t, buf.String(), "feature.mp4")
		})
	}
}

func TestJSONOutputParses(t *testing.T) {
	formatter, err := Get("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, NewReport(sampleResult(), 10)))

	var envelope struct {
		Result struct {
			SessionID  string `json:"session_id"`
			TotalFiles int64  `json:"total_files"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", envelope.Result.SessionID)
	assert.Equal(t, int64(3), envelope.Result.TotalFiles)
}

func TestYAMLOutputParses(t *testing.T) {
	formatter, err := Get("yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, NewReport(sampleResult(), 10)))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.NotEmpty(t, doc)
}

func TestCSVOutputParses(t *testing.T) {
	formatter, err := Get("csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, formatter.Format(&buf, NewReport(sampleResult(), 10)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Greater(t, len(records), 1, "expected a header plus data rows")
}
