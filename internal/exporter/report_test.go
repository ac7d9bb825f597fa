package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wcscli/internal/ingest"
	"wcscli/internal/wcs"
)

func sampleEntry(t *testing.T) Entry {
	t.Helper()

	series := make([]float64, 600)
	for i := range series {
		series[i] = 5
	}
	analyzer := wcs.NewAnalyzer(wcs.Params{
		SamplingRate:   10,
		EpochDurations: []float64{10.0 / 60.0},
		TH1:            wcs.Band{Min: 5, Max: 100},
	}, nil)

	result, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)

	return Entry{
		AnalysisID: "test-analysis",
		Metadata: ingest.Metadata{
			FileType:   "StatSports",
			PlayerName: "Sam Doe",
			SourceFile: "session.csv",
		},
		Result: result,
	}
}

func TestWriteCSVReport(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(dir)
	entry := sampleEntry(t)

	require.NoError(t, writer.WriteCSVReport([]Entry{entry}, "report.csv"))

	raw, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)

	// BOM prefix for Excel, then the fixed header
	content := string(raw)
	require.True(t, strings.HasPrefix(content, "\xef\xbb\xbf"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\xef\xbb\xbf")))
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Equal(t, reportHeader, records[0])
	// one rolling row + one contiguous row for the single epoch
	require.Len(t, records, 3)

	rolling := records[1]
	assert.Equal(t, "Sam Doe", rolling[0])
	assert.Equal(t, "session.csv", rolling[1])
	assert.Equal(t, "rolling", rolling[2])
	assert.Equal(t, "50.00", rolling[4])  // Distance_TH_0
	assert.Equal(t, "10.00", rolling[5])  // Time_TH_0
	assert.Equal(t, "50.00", rolling[8])  // Distance_TH_1 (flat 5 m/s is in-band)

	contiguous := records[2]
	assert.Equal(t, "contiguous", contiguous[2])
	assert.Equal(t, "50.00", contiguous[4])
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(dir)
	entry := sampleEntry(t)

	require.NoError(t, writer.WriteJSON([]Entry{entry}, "report.json"))

	raw, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)

	assert.Equal(t, "test-analysis", decoded[0].AnalysisID)
	assert.Equal(t, "Sam Doe", decoded[0].Metadata.PlayerName)
	require.NotNil(t, decoded[0].Result)
	assert.InDelta(t, 5.0, decoded[0].Result.VelocityStats.Mean, 1e-9)
	require.Len(t, decoded[0].Result.Rolling, 1)
	assert.InDelta(t, 50.0, decoded[0].Result.Rolling[0].TH0.Distance, 1e-6)
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(dir)
	entry := sampleEntry(t)

	require.NoError(t, writer.WriteWorkbook([]Entry{entry}, "report.xlsx"))

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	sheetRows, err := f.GetRows("WCS Report")
	require.NoError(t, err)
	require.Len(t, sheetRows, 3)
	assert.Equal(t, "Player", sheetRows[0][0])
	assert.Equal(t, "rolling", sheetRows[1][2])

	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summaryRows, 2)
	assert.Equal(t, "Sam Doe", summaryRows[1][0])
	assert.Equal(t, "50.00", summaryRows[1][2])
}

func TestFileNameForFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected string
		wantErr  bool
	}{
		{"csv", "wcs_report.csv", false},
		{"xlsx", "wcs_report.xlsx", false},
		{"json", "wcs_report.json", false},
		{"parquet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			name, err := FileNameForFormat(tt.format, "wcs_report")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}
