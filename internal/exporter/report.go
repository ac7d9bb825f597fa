package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "wcscli/internal/errors"
	"wcscli/internal/ingest"
	"wcscli/internal/wcs"
)

// Entry pairs one recording's metadata with its analysis result. Series is
// only populated when the batch runs with derived-series capture; it feeds
// the per-file series export and stays out of the JSON report.
type Entry struct {
	AnalysisID string             `json:"analysis_id"`
	Metadata   ingest.Metadata    `json:"metadata"`
	Result     *wcs.Result        `json:"result"`
	Series     *wcs.DerivedSeries `json:"-"`
}

// reportHeader is the fixed report column contract: identification columns,
// then TH0 distance/time/start/end, TH1 distance/time/start/end, and the
// epoch duration, in that order.
var reportHeader = []string{
	"Player", "Source_File", "Mode", "Degenerate",
	"Distance_TH_0", "Time_TH_0", "Start_TH_0", "End_TH_0",
	"Distance_TH_1", "Time_TH_1", "Start_TH_1", "End_TH_1",
	"Epoch_Minutes",
}

// ReportWriter flattens analysis results into report files
type ReportWriter struct {
	outDir string
	csv    *CSVWriter
}

// NewReportWriter creates a report writer rooted at the output directory
func NewReportWriter(outDir string) *ReportWriter {
	return &ReportWriter{
		outDir: outDir,
		csv:    NewCSVWriter(outDir),
	}
}

// reportRows flattens every (file, mode, epoch) triple into one row each,
// rolling results first, preserving epoch input order
func reportRows(entries []Entry) [][]string {
	var rows [][]string
	for _, entry := range entries {
		if entry.Result == nil {
			continue
		}
		for _, er := range entry.Result.Rolling {
			rows = append(rows, reportRow(entry, er))
		}
		for _, er := range entry.Result.Contiguous {
			rows = append(rows, reportRow(entry, er))
		}
	}
	return rows
}

func reportRow(entry Entry, er wcs.EpochResult) []string {
	return []string{
		entry.Metadata.PlayerName,
		entry.Metadata.SourceFile,
		er.Mode.String(),
		formatBool(er.Degenerate),
		formatFloat(er.TH0.Distance),
		formatFloat(er.TH0.Duration),
		formatInt(er.TH0.StartIndex),
		formatInt(er.TH0.EndIndex),
		formatFloat(er.TH1.Distance),
		formatFloat(er.TH1.Duration),
		formatInt(er.TH1.StartIndex),
		formatInt(er.TH1.EndIndex),
		formatMinutes(er.EpochMinutes),
	}
}

// WriteCSVReport writes the flattened report as a CSV file
func (w *ReportWriter) WriteCSVReport(entries []Entry, fileName string) error {
	err := w.csv.WriteCSV(fileName, WriteOptions{
		Headers:   reportHeader,
		Records:   reportRows(entries),
		BOMPrefix: true,
	})
	if err != nil {
		return apperrors.NewExportError("write CSV report", err)
	}
	return nil
}

// WriteJSON writes the complete result bundles as an indented JSON file
func (w *ReportWriter) WriteJSON(entries []Entry, fileName string) error {
	fullPath := filepath.Join(w.outDir, fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewExportError("create output directory", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return apperrors.NewExportError("marshal results", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return apperrors.NewExportError("write JSON report", err)
	}
	return nil
}

// WriteWorkbook writes a two-sheet XLSX workbook: the flattened report and
// a per-file summary of maximum distances
func (w *ReportWriter) WriteWorkbook(entries []Entry, fileName string) error {
	fullPath := filepath.Join(w.outDir, fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewExportError("create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const reportSheet = "WCS Report"
	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return apperrors.NewExportError("rename report sheet", err)
	}

	if err := writeSheetRows(f, reportSheet, reportHeader, reportRows(entries)); err != nil {
		return apperrors.NewExportError("write report sheet", err)
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return apperrors.NewExportError("create summary sheet", err)
	}
	summaryHeader, summaryRows := summarize(entries)
	if err := writeSheetRows(f, summarySheet, summaryHeader, summaryRows); err != nil {
		return apperrors.NewExportError("write summary sheet", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewExportError("save workbook", err)
	}
	return nil
}

// writeSheetRows writes a header and data rows starting at A1
func writeSheetRows(f *excelize.File, sheet string, header []string, rows [][]string) error {
	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// summarize builds the per-file maxima sheet: the greatest TH0 and TH1
// distances per mode across all epochs of each file
func summarize(entries []Entry) ([]string, [][]string) {
	header := []string{
		"Player", "Source_File",
		"Rolling_Max_Distance_TH_0", "Rolling_Max_Distance_TH_1",
		"Contiguous_Max_Distance_TH_0", "Contiguous_Max_Distance_TH_1",
		"Mean_Velocity", "Total_Samples",
	}

	var rows [][]string
	for _, entry := range entries {
		if entry.Result == nil {
			continue
		}
		rows = append(rows, []string{
			entry.Metadata.PlayerName,
			entry.Metadata.SourceFile,
			formatFloat(maxDistance(entry.Result.Rolling, false)),
			formatFloat(maxDistance(entry.Result.Rolling, true)),
			formatFloat(maxDistance(entry.Result.Contiguous, false)),
			formatFloat(maxDistance(entry.Result.Contiguous, true)),
			formatFloat(entry.Result.VelocityStats.Mean),
			formatInt(entry.Result.VelocityStats.TotalSamples),
		})
	}
	return header, rows
}

func maxDistance(results []wcs.EpochResult, th1 bool) float64 {
	var max float64
	for _, er := range results {
		d := er.TH0.Distance
		if th1 {
			d = er.TH1.Distance
		}
		if d > max {
			max = d
		}
	}
	return max
}

// FileNameForFormat maps an export format to the report file name
func FileNameForFormat(format, baseName string) (string, error) {
	switch format {
	case "csv":
		return baseName + ".csv", nil
	case "xlsx":
		return baseName + ".xlsx", nil
	case "json":
		return baseName + ".json", nil
	default:
		return "", apperrors.NewConfigError(fmt.Sprintf("unknown export format %q", format), nil)
	}
}
