package ingest

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"wcscli/internal/errors"
)

// readWorkbook reads a velocity recording from an XLSX workbook. The sheet
// is located by scanning for a header row containing a velocity-like
// column, since vendor exports are inconsistent about sheet naming.
func readWorkbook(path string) (*Recording, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("open workbook", err).WithContext("file", path)
	}
	defer f.Close()

	rows, sheetName, headerRow, velCol := findVelocitySheet(f)
	if velCol < 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("no sheet with a velocity column found in %s", filepath.Base(path)), nil)
	}

	slog.Info("found velocity data in workbook",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)),
	)

	velocity := make([]float64, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if velCol >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[velCol])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			slog.Warn("skipping unparseable velocity cell",
				"sheet", sheetName,
				"row", i+1,
				"value", cell,
			)
			continue
		}
		velocity = append(velocity, v)
	}

	rec := &Recording{
		Velocity: velocity,
		Metadata: Metadata{
			FileType:     "XLSX",
			PlayerName:   "Unknown",
			TotalRecords: len(velocity),
			SourceFile:   filepath.Base(path),
		},
	}
	if err := validateRecording(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// findVelocitySheet scans every sheet for a header row carrying a
// velocity-like column within its first rows
func findVelocitySheet(f *excelize.File) (rows [][]string, sheetName string, headerRow, velCol int) {
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) < 2 {
			continue
		}
		limit := len(sheetRows)
		if limit > 10 {
			limit = 10
		}
		for r := 0; r < limit; r++ {
			if col := findColumn(sheetRows[r], "velocity", "speed m/s", "speed"); col >= 0 {
				return sheetRows, name, r, col
			}
		}
	}
	return nil, "", 0, -1
}
