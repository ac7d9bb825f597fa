package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wcscli/internal/errors"
)

// MaxPlausibleVelocity bounds human movement speed; samples above it are
// logged as suspect but kept, matching the upstream tooling.
const MaxPlausibleVelocity = 20.0

// ReadFile parses a vendor export into a Recording. CSV files go through
// format detection; .xlsx files are read through the workbook path.
func ReadFile(path string) (*Recording, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewParsingError("read file", err).WithContext("file", path)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	detection := DetectFormat(lines)

	var rec *Recording
	switch detection.Format {
	case FormatStatSports:
		rec, err = parseStatSports(lines)
	case FormatCatapult:
		rec, err = parseCatapult(lines)
	case FormatGenericGPS:
		rec, err = parseGeneric(lines)
	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("unrecognized file format for %s", filepath.Base(path)), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s file: %w", detection.Format, err)
	}

	rec.Metadata.SourceFile = filepath.Base(path)
	if err := validateRecording(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// parseStatSports reads a StatSports CSV export. The velocity column name
// varies between exports ("Speed m/s" with assorted leading spaces), so
// matching is done on the trimmed header.
func parseStatSports(lines []string) (*Recording, error) {
	records, err := readCSVRows(lines, 0)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.NewParsingError("StatSports file contains no data rows", nil)
	}

	header := records[0]
	velCol := findColumn(header, "speed m/s", "speed", "velocity")
	if velCol < 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("velocity/speed column not found, available columns: %v", header), nil)
	}
	idCol := findColumn(header, "player id")
	nameCol := findColumn(header, "player display name")
	elapsedCol := findColumn(header, "elapsed time (s)")

	velocity := extractVelocity(records[1:], velCol)

	meta := Metadata{
		FileType:     "StatSports",
		PlayerName:   "Unknown",
		TotalRecords: len(velocity),
	}
	if idCol >= 0 {
		meta.PlayerID = strings.TrimSpace(records[1][idCol])
	}
	if nameCol >= 0 {
		meta.PlayerName = strings.TrimSpace(records[1][nameCol])
	}
	if elapsedCol >= 0 {
		if last, err := strconv.ParseFloat(strings.TrimSpace(records[len(records)-1][elapsedCol]), 64); err == nil {
			meta.DurationMinutes = last / 60
		}
	}

	return &Recording{Velocity: velocity, Metadata: meta}, nil
}

// parseCatapult reads a Catapult OpenField export: #-prefixed metadata
// lines followed by a CSV body whose header contains Timestamp.
func parseCatapult(lines []string) (*Recording, error) {
	meta := Metadata{FileType: "Catapult", PlayerName: "Unknown"}

	for _, line := range firstN(lines, 8) {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.Contains(line, "Athlete:"):
			meta.PlayerName = commentValue(line)
		case strings.Contains(line, "Reference time:"):
			meta.Date = commentValue(line)
		case strings.Contains(line, "DeviceId:"):
			meta.DeviceID = commentValue(line)
		case strings.Contains(line, "Period:"):
			meta.Period = commentValue(line)
		}
	}

	// The data body starts at the Timestamp header, conventionally after
	// 8 metadata lines when no header is present.
	dataStart := 0
	for i, line := range lines {
		if strings.Contains(line, "Timestamp") && strings.Contains(line, ",") {
			dataStart = i
			break
		}
	}
	if dataStart == 0 {
		dataStart = 8
	}
	if dataStart >= len(lines) {
		return nil, errors.NewParsingError("Catapult file contains no data section", nil)
	}

	records, err := readCSVRows(lines, dataStart)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.NewParsingError("Catapult file contains no data rows", nil)
	}

	velCol := findColumn(records[0], "velocity", "speed m/s", "speed")
	if velCol < 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("velocity column not found, available columns: %v", records[0]), nil)
	}

	velocity := extractVelocity(records[1:], velCol)
	meta.TotalRecords = len(velocity)

	return &Recording{Velocity: velocity, Metadata: meta}, nil
}

// parseGeneric reads any CSV with a Velocity column
func parseGeneric(lines []string) (*Recording, error) {
	records, err := readCSVRows(lines, 0)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.NewParsingError("file contains no data rows", nil)
	}

	velCol := findColumn(records[0], "velocity")
	if velCol < 0 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("velocity column not found, available columns: %v", records[0]), nil)
	}

	velocity := extractVelocity(records[1:], velCol)

	return &Recording{
		Velocity: velocity,
		Metadata: Metadata{
			FileType:     "Generic GPS",
			PlayerName:   "Unknown",
			TotalRecords: len(velocity),
		},
	}, nil
}

// readCSVRows parses the lines from startLine on as CSV records
func readCSVRows(lines []string, startLine int) ([][]string, error) {
	body := strings.Join(lines[startLine:], "\n")
	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("read CSV records", err)
	}
	return records, nil
}

// extractVelocity pulls the velocity column out of the data rows, skipping
// rows that fail to parse the way the rest of the pipeline skips bad files.
func extractVelocity(rows [][]string, col int) []float64 {
	velocity := make([]float64, 0, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			slog.Warn("skipping unparseable velocity sample",
				"line", i+2,
				"value", cell,
			)
			continue
		}
		velocity = append(velocity, v)
	}
	return velocity
}

// findColumn returns the index of the first header cell whose trimmed,
// lowercased text matches any of the candidate names
func findColumn(header []string, names ...string) int {
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

// commentValue extracts the value of a '# Key: value' or '# Key: "value"'
// metadata line
func commentValue(line string) string {
	if idx := strings.Index(line, `"`); idx >= 0 {
		rest := line[idx+1:]
		if end := strings.Index(rest, `"`); end >= 0 {
			return rest[:end]
		}
	}
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

// validateRecording enforces the engine's upstream contract on a parsed
// recording: a non-empty, finite velocity series.
func validateRecording(rec *Recording) error {
	if len(rec.Velocity) == 0 {
		return errors.NewValidationError("no valid velocity samples in file").
			WithContext("file", rec.Metadata.SourceFile)
	}

	suspect := 0
	for _, v := range rec.Velocity {
		if v < 0 || v > MaxPlausibleVelocity {
			suspect++
		}
	}
	if suspect > 0 {
		slog.Warn("velocity samples outside expected human range",
			"file", rec.Metadata.SourceFile,
			"count", suspect,
			"max_plausible", MaxPlausibleVelocity,
		)
	}

	return nil
}
