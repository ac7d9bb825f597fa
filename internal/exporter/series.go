package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "wcscli/internal/errors"
)

// seriesHeader mirrors the derived columns of the processed recording:
// time, raw and smoothed kinematics, cumulative distance, relative power.
var seriesHeader = []string{
	"Time_s", "Velocity", "Acceleration", "Jerk",
	"Velocity_Smooth", "Acceleration_Smooth", "Distance", "Power",
}

// WriteSeriesCSV writes the per-sample derived series of one entry as its
// own CSV file. Entries analyzed without series capture are rejected.
func (w *ReportWriter) WriteSeriesCSV(entry Entry, samplingRate int) error {
	if entry.Series == nil {
		return apperrors.NewExportError(
			fmt.Sprintf("no derived series captured for %s", entry.Metadata.SourceFile), nil)
	}
	if samplingRate <= 0 {
		return apperrors.NewExportError("sampling rate must be positive", nil)
	}

	series := entry.Series
	dt := 1.0 / float64(samplingRate)
	records := make([][]string, 0, len(series.Velocity))
	for i := range series.Velocity {
		records = append(records, []string{
			formatSample(float64(i) * dt),
			formatSample(series.Velocity[i]),
			formatSample(series.Acceleration[i]),
			formatSample(series.Jerk[i]),
			formatSample(series.VelocitySmooth[i]),
			formatSample(series.AccelerationSmooth[i]),
			formatSample(series.Distance[i]),
			formatSample(series.Power[i]),
		})
	}

	err := w.csv.WriteCSV(SeriesFileName(entry.Metadata.SourceFile), WriteOptions{
		Headers: seriesHeader,
		Records: records,
	})
	if err != nil {
		return apperrors.NewExportError("write series CSV", err)
	}
	return nil
}

// SeriesFileName derives the series file name from the source recording
// name, e.g. "session1.csv" becomes "session1_series.csv".
func SeriesFileName(sourceFile string) string {
	base := filepath.Base(sourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "recording"
	}
	return stem + "_series.csv"
}
