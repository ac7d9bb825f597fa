package batch

import (
	"wcscli/internal/exporter"
	"wcscli/internal/wcs"
)

// ModeSummary aggregates one window mode across every file in the batch
type ModeSummary struct {
	MaxDistanceTH0  float64 `json:"max_distance_th0"`
	MaxDistanceTH1  float64 `json:"max_distance_th1"`
	MeanDistanceTH0 float64 `json:"mean_distance_th0"`
	MeanDistanceTH1 float64 `json:"mean_distance_th1"`
}

// Summary is the cohort-level view of a batch run
type Summary struct {
	FilesAnalyzed int         `json:"files_analyzed"`
	FilesSkipped  int         `json:"files_skipped"`
	TotalEpochs   int         `json:"total_epochs"`
	Rolling       ModeSummary `json:"rolling"`
	Contiguous    ModeSummary `json:"contiguous"`
}

// Summarize computes cohort statistics over the successful entries
func Summarize(entries []exporter.Entry, skipped int) Summary {
	s := Summary{
		FilesAnalyzed: len(entries),
		FilesSkipped:  skipped,
	}

	var rolling, contiguous []wcs.EpochResult
	for _, entry := range entries {
		if entry.Result == nil {
			continue
		}
		rolling = append(rolling, entry.Result.Rolling...)
		contiguous = append(contiguous, entry.Result.Contiguous...)
	}
	s.TotalEpochs = len(rolling)
	s.Rolling = summarizeMode(rolling)
	s.Contiguous = summarizeMode(contiguous)

	return s
}

func summarizeMode(results []wcs.EpochResult) ModeSummary {
	var m ModeSummary
	if len(results) == 0 {
		return m
	}

	var sumTH0, sumTH1 float64
	for _, er := range results {
		sumTH0 += er.TH0.Distance
		sumTH1 += er.TH1.Distance
		if er.TH0.Distance > m.MaxDistanceTH0 {
			m.MaxDistanceTH0 = er.TH0.Distance
		}
		if er.TH1.Distance > m.MaxDistanceTH1 {
			m.MaxDistanceTH1 = er.TH1.Distance
		}
	}
	m.MeanDistanceTH0 = sumTH0 / float64(len(results))
	m.MeanDistanceTH1 = sumTH1 / float64(len(results))

	return m
}
