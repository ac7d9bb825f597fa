package wcs

import (
	"context"
	"fmt"
	"log/slog"

	"wcscli/internal/errors"
)

// Analyzer orchestrates a full WCS analysis run: preprocessing, whole-series
// statistics, and the per-epoch dual-mode, dual-band window scans.
type Analyzer struct {
	params Params
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with the given parameters. Parameter
// validation happens on Analyze so a batch caller can construct analyzers
// up front and learn about a bad configuration per call.
func NewAnalyzer(params Params, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{params: params, logger: logger}
}

// Analyze runs the complete analysis over one velocity recording. The
// input series is owned read-only for the duration of the call and is
// never mutated; the returned Result is a fresh, immutable bundle.
//
// All validation failures surface before any windowing work. Epoch
// durations longer than the recording clamp to the series length, proceed,
// and are flagged Degenerate on their results.
func (a *Analyzer) Analyze(ctx context.Context, velocity []float64) (*Result, error) {
	if err := a.params.Validate(); err != nil {
		return nil, err
	}
	if len(velocity) == 0 {
		return nil, errors.NewValidationError("velocity series is empty")
	}

	a.logger.InfoContext(ctx, "starting WCS analysis",
		"samples", len(velocity),
		"sampling_rate", a.params.SamplingRate,
		"epochs", len(a.params.EpochDurations),
		"thresholding", a.params.Thresholding.Enabled(),
	)

	working, thresholding, err := ApplyThreshold(velocity, a.params.SamplingRate, a.params.Thresholding)
	if err != nil {
		return nil, fmt.Errorf("apply threshold filter: %w", err)
	}
	if thresholding.Enabled {
		a.logger.InfoContext(ctx, "applied threshold filter",
			"kind", thresholding.Kind,
			"value", thresholding.Value,
			"data_reduction_percent", thresholding.DataReductionPercent,
		)
	}

	// summary statistics describe the recording itself; the thresholded
	// series is used for windowing only
	stats := ComputeVelocityStats(velocity, a.params.SamplingRate)
	kinematics := ComputeKinematicStats(velocity, a.params.SamplingRate)

	rolling := make([]EpochResult, 0, len(a.params.EpochDurations))
	contiguous := make([]EpochResult, 0, len(a.params.EpochDurations))

	for _, minutes := range a.params.EpochDurations {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
		default:
		}

		windowSamples, degenerate := EpochSamples(minutes, a.params.SamplingRate, len(working))
		if degenerate {
			a.logger.WarnContext(ctx, "epoch window exceeds recording, clamping to series length",
				"epoch_minutes", minutes,
				"series_samples", len(working),
			)
		}

		rolling = append(rolling, EvaluateBands(
			working, ModeRolling, windowSamples, a.params.TH1,
			a.params.SamplingRate, minutes, degenerate))
		contiguous = append(contiguous, EvaluateBands(
			working, ModeContiguous, windowSamples, a.params.TH1,
			a.params.SamplingRate, minutes, degenerate))
	}

	a.logger.InfoContext(ctx, "WCS analysis completed",
		"rolling_results", len(rolling),
		"contiguous_results", len(contiguous),
	)

	return &Result{
		VelocityStats: stats,
		Kinematics:    kinematics,
		Rolling:       rolling,
		Contiguous:    contiguous,
		Thresholding:  thresholding,
		Params:        a.params,
	}, nil
}
