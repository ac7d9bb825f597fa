package wcs

import (
	"fmt"

	"wcscli/internal/errors"
)

// thresholdPredicate decides whether sample i of the series survives the
// preprocessing pass. New criteria plug in here without touching the
// window engines.
type thresholdPredicate func(i int) bool

// ApplyThreshold runs the optional whole-series preprocessing pass. Samples
// failing the predicate selected by spec.Kind are zeroed in the returned
// copy; the input series is never mutated. The returned ThresholdingInfo
// reports the share of previously positive samples the pass removed.
//
// A velocity threshold of 0 is a documented no-op for non-negative input:
// every positive sample passes the predicate unchanged.
func ApplyThreshold(velocity []float64, samplingRate int, spec ThresholdSpec) ([]float64, ThresholdingInfo, error) {
	if !spec.Enabled() {
		return velocity, ThresholdingInfo{Enabled: false}, nil
	}

	predicate, err := buildPredicate(velocity, samplingRate, spec)
	if err != nil {
		return nil, ThresholdingInfo{}, err
	}

	filtered := make([]float64, len(velocity))
	for i, v := range velocity {
		if predicate(i) {
			filtered[i] = v
		}
	}

	info := ThresholdingInfo{
		Enabled:              true,
		Kind:                 spec.Kind,
		Value:                spec.Value,
		DataReductionPercent: dataReductionPercent(velocity, filtered),
	}

	return filtered, info, nil
}

// buildPredicate maps a threshold kind to its sample predicate
func buildPredicate(velocity []float64, samplingRate int, spec ThresholdSpec) (thresholdPredicate, error) {
	switch spec.Kind {
	case ThresholdVelocity:
		return func(i int) bool {
			return velocity[i] > spec.Value
		}, nil
	case ThresholdAcceleration:
		accel, err := Acceleration(velocity, samplingRate)
		if err != nil {
			return nil, fmt.Errorf("derive acceleration for thresholding: %w", err)
		}
		return func(i int) bool {
			a := accel[i]
			if a < 0 {
				a = -a
			}
			return a > spec.Value
		}, nil
	default:
		return nil, errors.NewValidationError(
			fmt.Sprintf("unknown threshold kind %q", spec.Kind))
	}
}

// dataReductionPercent is the drop in positive-sample count caused by the
// pass, as a percentage of the original positive count. Defined as 0 when
// the original series has no positive samples.
func dataReductionPercent(original, filtered []float64) float64 {
	origPositive := countPositive(original)
	if origPositive == 0 {
		return 0
	}
	filteredPositive := countPositive(filtered)
	return float64(origPositive-filteredPositive) / float64(origPositive) * 100
}

func countPositive(series []float64) int {
	count := 0
	for _, v := range series {
		if v > 0 {
			count++
		}
	}
	return count
}
