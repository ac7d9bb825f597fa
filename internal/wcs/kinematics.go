package wcs

import (
	"math"

	"wcscli/internal/errors"
)

// Acceleration computes instantaneous acceleration from a velocity series
// by differentiation: central difference for interior points, one-sided
// difference at the two boundaries. The output has the same length as the
// input. Pure and deterministic.
func Acceleration(velocity []float64, samplingRate int) ([]float64, error) {
	if len(velocity) < 2 {
		return nil, errors.NewValidationError("acceleration requires at least 2 samples")
	}
	if samplingRate <= 0 {
		return nil, errors.NewValidationError("sampling rate must be positive")
	}

	dt := 1.0 / float64(samplingRate)
	n := len(velocity)
	accel := make([]float64, n)

	accel[0] = (velocity[1] - velocity[0]) / dt
	for i := 1; i < n-1; i++ {
		accel[i] = (velocity[i+1] - velocity[i-1]) / (2 * dt)
	}
	accel[n-1] = (velocity[n-1] - velocity[n-2]) / dt

	return accel, nil
}

// CumulativeDistance integrates the velocity series with the trapezoidal
// rule. The first element is always zero.
func CumulativeDistance(velocity []float64, samplingRate int) []float64 {
	if len(velocity) == 0 {
		return nil
	}
	dt := 1.0 / float64(samplingRate)
	distance := make([]float64, len(velocity))
	for i := 1; i < len(velocity); i++ {
		distance[i] = distance[i-1] + (velocity[i]+velocity[i-1])/2*dt
	}
	return distance
}

// Jerk computes the rate of change of acceleration by differentiating an
// acceleration series the same way Acceleration differentiates velocity
func Jerk(accel []float64, samplingRate int) ([]float64, error) {
	return Acceleration(accel, samplingRate)
}

// Power returns the relative instantaneous power series |a|·v. Mass is
// taken as 1, so values are comparable within and across recordings but
// carry no absolute unit.
func Power(velocity, accel []float64) []float64 {
	n := len(velocity)
	if len(accel) < n {
		n = len(accel)
	}
	power := make([]float64, n)
	for i := 0; i < n; i++ {
		power[i] = math.Abs(accel[i]) * velocity[i]
	}
	return power
}

// Deceleration extracts the deceleration series from an acceleration
// series: negative accelerations flipped positive, zero elsewhere.
func Deceleration(accel []float64) []float64 {
	decel := make([]float64, len(accel))
	for i, a := range accel {
		if a < 0 {
			decel[i] = -a
		}
	}
	return decel
}

// SmoothMovingAverage applies a centered moving-average filter of the
// given window size. Sizes below 2 return the input unchanged (no copy).
// Edges use the partial overlap, matching a same-length convolution.
func SmoothMovingAverage(series []float64, window int) []float64 {
	if window < 2 || len(series) == 0 {
		return series
	}
	n := len(series)
	out := make([]float64, n)
	half := window / 2
	for i := range series {
		lo := i - half
		hi := lo + window
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		var sum float64
		for j := lo; j < hi; j++ {
			sum += series[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// AdaptiveSmoothingWindow picks the moving-average window for a series:
// 5 samples, shrunk for very short recordings.
func AdaptiveSmoothingWindow(seriesLen int) int {
	w := seriesLen / 10
	if w > 5 {
		w = 5
	}
	return w
}

// DerivedSeries holds the per-sample series derived from one velocity
// recording, aligned index for index with the input.
type DerivedSeries struct {
	Velocity           []float64
	Acceleration       []float64
	Jerk               []float64
	VelocitySmooth     []float64
	AccelerationSmooth []float64
	Distance           []float64
	Power              []float64
}

// ComputeDerivedSeries derives the full per-sample bundle behind the
// series export: acceleration, jerk, smoothed velocity and acceleration,
// cumulative distance, and relative power. The smoothing window adapts to
// the recording length.
func ComputeDerivedSeries(velocity []float64, samplingRate int) (*DerivedSeries, error) {
	accel, err := Acceleration(velocity, samplingRate)
	if err != nil {
		return nil, err
	}
	jerk, err := Jerk(accel, samplingRate)
	if err != nil {
		return nil, err
	}

	window := AdaptiveSmoothingWindow(len(velocity))
	return &DerivedSeries{
		Velocity:           velocity,
		Acceleration:       accel,
		Jerk:               jerk,
		VelocitySmooth:     SmoothMovingAverage(velocity, window),
		AccelerationSmooth: SmoothMovingAverage(accel, window),
		Distance:           CumulativeDistance(velocity, samplingRate),
		Power:              Power(velocity, accel),
	}, nil
}

// AccelerationStats summarizes an acceleration series for reporting
type AccelerationStats struct {
	MeanPositive  float64 `json:"mean_positive"`
	MeanNegative  float64 `json:"mean_negative"`
	MeanOverall   float64 `json:"mean_overall"`
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Std           float64 `json:"std"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	TotalSamples  int     `json:"total_samples"`
}

// DecelerationStats summarizes deceleration events (non-zero samples only)
type DecelerationStats struct {
	Mean         float64 `json:"mean"`
	Max          float64 `json:"max"`
	Std          float64 `json:"std"`
	Count        int     `json:"count"`
	TotalSamples int     `json:"total_samples"`
}

// DistanceStats summarizes the covered distance of the whole recording
type DistanceStats struct {
	Total    float64 `json:"total"`
	MeanRate float64 `json:"mean_rate"` // m/s averaged over the recording
}

// PowerStats summarizes the relative power series of a recording
type PowerStats struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
}

// KinematicStats bundles the per-recording kinematic summaries
type KinematicStats struct {
	Acceleration AccelerationStats `json:"acceleration"`
	Deceleration DecelerationStats `json:"deceleration"`
	Distance     DistanceStats     `json:"distance"`
	Power        PowerStats        `json:"power"`
}

// ComputeVelocityStats computes whole-series velocity statistics once per
// analysis run. Std is the population standard deviation.
func ComputeVelocityStats(velocity []float64, samplingRate int) VelocityStats {
	n := len(velocity)
	if n == 0 {
		return VelocityStats{}
	}

	min, max := velocity[0], velocity[0]
	var sum float64
	for _, v := range velocity {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, v := range velocity {
		d := v - mean
		sqDiff += d * d
	}

	return VelocityStats{
		Mean:            mean,
		Max:             max,
		Min:             min,
		Std:             math.Sqrt(sqDiff / float64(n)),
		TotalSamples:    n,
		DurationSeconds: float64(n) / float64(samplingRate),
	}
}

// ComputeKinematicStats derives the kinematic summaries of a recording.
// Series shorter than 2 samples yield zero-valued summaries since no
// derivative exists.
func ComputeKinematicStats(velocity []float64, samplingRate int) KinematicStats {
	var stats KinematicStats
	if len(velocity) < 2 {
		return stats
	}

	accel, err := Acceleration(velocity, samplingRate)
	if err != nil {
		return stats
	}
	stats.Acceleration = summarizeAcceleration(accel)
	stats.Deceleration = summarizeDeceleration(Deceleration(accel))
	stats.Power = summarizePower(Power(velocity, accel))

	distance := CumulativeDistance(velocity, samplingRate)
	total := distance[len(distance)-1]
	duration := float64(len(velocity)) / float64(samplingRate)
	stats.Distance = DistanceStats{
		Total:    total,
		MeanRate: total / duration,
	}

	return stats
}

func summarizeAcceleration(accel []float64) AccelerationStats {
	s := AccelerationStats{TotalSamples: len(accel)}
	if len(accel) == 0 {
		return s
	}

	s.Max, s.Min = accel[0], accel[0]
	var sum, posSum, negSum float64
	for _, a := range accel {
		sum += a
		if a > s.Max {
			s.Max = a
		}
		if a < s.Min {
			s.Min = a
		}
		if a > 0 {
			posSum += a
			s.PositiveCount++
		} else if a < 0 {
			negSum += a
			s.NegativeCount++
		}
	}
	s.MeanOverall = sum / float64(len(accel))
	if s.PositiveCount > 0 {
		s.MeanPositive = posSum / float64(s.PositiveCount)
	}
	if s.NegativeCount > 0 {
		s.MeanNegative = negSum / float64(s.NegativeCount)
	}

	var sqDiff float64
	for _, a := range accel {
		d := a - s.MeanOverall
		sqDiff += d * d
	}
	s.Std = math.Sqrt(sqDiff / float64(len(accel)))

	return s
}

func summarizeDeceleration(decel []float64) DecelerationStats {
	s := DecelerationStats{TotalSamples: len(decel)}
	var sum float64
	for _, d := range decel {
		if d > s.Max {
			s.Max = d
		}
		if d > 0 {
			sum += d
			s.Count++
		}
	}
	if s.Count == 0 {
		return s
	}
	mean := sum / float64(s.Count)
	s.Mean = mean

	var sqDiff float64
	for _, d := range decel {
		if d > 0 {
			diff := d - mean
			sqDiff += diff * diff
		}
	}
	s.Std = math.Sqrt(sqDiff / float64(s.Count))

	return s
}

func summarizePower(power []float64) PowerStats {
	var s PowerStats
	if len(power) == 0 {
		return s
	}
	var sum float64
	for _, p := range power {
		sum += p
		if p > s.Max {
			s.Max = p
		}
	}
	s.Mean = sum / float64(len(power))

	var sqDiff float64
	for _, p := range power {
		diff := p - s.Mean
		sqDiff += diff * diff
	}
	s.Std = math.Sqrt(sqDiff / float64(len(power)))

	return s
}
