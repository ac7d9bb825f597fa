package wcs

import (
	"fmt"

	"wcscli/internal/errors"
)

// Mode selects the window engine used for a WCS scan
type Mode int

const (
	// ModeRolling is the per-sample centered window that shrinks at the
	// series boundaries
	ModeRolling Mode = iota
	// ModeContiguous is the fixed-length window slid across every valid
	// start offset
	ModeContiguous
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeRolling:
		return "rolling"
	case ModeContiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// Band is a velocity inclusion range applied when summing a window.
// Samples outside [Min, Max] contribute nothing to a window's distance.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsValid checks that the band bounds are not inverted or equal
func (b Band) IsValid() bool {
	return b.Min < b.Max
}

// Contains reports whether v falls inside the band, bounds inclusive
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// String returns the band formatted for reports, e.g. "0-100 m/s"
func (b Band) String() string {
	return fmt.Sprintf("%g-%g m/s", b.Min, b.Max)
}

// DefaultBand is the effectively unrestricted TH0 band every analysis
// evaluates alongside the caller-supplied TH1 band.
var DefaultBand = Band{Min: 0, Max: 100}

// ThresholdKind identifies the preprocessing predicate applied to the
// whole series before windowing
type ThresholdKind string

const (
	// ThresholdNone disables preprocessing
	ThresholdNone ThresholdKind = "none"
	// ThresholdVelocity keeps samples with velocity above the threshold value
	ThresholdVelocity ThresholdKind = "velocity"
	// ThresholdAcceleration keeps samples whose acceleration magnitude is
	// above the threshold value
	ThresholdAcceleration ThresholdKind = "acceleration"
)

// ThresholdSpec configures the optional whole-series preprocessing pass
type ThresholdSpec struct {
	Kind  ThresholdKind `json:"kind"`
	Value float64       `json:"value"`
}

// Enabled reports whether the spec selects any preprocessing at all
func (s ThresholdSpec) Enabled() bool {
	return s.Kind == ThresholdVelocity || s.Kind == ThresholdAcceleration
}

// ThresholdingInfo describes the single preprocessing pass of one analysis
// run. DataReductionPercent is the share of previously positive samples
// zeroed by the pass.
type ThresholdingInfo struct {
	Enabled              bool          `json:"enabled"`
	Kind                 ThresholdKind `json:"kind,omitempty"`
	Value                float64       `json:"value,omitempty"`
	DataReductionPercent float64       `json:"data_reduction_percent,omitempty"`
}

// WindowResult describes the maximizing window of one (epoch, mode, band)
// scan. Distance is the in-band sum times dt; Duration is the full window
// span times dt regardless of how many samples were in-band. The window
// covers sample indices [StartIndex, EndIndex).
type WindowResult struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration_seconds"`
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	CenterIndex int     `json:"center_index"` // window midpoint; the scanned center in rolling mode
}

// EpochResult holds the TH0 and TH1 window results for one
// (epoch duration, mode) pair. The TH0-then-TH1 field order is a contract
// consumed verbatim by the export and visualization layers.
type EpochResult struct {
	TH0           WindowResult `json:"th0"`
	TH1           WindowResult `json:"th1"`
	EpochMinutes  float64      `json:"epoch_minutes"`
	Mode          Mode         `json:"-"`
	WindowSamples int          `json:"window_samples"`
	// Degenerate is set when the epoch window was clamped to the series
	// length, collapsing the scan to a single whole-series window.
	Degenerate bool `json:"degenerate,omitempty"`
}

// VelocityStats are computed once per analysis over the working series
type VelocityStats struct {
	Mean            float64 `json:"mean"`
	Max             float64 `json:"max"`
	Min             float64 `json:"min"`
	Std             float64 `json:"std"`
	TotalSamples    int     `json:"total_samples"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Params is the configuration surface of one analysis run
type Params struct {
	SamplingRate   int           `json:"sampling_rate"`
	EpochDurations []float64     `json:"epoch_durations"` // minutes
	TH1            Band          `json:"th1"`
	Thresholding   ThresholdSpec `json:"thresholding"`
}

// Validate fails fast on inputs that would make windowing meaningless
func (p Params) Validate() error {
	if p.SamplingRate <= 0 {
		return errors.NewValidationError("sampling rate must be positive")
	}
	if len(p.EpochDurations) == 0 {
		return errors.NewValidationError("at least one epoch duration is required")
	}
	for _, d := range p.EpochDurations {
		if d <= 0 {
			return errors.NewValidationError(
				fmt.Sprintf("epoch duration must be positive, got %g", d))
		}
	}
	if !p.TH1.IsValid() {
		return errors.NewValidationError(
			fmt.Sprintf("threshold band minimum must be less than maximum, got [%g, %g]",
				p.TH1.Min, p.TH1.Max))
	}
	switch p.Thresholding.Kind {
	case ThresholdNone, "", ThresholdVelocity, ThresholdAcceleration:
	default:
		return errors.NewValidationError(
			fmt.Sprintf("unknown threshold kind %q", p.Thresholding.Kind))
	}
	return nil
}

// Result is the immutable bundle handed to export and visualization.
// It is pure composition over values the orchestrator already computed.
type Result struct {
	VelocityStats VelocityStats    `json:"velocity_stats"`
	Kinematics    KinematicStats   `json:"kinematic_stats"`
	Rolling       []EpochResult    `json:"rolling_results"`
	Contiguous    []EpochResult    `json:"contiguous_results"`
	Thresholding  ThresholdingInfo `json:"thresholding_info"`
	Params        Params           `json:"parameters"`
}

// EpochSamples converts an epoch duration in minutes to a sample count,
// clamped to at least one sample and to the series length.
func EpochSamples(minutes float64, samplingRate, seriesLen int) (samples int, degenerate bool) {
	samples = int(minutes*60*float64(samplingRate) + 0.5)
	if samples < 1 {
		samples = 1
	}
	if samples >= seriesLen {
		return seriesLen, true
	}
	return samples, false
}
