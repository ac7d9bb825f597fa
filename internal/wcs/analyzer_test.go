package wcs

import (
	"context"
	"log/slog"
	"testing"

	"wcscli/internal/errors"
	"wcscli/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		SamplingRate:   10,
		EpochDurations: []float64{10.0 / 60.0, 0.5},
		TH1:            Band{Min: 5, Max: 100},
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"valid params", func(p *Params) {}, false},
		{"zero sampling rate", func(p *Params) { p.SamplingRate = 0 }, true},
		{"negative sampling rate", func(p *Params) { p.SamplingRate = -10 }, true},
		{"no epochs", func(p *Params) { p.EpochDurations = nil }, true},
		{"non-positive epoch", func(p *Params) { p.EpochDurations = []float64{1, 0} }, true},
		{"inverted band", func(p *Params) { p.TH1 = Band{Min: 10, Max: 5} }, true},
		{"equal band bounds", func(p *Params) { p.TH1 = Band{Min: 5, Max: 5} }, true},
		{"unknown threshold kind", func(p *Params) { p.Thresholding.Kind = "jerk" }, true},
		{"velocity thresholding", func(p *Params) {
			p.Thresholding = ThresholdSpec{Kind: ThresholdVelocity, Value: 5}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	series := syntheticSeries(1200) // 2 minutes at 10Hz
	analyzer := NewAnalyzer(testParams(), nil)

	result, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)
	require.NotNil(t, result)

	// One result per configured epoch, index-aligned, in both modes
	require.Len(t, result.Rolling, 2)
	require.Len(t, result.Contiguous, 2)
	for i, minutes := range testParams().EpochDurations {
		assert.InDelta(t, minutes, result.Rolling[i].EpochMinutes, 1e-12)
		assert.InDelta(t, minutes, result.Contiguous[i].EpochMinutes, 1e-12)
		assert.Equal(t, ModeRolling, result.Rolling[i].Mode)
		assert.Equal(t, ModeContiguous, result.Contiguous[i].Mode)
	}

	assert.Equal(t, 1200, result.VelocityStats.TotalSamples)
	assert.InDelta(t, 120.0, result.VelocityStats.DurationSeconds, 1e-9)
	assert.False(t, result.Thresholding.Enabled)

	// Band monotonicity holds in every epoch result
	for _, r := range append(result.Rolling, result.Contiguous...) {
		assert.GreaterOrEqual(t, r.TH0.Distance, r.TH1.Distance)
	}
}

func TestAnalyzer_Analyze_EmptySeries(t *testing.T) {
	analyzer := NewAnalyzer(testParams(), nil)

	_, err := analyzer.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzer_Analyze_InvalidParams(t *testing.T) {
	params := testParams()
	params.SamplingRate = 0
	analyzer := NewAnalyzer(params, nil)

	_, err := analyzer.Analyze(context.Background(), []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzer_Analyze_DegenerateEpoch(t *testing.T) {
	// 30 seconds of data against a 1-minute epoch clamps to the whole
	// series and proceeds with the degenerate flag set.
	series := syntheticSeries(300)
	params := testParams()
	params.EpochDurations = []float64{1.0}
	analyzer := NewAnalyzer(params, nil)

	result, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)
	require.Len(t, result.Rolling, 1)

	assert.True(t, result.Rolling[0].Degenerate)
	assert.True(t, result.Contiguous[0].Degenerate)
	assert.Equal(t, 300, result.Rolling[0].WindowSamples)
	assert.Equal(t, 0, result.Contiguous[0].TH0.StartIndex)
	assert.Equal(t, 300, result.Contiguous[0].TH0.EndIndex)
}

func TestAnalyzer_Analyze_WithThresholding(t *testing.T) {
	series := []float64{2, 3, 8, 7, 4, 1, 6, 9, 5, 2}
	params := testParams()
	params.EpochDurations = []float64{1.0 / 60.0} // one second
	params.Thresholding = ThresholdSpec{Kind: ThresholdVelocity, Value: 5}
	analyzer := NewAnalyzer(params, nil)

	result, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)

	assert.True(t, result.Thresholding.Enabled)
	assert.Equal(t, ThresholdVelocity, result.Thresholding.Kind)
	assert.InDelta(t, 60.0, result.Thresholding.DataReductionPercent, 1e-9)

	// Summary statistics describe the raw recording, not the filtered
	// series the window scans run over
	assert.InDelta(t, 4.7, result.VelocityStats.Mean, 1e-9)
	assert.InDelta(t, 1.0, result.VelocityStats.Min, 1e-9)
	assert.InDelta(t, 9.0, result.VelocityStats.Max, 1e-9)

	// The input series must survive the call untouched
	assert.Equal(t, []float64{2, 3, 8, 7, 4, 1, 6, 9, 5, 2}, series)
}

func TestAnalyzer_Analyze_Idempotent(t *testing.T) {
	series := syntheticSeries(900)
	analyzer := NewAnalyzer(testParams(), nil)

	first, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), series)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzer_Analyze_DegenerateEpochLogsWarning(t *testing.T) {
	logger, handler := testutil.NewBufferedLogger(t)
	params := testParams()
	params.EpochDurations = []float64{10.0} // far longer than the recording
	analyzer := NewAnalyzer(params, logger)

	_, err := analyzer.Analyze(context.Background(), syntheticSeries(100))
	require.NoError(t, err)

	assert.True(t, handler.HasMessage("epoch window exceeds recording"))
	assert.Equal(t, 1, handler.CountLevel(slog.LevelWarn))
}

func TestAnalyzer_Analyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := NewAnalyzer(testParams(), nil)
	_, err := analyzer.Analyze(ctx, syntheticSeries(600))
	assert.Error(t, err)
}
