package wcs

import (
	"testing"

	"wcscli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceleration(t *testing.T) {
	t.Run("central difference interior, one-sided edges", func(t *testing.T) {
		// Linear ramp 0,1,2,3 at 10Hz: constant 10 m/s² everywhere
		accel, err := Acceleration([]float64{0, 1, 2, 3}, 10)
		require.NoError(t, err)
		require.Len(t, accel, 4)
		for i, a := range accel {
			assert.InDelta(t, 10.0, a, 1e-9, "index %d", i)
		}
	})

	t.Run("step signal", func(t *testing.T) {
		accel, err := Acceleration([]float64{1, 1, 9, 9}, 10)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, accel[0], 1e-9)
		assert.InDelta(t, 40.0, accel[1], 1e-9) // (9-1)/(2*0.1)
		assert.InDelta(t, 40.0, accel[2], 1e-9)
		assert.InDelta(t, 0.0, accel[3], 1e-9)
	})

	t.Run("too few samples", func(t *testing.T) {
		_, err := Acceleration([]float64{5}, 10)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("non-positive sampling rate", func(t *testing.T) {
		_, err := Acceleration([]float64{1, 2}, 0)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestCumulativeDistance(t *testing.T) {
	// Constant 5 m/s over 1 second at 10Hz covers 4.5m of trapezoids
	// (9 intervals between 10 samples).
	series := make([]float64, 10)
	for i := range series {
		series[i] = 5
	}

	distance := CumulativeDistance(series, 10)
	require.Len(t, distance, 10)
	assert.Zero(t, distance[0])
	assert.InDelta(t, 4.5, distance[9], 1e-9)

	assert.Nil(t, CumulativeDistance(nil, 10))
}

func TestDeceleration(t *testing.T) {
	decel := Deceleration([]float64{2, -3, 0, -1.5})
	assert.Equal(t, []float64{0, 3, 0, 1.5}, decel)
}

func TestPower(t *testing.T) {
	power := Power([]float64{2, 3, 4}, []float64{1, -2, 0})
	assert.InDeltaSlice(t, []float64{2, 6, 0}, power, 1e-9)

	assert.Empty(t, Power(nil, []float64{1}))
}

func TestJerk(t *testing.T) {
	// constant acceleration has zero jerk in the interior
	jerk, err := Jerk([]float64{1, 1, 1, 1, 1}, 10)
	assert.NoError(t, err)
	for i := 1; i < len(jerk)-1; i++ {
		assert.InDelta(t, 0.0, jerk[i], 1e-9)
	}

	_, err = Jerk([]float64{1}, 10)
	assert.Error(t, err)
}

func TestComputeDerivedSeries(t *testing.T) {
	velocity := []float64{0, 2, 4, 6, 4, 2, 0}
	series, err := ComputeDerivedSeries(velocity, 10)
	require.NoError(t, err)

	// every derived column is index-aligned with the input
	assert.Len(t, series.Acceleration, len(velocity))
	assert.Len(t, series.Jerk, len(velocity))
	assert.Len(t, series.VelocitySmooth, len(velocity))
	assert.Len(t, series.AccelerationSmooth, len(velocity))
	assert.Len(t, series.Distance, len(velocity))
	assert.Len(t, series.Power, len(velocity))

	assert.InDelta(t, 20.0, series.Acceleration[1], 1e-9)
	assert.InDelta(t, 40.0, series.Power[1], 1e-9)

	_, err = ComputeDerivedSeries([]float64{5}, 10)
	assert.Error(t, err)
}

func TestSmoothMovingAverage(t *testing.T) {
	t.Run("window below 2 passes through", func(t *testing.T) {
		series := []float64{1, 2, 3}
		assert.Equal(t, series, SmoothMovingAverage(series, 1))
	})

	t.Run("flat signal interior unchanged", func(t *testing.T) {
		series := []float64{4, 4, 4, 4, 4, 4, 4}
		out := SmoothMovingAverage(series, 3)
		for i := 1; i < len(out)-1; i++ {
			assert.InDelta(t, 4.0, out[i], 1e-9)
		}
	})
}

func TestAdaptiveSmoothingWindow(t *testing.T) {
	assert.Equal(t, 5, AdaptiveSmoothingWindow(600))
	assert.Equal(t, 3, AdaptiveSmoothingWindow(30))
	assert.Equal(t, 0, AdaptiveSmoothingWindow(5))
}

func TestComputeVelocityStats(t *testing.T) {
	stats := ComputeVelocityStats([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 10)

	assert.InDelta(t, 5.0, stats.Mean, 1e-9)
	assert.InDelta(t, 9.0, stats.Max, 1e-9)
	assert.InDelta(t, 2.0, stats.Min, 1e-9)
	assert.InDelta(t, 2.0, stats.Std, 1e-9) // population std of the classic example
	assert.Equal(t, 8, stats.TotalSamples)
	assert.InDelta(t, 0.8, stats.DurationSeconds, 1e-9)

	assert.Equal(t, VelocityStats{}, ComputeVelocityStats(nil, 10))
}

func TestComputeKinematicStats(t *testing.T) {
	t.Run("short series yields zero stats", func(t *testing.T) {
		assert.Equal(t, KinematicStats{}, ComputeKinematicStats([]float64{5}, 10))
	})

	t.Run("accelerating then braking", func(t *testing.T) {
		series := []float64{0, 2, 4, 6, 4, 2, 0}
		stats := ComputeKinematicStats(series, 10)

		assert.Greater(t, stats.Acceleration.PositiveCount, 0)
		assert.Greater(t, stats.Acceleration.NegativeCount, 0)
		assert.Greater(t, stats.Acceleration.MeanPositive, 0.0)
		assert.Less(t, stats.Acceleration.MeanNegative, 0.0)
		assert.Equal(t, len(series), stats.Acceleration.TotalSamples)

		assert.Greater(t, stats.Deceleration.Count, 0)
		assert.Greater(t, stats.Deceleration.Max, 0.0)

		assert.Greater(t, stats.Power.Max, 0.0)
		assert.Greater(t, stats.Power.Mean, 0.0)

		assert.Greater(t, stats.Distance.Total, 0.0)
		assert.InDelta(t, stats.Distance.Total/0.7, stats.Distance.MeanRate, 1e-9)
	})
}
