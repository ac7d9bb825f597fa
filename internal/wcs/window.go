package wcs

// The two window engines below share the same O(N) strategy: prefix sums
// over the in-band masked series make every candidate window's in-band sum
// a single subtraction, so sliding across all candidates is linear in the
// series length regardless of the window size.

// bandPrefix returns prefix sums of the in-band series: prefix[i] is the
// sum of all in-band samples before index i, so the in-band sum of window
// [lo, hi) is prefix[hi] - prefix[lo].
func bandPrefix(velocity []float64, band Band) []float64 {
	prefix := make([]float64, len(velocity)+1)
	for i, v := range velocity {
		if band.Contains(v) {
			prefix[i+1] = prefix[i] + v
		} else {
			prefix[i+1] = prefix[i]
		}
	}
	return prefix
}

// MaxRollingWindow finds the center index whose centered window maximizes
// the in-band distance. Windows shrink at the series boundaries rather
// than padding: for center i the window spans
// [max(0, i-W/2), min(N, i+W/2+odd)). Every center 0..N-1 is a candidate;
// ties keep the first center achieving the maximum. Duration is the full
// (possibly shrunken) window span times dt, independent of the in-band
// sample count.
func MaxRollingWindow(velocity []float64, windowSamples int, band Band, samplingRate int) WindowResult {
	n := len(velocity)
	dt := 1.0 / float64(samplingRate)
	prefix := bandPrefix(velocity, band)

	if windowSamples >= n {
		// Single degenerate window covering the entire series
		return WindowResult{
			Distance:    prefix[n] * dt,
			Duration:    float64(n) * dt,
			StartIndex:  0,
			EndIndex:    n,
			CenterIndex: n / 2,
		}
	}

	half := windowSamples / 2
	odd := 0
	if windowSamples%2 == 1 {
		odd = 1
	}

	var best WindowResult
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + odd
		if hi > n {
			hi = n
		}

		distance := (prefix[hi] - prefix[lo]) * dt
		if i == 0 || distance > best.Distance {
			best = WindowResult{
				Distance:    distance,
				Duration:    float64(hi-lo) * dt,
				StartIndex:  lo,
				EndIndex:    hi,
				CenterIndex: i,
			}
		}
	}

	return best
}

// MaxContiguousWindow finds the fixed-length, non-shrinking window of
// windowSamples samples that maximizes the in-band distance. Every
// overlapping start offset 0..N-W is a candidate, ties keep the first.
// Duration is always the full window length times dt.
func MaxContiguousWindow(velocity []float64, windowSamples int, band Band, samplingRate int) WindowResult {
	n := len(velocity)
	dt := 1.0 / float64(samplingRate)

	if windowSamples > n {
		windowSamples = n
	}

	prefix := bandPrefix(velocity, band)

	var best WindowResult
	for start := 0; start+windowSamples <= n; start++ {
		end := start + windowSamples
		distance := (prefix[end] - prefix[start]) * dt
		if start == 0 || distance > best.Distance {
			best = WindowResult{
				Distance:    distance,
				Duration:    float64(windowSamples) * dt,
				StartIndex:  start,
				EndIndex:    end,
				CenterIndex: start + windowSamples/2,
			}
		}
	}

	return best
}

// EvaluateBands runs one window engine against the default TH0 band and
// the caller's TH1 band for a single epoch. The TH0-then-TH1 layout of the
// returned EpochResult is the contract the export layer reads verbatim.
func EvaluateBands(velocity []float64, mode Mode, windowSamples int, th1 Band, samplingRate int, epochMinutes float64, degenerate bool) EpochResult {
	scan := MaxRollingWindow
	if mode == ModeContiguous {
		scan = MaxContiguousWindow
	}

	return EpochResult{
		TH0:           scan(velocity, windowSamples, DefaultBand, samplingRate),
		TH1:           scan(velocity, windowSamples, th1, samplingRate),
		EpochMinutes:  epochMinutes,
		Mode:          mode,
		WindowSamples: windowSamples,
		Degenerate:    degenerate,
	}
}
