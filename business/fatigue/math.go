package fatigue

import "math"

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v float64) float64 {
	return clamp(v, 0, 100)
}

func clampUnit(v float64) float64 {
	return clamp(v, 0, 1)
}

// nonNegative maps negative and NaN inputs to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// floorRatio divides with a divisor floor of 1, so a zero denominator yields
// num rather than NaN, and clamps the result to [0, 1].
func floorRatio(num float64, den int64) float64 {
	if den < 1 {
		den = 1
	}
	return clampUnit(nonNegative(num) / float64(den))
}

// interpolationRatio is the position of v between lo and hi. A zero-width band
// counts as fully crossed.
func interpolationRatio(v, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return 1
	}
	return (v - lo) / span
}
