package core

import "math"

const (
	defaultEpsilon = 1e-12

	// denormalThreshold is the magnitude below which FlushDenormals returns 0.
	denormalThreshold = 1e-30
)

// Clamp limits value to [min, max]; the bounds may be given in either order.
// NaN maps to the lower bound.
func Clamp(value, min, max float64) float64 {
	lo, hi := min, max
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case math.IsNaN(value), value < lo:
		return lo
	case value > hi:
		return hi
	default:
		return value
	}
}

// IsFinitePositive reports whether v is a usable rate or length: > 0, not NaN, not Inf.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NearlyEqual reports whether a and b agree within eps, either absolutely
// or relative to the larger magnitude. eps <= 0 selects 1e-12.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return scale > 0 && diff <= eps*scale
}

// FlushDenormals returns 0 for magnitudes below 1e-30 and x otherwise.
// Feedback paths call it so decaying signals reach exact zero.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalThreshold {
		return 0
	}
	return x
}

// LinearToDB converts an amplitude to dB (20*log10). Zero yields -Inf and
// negative input yields NaN.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(linear)
	}
}
