//go:build !fastmath

package pitch

import "math"

// semitonesToRatio converts a semitone offset to a frequency ratio, 2^(s/12).
func semitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}
