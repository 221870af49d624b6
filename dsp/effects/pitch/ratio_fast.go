//go:build fastmath

package pitch

import "github.com/meko-christian/algo-approx"

// ln2 is the natural logarithm of 2.
const ln2 = 0.693147180559945309417232121458

// semitonesToRatio converts a semitone offset to a frequency ratio using the
// fast exponential: 2^(s/12) = e^(s/12 * ln2).
func semitonesToRatio(semitones float64) float64 {
	return approx.FastExp(semitones / 12 * ln2)
}
