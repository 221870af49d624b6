// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum selects between them at construction time of a
// [github.com/cwbudde/noctave/dsp/delay.Line].
package interp
