// Package pitch implements a real-time delay-line pitch shifter with an
// independent harmonizer voice.
//
// Building blocks, leaves first:
//   - Voice: one delay line with a fractional read cursor that drifts
//     against the write cursor at the pitch ratio.
//   - Channel: a shift voice plus a harmony voice run on the original
//     input, mixed and conditioned.
//   - Engine: one Channel per channel of a mono or stereo block, driven
//     by a Params snapshot per block.
//
// Amplitude is bounded by a cascade of clamps and tanh soft clips from
// package condition, so output stays within ±0.9 for any input and any
// parameter automation. The processing path never allocates after Prepare.
//
// Build with -tags fastmath to compute pitch ratios with algo-approx.
package pitch
