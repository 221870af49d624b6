// Package condition provides the clipping primitives shared by the pitch
// voices and the channel mixer.
//
// Every stage that bounds amplitude goes through these functions so that
// clipping behaves identically wherever it is applied:
//
//   - [HardLimit]: clamp into [lo, hi].
//   - [SoftClip]:  tanh knee above a threshold, saturating at 1.0.
//   - [Safety]:    SoftClip(0.8, 6) followed by HardLimit(±0.9), the output
//     stage used after every mix.
//
// All functions are pure and allocation-free.
package condition
