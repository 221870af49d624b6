package condition

import (
	"math"

	"github.com/cwbudde/noctave/dsp/core"
)

const (
	// InputCeiling bounds samples entering a voice.
	InputCeiling = 0.9
	// VoiceCeiling bounds the interpolated delay read, the delay-line input
	// and both signals before the harmony sum.
	VoiceCeiling = 0.85
	// OutputCeiling is the absolute bound of every processed sample.
	OutputCeiling = 0.9

	// KneeThreshold is where the soft clip starts to bend.
	KneeThreshold = 0.8
	// KneeSharpness scales the excess fed into tanh.
	KneeSharpness = 6.0
)

// HardLimit clamps x into [lo, hi]. NaN maps to lo.
func HardLimit(x, lo, hi float64) float64 {
	return core.Clamp(x, lo, hi)
}

// SoftClip leaves |x| <= threshold untouched and maps larger magnitudes to
//
//	sign(x) * (threshold + (1-threshold)*tanh((|x|-threshold)*sharpness))
//
// The curve is continuous at the threshold and approaches 1.0 asymptotically.
func SoftClip(x, threshold, sharpness float64) float64 {
	a := math.Abs(x)
	if a <= threshold {
		return x
	}
	y := threshold + (1-threshold)*math.Tanh((a-threshold)*sharpness)
	if x < 0 {
		return -y
	}
	return y
}

// Safety is the output stage applied after every mix: soft knee at
// KneeThreshold, then a hard clamp to ±OutputCeiling.
func Safety(x float64) float64 {
	x = SoftClip(x, KneeThreshold, KneeSharpness)
	return HardLimit(x, -OutputCeiling, OutputCeiling)
}

// HardLimitBlock applies HardLimit to buf in place.
func HardLimitBlock(buf []float64, lo, hi float64) {
	for i, v := range buf {
		buf[i] = HardLimit(v, lo, hi)
	}
}

// SafetyBlock applies Safety to buf in place.
func SafetyBlock(buf []float64) {
	for i, v := range buf {
		buf[i] = Safety(v)
	}
}
