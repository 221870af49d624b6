// Package tone measures level and dominant frequency of a processed signal.
package tone

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/window"
)

// MinSamples is the shortest signal Analyze accepts.
const MinSamples = 64

// Report summarizes a signal.
type Report struct {
	// Peak is the largest absolute sample value.
	Peak float64
	// PeakDB is Peak in dBFS; -Inf for silence.
	PeakDB float64
	// RMS is the root-mean-square level of the whole signal.
	RMS float64
	// DominantHz is the frequency of the strongest spectral peak, refined by
	// parabolic interpolation; 0 for silence.
	DominantHz float64
	// ToneAmplitude estimates the peak amplitude of the dominant component
	// from its bin magnitude and the window's coherent gain. It is exact
	// only for bin-centred tones unless the flat-top window is used.
	ToneAmplitude float64
	// FFTSize is the analysis frame length.
	FFTSize int
	// Window is the analysis window.
	Window window.Type
}

// Option configures Analyze.
type Option func(*config)

type config struct {
	window window.Type
}

// WithWindow selects the analysis window. The default is window.TypeHann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// Analyze measures x sampled at sampleRate. The spectrum is taken from a
// windowed frame of the largest power-of-two length that fits, centred in x.
func Analyze(x []float64, sampleRate float64, opts ...Option) (Report, error) {
	if !core.IsFinitePositive(sampleRate) {
		return Report{}, fmt.Errorf("tone: sample rate must be positive and finite: %f", sampleRate)
	}
	if len(x) < MinSamples {
		return Report{}, fmt.Errorf("tone: need at least %d samples, got %d", MinSamples, len(x))
	}

	cfg := config{window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := Report{Window: cfg.window}
	for _, v := range x {
		if a := math.Abs(v); a > r.Peak {
			r.Peak = a
		}
	}
	r.PeakDB = core.LinearToDB(r.Peak)
	r.RMS = math.Sqrt(f64.DotProduct(x, x) / float64(len(x)))

	n := frameSize(len(x))
	r.FFTSize = n
	start := (len(x) - n) / 2

	w, err := window.Generate(cfg.window, n, window.WithPeriodic())
	if err != nil {
		return Report{}, fmt.Errorf("tone: %w", err)
	}
	frame := make([]float64, n)
	copy(frame, x[start:start+n])
	vecmath.MulBlockInPlace(frame, w)

	mag, err := magnitudes(frame)
	if err != nil {
		return Report{}, err
	}
	mag[0] = 0

	k := floats.MaxIdx(mag)
	if mag[k] == 0 {
		return r, nil
	}

	pos := float64(k)
	if k > 0 && k < len(mag)-1 {
		a, b, c := mag[k-1], mag[k], mag[k+1]
		if den := a - 2*b + c; den != 0 {
			pos += 0.5 * (a - c) / den
		}
	}
	r.DominantHz = pos * sampleRate / float64(n)
	r.ToneAmplitude = 2 * mag[k] / (float64(n) * window.CoherentGain(w))
	return r, nil
}

// frameSize returns the largest power of two <= length.
func frameSize(length int) int {
	n := 1
	for n*2 <= length {
		n *= 2
	}
	return n
}

// magnitudes returns |X[k]| for k = 0..n/2 of the real frame.
func magnitudes(frame []float64) ([]float64, error) {
	n := len(frame)
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("tone: fft plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("tone: forward fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}
