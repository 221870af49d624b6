// Package window generates cosine-sum analysis windows.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

// cosine-sum coefficients a0 - a1*cos + a2*cos2 - a3*cos3 + a4*cos4.
var terms = map[Type][]float64{
	TypeRectangular: {1},
	TypeHann:        {0.5, 0.5},
	TypeHamming:     {0.54, 0.46},
	TypeBlackman:    {0.42, 0.5, 0.08},
	TypeFlatTop:     {0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368},
}

var names = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeFlatTop:     "flattop",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// Types returns every supported window type in declaration order.
func Types() []Type {
	return []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeFlatTop}
}

// ParseType returns the window named s (case-insensitive).
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range names {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("window: unknown type %q", s)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing instead of
// the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) ([]float64, error) {
	a, ok := terms[t]
	if !ok {
		return nil, fmt.Errorf("window: unknown type %d", t)
	}
	if length <= 0 {
		return nil, fmt.Errorf("window: length must be > 0: %d", length)
	}
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out, nil
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}
	for i := range out {
		x := 2 * math.Pi * float64(i) / den
		sum := 0.0
		sign := 1.0
		for k, ak := range a {
			sum += sign * ak * math.Cos(float64(k)*x)
			sign = -sign
		}
		out[i] = sum
	}
	return out, nil
}

// Apply multiplies buf by the window in place.
func Apply(t Type, buf []float64, opts ...Option) error {
	w, err := Generate(t, len(buf), opts...)
	if err != nil {
		return err
	}
	vecmath.MulBlockInPlace(buf, w)
	return nil
}

// CoherentGain returns the mean of the coefficients, the amplitude gain a
// window applies to a bin-centred sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, fmt.Errorf("window: empty coefficients")
	}
	sum, sumSq := 0.0, 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return 0, fmt.Errorf("window: zero coefficient sum")
	}
	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}

// ScallopLoss returns the worst-case amplitude loss in dB for a sinusoid
// halfway between two bins.
func ScallopLoss(coeffs []float64) float64 {
	n := float64(len(coeffs))
	var dc float64
	var re, im float64
	for i, c := range coeffs {
		dc += c
		phase := math.Pi * float64(i) / n
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	if dc == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(math.Hypot(re, im)/math.Abs(dc))
}
