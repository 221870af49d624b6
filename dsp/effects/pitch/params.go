package pitch

import (
	"math"

	"github.com/cwbudde/noctave/dsp/core"
)

// Parameter identifiers exchanged with the host.
const (
	ParamPitchShift = "PITCH_SHIFT"
	ParamMix        = "MIX"
	ParamFeedback   = "FEEDBACK"
	ParamHarmony    = "HARMONIZER"
)

// harmonyDeadband is the smallest |Harmony| that switches the harmony voice on.
const harmonyDeadband = 0.1

// Params is the parameter snapshot read once per processed block.
type Params struct {
	// PitchShift is the shift voice offset in semitones, [-24, 24].
	PitchShift float64
	// Mix is the dry/wet ratio of the shift voice, [0, 1].
	Mix float64
	// Feedback is the regeneration amount of the shift voice, [0, 0.5].
	Feedback float64
	// Harmony is the harmony voice interval in semitones, [-12, 12];
	// values within ±0.1 disable the harmony voice.
	Harmony float64
}

// ParamSpec declares range, step and default of one parameter.
type ParamSpec struct {
	ID      string
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

var (
	pitchShiftSpec = ParamSpec{ID: ParamPitchShift, Name: "Pitch Shift", Unit: "semitones", Min: -24, Max: 24, Step: 0.1, Default: 0}
	mixSpec        = ParamSpec{ID: ParamMix, Name: "Mix", Unit: "%", Min: 0, Max: 1, Step: 0.01, Default: 1}
	feedbackSpec   = ParamSpec{ID: ParamFeedback, Name: "Feedback", Unit: "%", Min: 0, Max: 0.5, Step: 0.01, Default: 0}
	harmonySpec    = ParamSpec{ID: ParamHarmony, Name: "Harmonizer", Unit: "semitones", Min: -12, Max: 12, Step: 1, Default: 0}
)

// ParamSpecs returns the parameter layout in host order.
func ParamSpecs() []ParamSpec {
	return []ParamSpec{pitchShiftSpec, mixSpec, feedbackSpec, harmonySpec}
}

// LookupParamSpec returns the spec with the given ID.
func LookupParamSpec(id string) (ParamSpec, bool) {
	for _, s := range ParamSpecs() {
		if s.ID == id {
			return s, true
		}
	}
	return ParamSpec{}, false
}

// Clamp limits v to [Min, Max]; NaN yields Default.
func (s ParamSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	return core.Clamp(v, s.Min, s.Max)
}

// Normalize maps a plain value to [0, 1].
func (s ParamSpec) Normalize(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps a normalized value in [0, 1] back to the plain range.
func (s ParamSpec) Denormalize(n float64) float64 {
	if math.IsNaN(n) {
		return s.Default
	}
	n = core.Clamp(n, 0, 1)
	return s.Min + n*(s.Max-s.Min)
}

// Quantize snaps v to the nearest step inside the range.
func (s ParamSpec) Quantize(v float64) float64 {
	v = s.Clamp(v)
	if s.Step <= 0 {
		return v
	}
	steps := math.Round((v - s.Min) / s.Step)
	return s.Clamp(s.Min + steps*s.Step)
}

// DefaultParams returns the host defaults: no shift, fully wet, no
// feedback, harmony off.
func DefaultParams() Params {
	return Params{
		PitchShift: pitchShiftSpec.Default,
		Mix:        mixSpec.Default,
		Feedback:   feedbackSpec.Default,
		Harmony:    harmonySpec.Default,
	}
}

// Clamp returns p with every field limited to its declared range.
func (p Params) Clamp() Params {
	return Params{
		PitchShift: pitchShiftSpec.Clamp(p.PitchShift),
		Mix:        mixSpec.Clamp(p.Mix),
		Feedback:   feedbackSpec.Clamp(p.Feedback),
		Harmony:    harmonySpec.Clamp(p.Harmony),
	}
}

// HarmonyActive reports whether the harmony voice runs for this snapshot.
func (p Params) HarmonyActive() bool {
	return math.Abs(p.Harmony) > harmonyDeadband
}
