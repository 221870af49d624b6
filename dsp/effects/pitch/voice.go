package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/delay"
	"github.com/cwbudde/noctave/dsp/effects/condition"
	"github.com/cwbudde/noctave/dsp/interp"
)

const (
	// bufferSeconds is the delay-line length of every voice.
	bufferSeconds = 1.0

	// One-pole smoothing of the pitch target, applied per sample.
	pitchSmoothingPole = 0.995
	pitchSmoothingGain = 0.005

	// maxFeedback keeps the regeneration loop gain below unity.
	maxFeedback = 0.5
	// feedbackAttenuation scales the fed-back sample on top of maxFeedback.
	feedbackAttenuation = 0.75

	// Gain staging of the dry/wet mix:
	//   wet = mix*wetHeadroom*(1 - mix*wetReduction)
	//   dry = (1-mix)*dryHeadroom
	wetHeadroom  = 0.85
	wetReduction = 0.15
	dryHeadroom  = 0.9
)

// VoiceOption configures a Voice.
type VoiceOption func(*voiceConfig)

type voiceConfig struct {
	mode interp.Mode
}

// WithInterpolation selects the fractional read of the delay line.
// The default is interp.Linear.
func WithInterpolation(mode interp.Mode) VoiceOption {
	return func(cfg *voiceConfig) {
		switch mode {
		case interp.Linear, interp.Hermite:
			cfg.mode = mode
		}
	}
}

func applyVoiceOptions(opts []VoiceOption) voiceConfig {
	cfg := voiceConfig{mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Voice is a delay-line pitch shifter.
//
// Samples are written at an integer cursor that advances by exactly one per
// sample. A continuous read cursor moves by -ratio per sample, where
// ratio = 2^(smoothed/12). The drift between the two cursors is what shifts
// the pitch; there is no fixed delay.
//
// Voice is not safe for concurrent use.
type Voice struct {
	line       *delay.Line
	sampleRate float64

	writePos int
	readPos  float64

	smoothed float64
	ratio    float64
}

// NewVoice constructs a voice holding one second of audio at sampleRate.
func NewVoice(sampleRate float64, opts ...VoiceOption) (*Voice, error) {
	capacity, err := voiceCapacity(sampleRate)
	if err != nil {
		return nil, err
	}
	cfg := applyVoiceOptions(opts)
	line, err := delay.New(capacity, delay.WithMode(cfg.mode))
	if err != nil {
		return nil, fmt.Errorf("pitch voice: %w", err)
	}
	v := &Voice{line: line, sampleRate: sampleRate, ratio: 1}
	v.center()
	return v, nil
}

func voiceCapacity(sampleRate float64) (int, error) {
	if !core.IsFinitePositive(sampleRate) {
		return 0, fmt.Errorf("pitch voice sample rate must be positive and finite: %f", sampleRate)
	}
	capacity := int(math.Round(sampleRate * bufferSeconds))
	if capacity < 1 {
		return 0, fmt.Errorf("pitch voice sample rate too low for a delay line: %f", sampleRate)
	}
	return capacity, nil
}

// Prepare resizes the delay line for sampleRate, zeroes it, centres both
// cursors and resets the pitch smoothing. maxBlockSize is accepted for
// symmetry with the host lifecycle; a voice processes one sample at a time.
func (v *Voice) Prepare(sampleRate float64, maxBlockSize int) error {
	if maxBlockSize <= 0 {
		return fmt.Errorf("pitch voice block size must be > 0: %d", maxBlockSize)
	}
	capacity, err := voiceCapacity(sampleRate)
	if err != nil {
		return err
	}
	if err := v.line.Size(capacity); err != nil {
		return fmt.Errorf("pitch voice: %w", err)
	}
	v.sampleRate = sampleRate
	v.smoothed = 0
	v.ratio = 1
	v.center()
	return nil
}

// Reset clears the delay line and re-centres the cursors without
// reallocating. The pitch smoothing state is kept.
func (v *Voice) Reset() {
	v.line.Clear()
	v.center()
}

func (v *Voice) center() {
	half := v.line.Len() / 2
	v.writePos = half
	v.readPos = float64(half)
}

// ProcessSample runs one sample through the voice and returns the mixed,
// conditioned output. All arguments are clamped rather than rejected.
func (v *Voice) ProcessSample(input, targetSemitones, mix, feedback float64) float64 {
	if math.IsNaN(input) {
		input = 0
	}
	if !math.IsNaN(targetSemitones) {
		v.smoothed = v.smoothed*pitchSmoothingPole + targetSemitones*pitchSmoothingGain
		v.ratio = semitonesToRatio(v.smoothed)
	}

	feedback = core.Clamp(feedback, 0, maxFeedback)
	mix = core.Clamp(mix, 0, 1)
	in := condition.HardLimit(input, -condition.InputCeiling, condition.InputCeiling)

	v.readPos = v.line.Wrap(v.readPos - v.ratio)
	out := condition.HardLimit(v.line.ReadFractional(v.readPos), -condition.VoiceCeiling, condition.VoiceCeiling)

	// Denormals are flushed before they enter the regeneration loop.
	fb := core.FlushDenormals(out * feedback * feedbackAttenuation)
	written := condition.HardLimit(in+fb, -condition.VoiceCeiling, condition.VoiceCeiling)
	v.line.WriteAt(v.writePos, core.FlushDenormals(written))
	v.writePos++
	if v.writePos >= v.line.Len() {
		v.writePos = 0
	}

	wet := mix * wetHeadroom * (1 - mix*wetReduction)
	dry := (1 - mix) * dryHeadroom
	return condition.Safety(in*dry + out*wet)
}

// ProcessBlock processes buf in place with constant targets.
func (v *Voice) ProcessBlock(buf []float64, targetSemitones, mix, feedback float64) {
	for i, x := range buf {
		buf[i] = v.ProcessSample(x, targetSemitones, mix, feedback)
	}
}

// SampleRate returns the prepared sample rate in Hz.
func (v *Voice) SampleRate() float64 { return v.sampleRate }

// Capacity returns the delay-line length in samples.
func (v *Voice) Capacity() int { return v.line.Len() }

// Interpolation returns the fractional read mode.
func (v *Voice) Interpolation() interp.Mode { return v.line.Mode() }

// PitchRatio returns the read-cursor speed used for the last sample.
func (v *Voice) PitchRatio() float64 { return v.ratio }

// SmoothedSemitones returns the current smoothed pitch target.
func (v *Voice) SmoothedSemitones() float64 { return v.smoothed }

// ReadPosition returns the continuous read cursor, in [0, Capacity()).
func (v *Voice) ReadPosition() float64 { return v.readPos }

// WritePosition returns the integer write cursor, in [0, Capacity()).
func (v *Voice) WritePosition() int { return v.writePos }
