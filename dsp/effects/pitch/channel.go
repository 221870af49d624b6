package pitch

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/effects/condition"
)

const (
	// Weights of the shifted and harmony signals in the harmonized sum.
	mainWeight    = 0.6
	harmonyWeight = 0.4
	// mixScaleReduction lowers the harmonized sum by up to 10% at full mix.
	mixScaleReduction = 0.1
)

// Channel is the signal path of one audio channel: a shift voice over the
// incoming block and, when enabled, a harmony voice over a copy of the
// original input.
type Channel struct {
	shift   *Voice
	harmony *Voice

	// dry holds the pre-shift input for the harmony voice.
	dry []float64
}

// NewChannel constructs a channel prepared for sampleRate and maxBlockSize.
func NewChannel(sampleRate float64, maxBlockSize int, opts ...VoiceOption) (*Channel, error) {
	if maxBlockSize <= 0 {
		return nil, fmt.Errorf("pitch channel block size must be > 0: %d", maxBlockSize)
	}
	shift, err := NewVoice(sampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("pitch channel shift voice: %w", err)
	}
	harmony, err := NewVoice(sampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("pitch channel harmony voice: %w", err)
	}
	return &Channel{
		shift:   shift,
		harmony: harmony,
		dry:     make([]float64, maxBlockSize),
	}, nil
}

// Prepare forwards to both voices and sizes the harmony scratch buffer.
func (c *Channel) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := c.shift.Prepare(sampleRate, maxBlockSize); err != nil {
		return fmt.Errorf("pitch channel shift voice: %w", err)
	}
	if err := c.harmony.Prepare(sampleRate, maxBlockSize); err != nil {
		return fmt.Errorf("pitch channel harmony voice: %w", err)
	}
	c.dry = core.EnsureLen(c.dry, maxBlockSize)
	core.Zero(c.dry)
	return nil
}

// Reset clears both voices.
func (c *Channel) Reset() {
	c.shift.Reset()
	c.harmony.Reset()
}

// Shift returns the shift voice.
func (c *Channel) Shift() *Voice { return c.shift }

// Harmony returns the harmony voice.
func (c *Channel) Harmony() *Voice { return c.harmony }

// Process runs block through the channel in place.
//
// The harmony voice sees the input as it was before the shift voice ran,
// always fully wet and without feedback. A block longer than the prepared
// maximum grows the scratch buffer once.
func (c *Channel) Process(block []float64, p Params) {
	n := len(block)
	if n == 0 {
		return
	}

	harmonize := p.HarmonyActive()
	if harmonize {
		c.dry = core.EnsureLen(c.dry, n)
		copy(c.dry, block)
	}

	c.shift.ProcessBlock(block, p.PitchShift, p.Mix, p.Feedback)
	if !harmonize {
		return
	}

	harm := c.dry[:n]
	c.harmony.ProcessBlock(harm, p.Harmony, 1, 0)

	condition.HardLimitBlock(block, -condition.VoiceCeiling, condition.VoiceCeiling)
	condition.HardLimitBlock(harm, -condition.VoiceCeiling, condition.VoiceCeiling)

	scale := 1 - p.Mix*mixScaleReduction
	vecmath.ScaleBlock(block, block, mainWeight*scale)
	vecmath.ScaleBlock(harm, harm, harmonyWeight*scale)
	vecmath.AddBlockInPlace(block, harm)

	condition.SafetyBlock(block)
}
