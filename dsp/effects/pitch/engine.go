package pitch

import (
	"fmt"

	"github.com/cwbudde/noctave/dsp/core"
)

const (
	// MaxChannels is the number of channels an Engine processes.
	// Further channels in a block are left untouched.
	MaxChannels = 2

	// TailSeconds is the tail length reported to the host.
	TailSeconds = bufferSeconds
)

// Processor is the lifecycle a plugin shell drives.
type Processor interface {
	Prepare(sampleRate float64, maxBlockSize int) error
	Reset()
	ProcessBlock(buf [][]float64, p Params)
	TailSeconds() float64
}

var _ Processor = (*Engine)(nil)

// Engine owns one Channel per supported audio channel and drives them with
// per-block parameter snapshots.
//
// Prepare and Reset must not run concurrently with ProcessBlock.
type Engine struct {
	cfg      core.ProcessorConfig
	channels [MaxChannels]*Channel
}

// NewEngine constructs an engine prepared for cfg.
func NewEngine(cfg core.ProcessorConfig, opts ...VoiceOption) (*Engine, error) {
	e := &Engine{cfg: cfg}
	for ch := range e.channels {
		c, err := NewChannel(cfg.SampleRate, cfg.BlockSize, opts...)
		if err != nil {
			return nil, fmt.Errorf("pitch engine channel %d: %w", ch, err)
		}
		e.channels[ch] = c
	}
	return e, nil
}

// Prepare reconfigures every channel for a new sample rate and block size.
// After an error the engine must be prepared again before processing.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	for ch, c := range e.channels {
		if err := c.Prepare(sampleRate, maxBlockSize); err != nil {
			return fmt.Errorf("pitch engine channel %d: %w", ch, err)
		}
	}
	e.cfg = core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize}
	return nil
}

// Reset clears all voices, e.g. on transport stop.
func (e *Engine) Reset() {
	for _, c := range e.channels {
		c.Reset()
	}
}

// Release is the host's release hook; it clears all voices.
func (e *Engine) Release() {
	e.Reset()
}

// ProcessBlock processes the first MaxChannels channels of buf in place.
// Parameters outside their declared ranges are clamped.
func (e *Engine) ProcessBlock(buf [][]float64, p Params) {
	p = p.Clamp()
	n := min(len(buf), MaxChannels)
	for ch := 0; ch < n; ch++ {
		e.channels[ch].Process(buf[ch], p)
	}
}

// TailSeconds returns the constant tail length reported to the host.
func (e *Engine) TailSeconds() float64 { return TailSeconds }

// SampleRate returns the prepared sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.cfg.SampleRate }

// BlockSize returns the prepared maximum block size.
func (e *Engine) BlockSize() int { return e.cfg.BlockSize }

// Channel returns the pipeline for channel ch, or nil if out of range.
func (e *Engine) Channel(ch int) *Channel {
	if ch < 0 || ch >= MaxChannels {
		return nil
	}
	return e.channels[ch]
}

// SupportsLayout reports whether a host bus layout can be processed:
// mono or stereo, with as many inputs as outputs.
func SupportsLayout(inputs, outputs int) bool {
	return (outputs == 1 || outputs == 2) && inputs == outputs
}
