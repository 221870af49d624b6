// Package webdemo drives the browser demo: a step sequencer whose output
// runs through the pitch shifter.
package webdemo

import (
	"fmt"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/effects/pitch"
	"github.com/cwbudde/noctave/dsp/interp"
	"github.com/cwbudde/noctave/measure/tone"
)

const (
	demoBlockSize = 128
	meterLength   = 4096
)

// Engine renders the demo signal. It is driven from a single goroutine.
type Engine struct {
	sampleRate float64
	seq        *sequencer
	fx         *pitch.Engine
	params     pitch.Params

	scratch []float64
	block   [][]float64
	meter   []float64
	mpos    int
}

// NewEngine creates a demo engine at sampleRate.
func NewEngine(sampleRate float64) (*Engine, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	fx, err := pitch.NewEngine(core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(demoBlockSize),
	))
	if err != nil {
		return nil, err
	}
	return &Engine{
		sampleRate: sampleRate,
		seq:        newSequencer(sampleRate),
		fx:         fx,
		params:     pitch.DefaultParams(),
		scratch:    make([]float64, demoBlockSize),
		block:      make([][]float64, 1),
		meter:      make([]float64, meterLength),
	}, nil
}

// SetTransport updates tempo and note decay.
func (e *Engine) SetTransport(tempoBPM, decaySec float64) { e.seq.setTransport(tempoBPM, decaySec) }

// SetRunning starts or stops the sequencer.
func (e *Engine) SetRunning(running bool) { e.seq.setRunning(running) }

// SetSteps updates the 16-step pattern.
func (e *Engine) SetSteps(steps []StepConfig) { e.seq.setSteps(steps) }

// SetWaveform selects the oscillator: sine, triangle, saw or square.
func (e *Engine) SetWaveform(name string) { e.seq.setWaveform(name) }

// CurrentStep returns the step index that triggers next.
func (e *Engine) CurrentStep() int { return e.seq.currentStep }

// SetParams replaces the effect parameters; out-of-range values are clamped.
func (e *Engine) SetParams(p pitch.Params) { e.params = p.Clamp() }

// Params returns the effect parameters in use.
func (e *Engine) Params() pitch.Params { return e.params }

// SetInterpolation rebuilds the effect with the given read interpolation.
// The delay lines start empty afterwards.
func (e *Engine) SetInterpolation(mode interp.Mode) error {
	fx, err := pitch.NewEngine(core.ApplyProcessorOptions(
		core.WithSampleRate(e.sampleRate),
		core.WithBlockSize(demoBlockSize),
	), pitch.WithInterpolation(mode))
	if err != nil {
		return err
	}
	e.fx = fx
	return nil
}

// Reset clears the effect's delay lines.
func (e *Engine) Reset() { e.fx.Reset() }

// Render fills dst with processed mono samples.
func (e *Engine) Render(dst []float32) {
	for start := 0; start < len(dst); start += demoBlockSize {
		n := min(demoBlockSize, len(dst)-start)
		buf := e.scratch[:n]
		for i := range buf {
			buf[i] = e.seq.next()
		}

		e.block[0] = buf
		e.fx.ProcessBlock(e.block, e.params)

		for i, y := range buf {
			dst[start+i] = float32(y)
			e.meter[e.mpos] = y
			e.mpos = (e.mpos + 1) % len(e.meter)
		}
	}
}

// Meter analyzes the most recently rendered samples.
func (e *Engine) Meter() (tone.Report, error) {
	ordered := make([]float64, len(e.meter))
	n := copy(ordered, e.meter[e.mpos:])
	copy(ordered[n:], e.meter[:e.mpos])
	return tone.Analyze(ordered, e.sampleRate)
}
