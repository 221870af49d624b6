package webdemo

import (
	"math"
	"testing"

	"github.com/cwbudde/noctave/dsp/effects/pitch"
	"github.com/cwbudde/noctave/dsp/interp"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := NewEngine(48000)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	return e
}

func TestNewEngineRejectsInvalidRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN()} {
		if _, err := NewEngine(sr); err == nil {
			t.Fatalf("NewEngine(%v) expected error", sr)
		}
	}
}

func TestRenderSilentWhenStopped(t *testing.T) {
	e := newTestEngine(t)

	buf := make([]float32, 1000)
	e.Render(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0 while stopped", i, v)
		}
	}
}

func TestRenderBoundedAndAudible(t *testing.T) {
	e := newTestEngine(t)
	e.SetParams(pitch.Params{PitchShift: 7, Mix: 0.5, Feedback: 0.4, Harmony: 4})
	e.SetWaveform("saw")
	e.SetRunning(true)

	buf := make([]float32, 48000)
	e.Render(buf)

	peak := 0.0
	for i, v := range buf {
		a := math.Abs(float64(v))
		if math.IsNaN(a) || a > 0.9+1e-6 {
			t.Fatalf("sample %d = %v out of bounds", i, v)
		}
		peak = max(peak, a)
	}

	if peak < 0.01 {
		t.Fatalf("peak = %v, want audible output", peak)
	}

	r, err := e.Meter()
	if err != nil {
		t.Fatalf("Meter: %v", err)
	}

	if r.FFTSize != meterLength || r.Peak > 0.9 {
		t.Fatalf("meter report = %+v", r)
	}
}

func TestSetParamsClamps(t *testing.T) {
	e := newTestEngine(t)
	e.SetParams(pitch.Params{PitchShift: 99, Mix: -1, Feedback: 3, Harmony: math.NaN()})

	want := pitch.Params{PitchShift: 24, Mix: 0, Feedback: 0.5, Harmony: 0}
	if got := e.Params(); got != want {
		t.Fatalf("Params() = %+v, want %+v", got, want)
	}
}

func TestSetInterpolationAndReset(t *testing.T) {
	e := newTestEngine(t)
	e.SetRunning(true)

	if err := e.SetInterpolation(interp.Hermite); err != nil {
		t.Fatalf("SetInterpolation: %v", err)
	}

	if got := e.fx.Channel(0).Shift().Interpolation(); got != interp.Hermite {
		t.Fatalf("interpolation = %v, want hermite", got)
	}

	e.Render(make([]float32, 4096))
	e.Reset()

	if w := e.fx.Channel(0).Shift().WritePosition(); w != 24000 {
		t.Fatalf("write cursor after Reset = %d, want 24000", w)
	}
}

func TestSequencerAdvances(t *testing.T) {
	e := newTestEngine(t)
	e.SetTransport(120, 0.1)
	e.SetSteps([]StepConfig{{Enabled: true, FreqHz: 0}})
	e.SetRunning(true)

	if e.seq.steps[0].FreqHz != 110 {
		t.Fatalf("non-positive step frequency should default to 110, got %v", e.seq.steps[0].FreqHz)
	}

	// One sixteenth at 120 BPM and 48 kHz is 6000 samples.
	e.Render(make([]float32, 6000*3+10))

	if got := e.CurrentStep(); got != 4 {
		t.Fatalf("CurrentStep() = %d, want 4", got)
	}
}

func TestWaveSample(t *testing.T) {
	tests := []struct {
		w     Waveform
		phase float64
		want  float64
	}{
		{w: WaveSine, phase: math.Pi / 2, want: 1},
		{w: WaveTriangle, phase: math.Pi / 2, want: 1},
		{w: WaveSaw, phase: math.Pi / 2, want: 0.5},
		{w: WaveSquare, phase: -0.1, want: -1},
	}

	for _, tt := range tests {
		if got := waveSample(tt.w, tt.phase); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("waveSample(%v, %v) = %v, want %v", tt.w, tt.phase, got, tt.want)
		}
	}
}
