package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/interp"
	"github.com/cwbudde/noctave/internal/testutil"
)

func newTestEngine(t *testing.T, opts ...core.ProcessorOption) *Engine {
	t.Helper()

	e, err := NewEngine(core.ApplyProcessorOptions(opts...))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	return e
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(48000), core.WithBlockSize(128))

	if e.SampleRate() != 48000 || e.BlockSize() != 128 {
		t.Fatalf("config = %v/%d, want 48000/128", e.SampleRate(), e.BlockSize())
	}

	for ch := range MaxChannels {
		if e.Channel(ch) == nil {
			t.Fatalf("Channel(%d) = nil", ch)
		}
	}

	if e.Channel(-1) != nil || e.Channel(MaxChannels) != nil {
		t.Fatal("out-of-range Channel() should be nil")
	}

	if _, err := NewEngine(core.ProcessorConfig{SampleRate: 0, BlockSize: 128}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestEngineInterpolationOption(t *testing.T) {
	e, err := NewEngine(core.DefaultProcessorConfig(), WithInterpolation(interp.Hermite))
	if err != nil {
		t.Fatal(err)
	}

	for ch := range MaxChannels {
		c := e.Channel(ch)
		if c.Shift().Interpolation() != interp.Hermite || c.Harmony().Interpolation() != interp.Hermite {
			t.Fatalf("channel %d not using hermite interpolation", ch)
		}
	}
}

func TestEngineExtraChannelsUntouched(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(8000), core.WithBlockSize(256))

	in := testutil.DeterministicNoise(23, 0.5, 256)
	buf := [][]float64{testutil.Clone(in), testutil.Clone(in), testutil.Clone(in), testutil.Clone(in)}

	e.ProcessBlock(buf, Params{PitchShift: 0, Mix: 0, Feedback: 0})

	for ch := range MaxChannels {
		for i, x := range in {
			if math.Abs(buf[ch][i]-0.9*x) > 1e-12 {
				t.Fatalf("channel %d sample %d: got %v, want %v", ch, i, buf[ch][i], 0.9*x)
			}
		}
	}

	testutil.RequireSliceNearlyEqual(t, buf[2], in, 0)
	testutil.RequireSliceNearlyEqual(t, buf[3], in, 0)
}

func TestEngineMono(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(8000))

	buf := [][]float64{testutil.DeterministicNoise(29, 0.5, 512)}
	e.ProcessBlock(buf, DefaultParams())

	testutil.RequireBounded(t, buf[0], 0.9)

	if e.Channel(1).Shift().WritePosition() != 4000 {
		t.Fatal("unused second channel advanced")
	}
}

func TestEngineEmptyBlocks(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(8000))

	e.ProcessBlock(nil, DefaultParams())
	e.ProcessBlock([][]float64{{}, {}}, DefaultParams())
	e.ProcessBlock([][]float64{nil}, DefaultParams())

	if e.Channel(0).Shift().WritePosition() != 4000 {
		t.Fatal("empty blocks advanced the write cursor")
	}
}

func TestEngineClampsParams(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(8000), core.WithBlockSize(512))

	p := Params{PitchShift: math.NaN(), Mix: 5, Feedback: math.Inf(1), Harmony: 100}
	buf := [][]float64{
		testutil.DeterministicNoise(31, 2, 512),
		testutil.DeterministicNoise(37, 2, 512),
	}

	for range 40 {
		e.ProcessBlock(buf, p)
		testutil.RequireBounded(t, buf[0], 0.9)
		testutil.RequireBounded(t, buf[1], 0.9)
	}

	if got := e.Channel(0).Harmony().SmoothedSemitones(); got > 12+1e-9 {
		t.Fatalf("harmony target not clamped, smoothed = %v", got)
	}
}

func TestEngineResetAndRelease(t *testing.T) {
	e := newTestEngine(t, core.WithSampleRate(8000), core.WithBlockSize(256))
	p := Params{PitchShift: -7, Mix: 1, Feedback: 0.5, Harmony: 5}

	for range 20 {
		e.ProcessBlock([][]float64{
			testutil.DeterministicNoise(41, 0.8, 256),
			testutil.DeterministicNoise(43, 0.8, 256),
		}, p)
	}

	for _, reset := range []func(){e.Reset, e.Release} {
		reset()

		buf := [][]float64{make([]float64, 256), make([]float64, 256)}
		for range 40 {
			e.ProcessBlock(buf, p)
			testutil.RequireSilent(t, buf[0])
			testutil.RequireSilent(t, buf[1])
		}
	}
}

func TestEnginePrepare(t *testing.T) {
	e := newTestEngine(t)

	if err := e.Prepare(96000, 2048); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if e.SampleRate() != 96000 || e.BlockSize() != 2048 {
		t.Fatalf("config = %v/%d, want 96000/2048", e.SampleRate(), e.BlockSize())
	}

	if e.Channel(1).Shift().Capacity() != 96000 {
		t.Fatalf("capacity = %d, want 96000", e.Channel(1).Shift().Capacity())
	}

	if err := e.Prepare(-1, 2048); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestEngineTailSeconds(t *testing.T) {
	e := newTestEngine(t)
	if e.TailSeconds() != 1 {
		t.Fatalf("TailSeconds() = %v, want 1", e.TailSeconds())
	}
}

func TestSupportsLayout(t *testing.T) {
	tests := []struct {
		inputs, outputs int
		want            bool
	}{
		{inputs: 1, outputs: 1, want: true},
		{inputs: 2, outputs: 2, want: true},
		{inputs: 1, outputs: 2, want: false},
		{inputs: 2, outputs: 1, want: false},
		{inputs: 0, outputs: 0, want: false},
		{inputs: 6, outputs: 6, want: false},
	}

	for _, tt := range tests {
		if got := SupportsLayout(tt.inputs, tt.outputs); got != tt.want {
			t.Fatalf("SupportsLayout(%d, %d) = %v, want %v", tt.inputs, tt.outputs, got, tt.want)
		}
	}
}
