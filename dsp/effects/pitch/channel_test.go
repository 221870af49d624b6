package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/noctave/dsp/effects/condition"
	"github.com/cwbudde/noctave/internal/testutil"
)

func processChannel(t *testing.T, c *Channel, in []float64, block int, p Params) []float64 {
	t.Helper()

	out := testutil.Clone(in)
	for i := 0; i < len(out); i += block {
		c.Process(out[i:min(i+block, len(out))], p)
	}

	return out
}

func newTestChannel(t *testing.T, sampleRate float64, maxBlock int) *Channel {
	t.Helper()

	c, err := NewChannel(sampleRate, maxBlock)
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	return c
}

func TestNewChannelValidation(t *testing.T) {
	if _, err := NewChannel(48000, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}

	if _, err := NewChannel(0, 256); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestChannelHarmonyDeadband(t *testing.T) {
	const sampleRate = 8000.0

	in := testutil.DeterministicSine(440, sampleRate, 0.5, 12000)
	base := Params{PitchShift: 5, Mix: 0.5, Feedback: 0.2}
	off := processChannel(t, newTestChannel(t, sampleRate, 256), in, 256, base)

	for _, h := range []float64{0.1, -0.1, 0.05} {
		p := base
		p.Harmony = h
		got := processChannel(t, newTestChannel(t, sampleRate, 256), in, 256, p)
		testutil.RequireSliceNearlyEqual(t, got, off, 0)
	}

	p := base
	p.Harmony = 0.11
	on := processChannel(t, newTestChannel(t, sampleRate, 256), in, 256, p)

	diff, err := testutil.MaxAbsDiff(on, off)
	if err != nil {
		t.Fatal(err)
	}

	if diff < 0.1 {
		t.Fatalf("harmony 0.11 should change the output, max diff %v", diff)
	}
}

func TestChannelHarmonyCombine(t *testing.T) {
	const sampleRate = 8000.0

	in := testutil.DeterministicNoise(9, 0.7, 6000)
	p := Params{PitchShift: -5, Mix: 0.8, Feedback: 0.3, Harmony: 7}
	got := processChannel(t, newTestChannel(t, sampleRate, 128), in, 128, p)

	shift, err := NewVoice(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	harmony, err := NewVoice(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	scale := 1 - p.Mix*0.1
	for i, x := range in {
		main := shift.ProcessSample(x, p.PitchShift, p.Mix, p.Feedback)
		harm := harmony.ProcessSample(x, p.Harmony, 1, 0)
		main = condition.HardLimit(main, -0.85, 0.85)
		harm = condition.HardLimit(harm, -0.85, 0.85)
		want := condition.Safety((main*0.6 + harm*0.4) * scale)

		if math.Abs(got[i]-want) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestChannelBounded(t *testing.T) {
	c := newTestChannel(t, 8000, 64)
	in := testutil.DeterministicNoise(13, 3, 30000)
	out := processChannel(t, c, in, 64, Params{PitchShift: 24, Mix: 1, Feedback: 0.5, Harmony: -12})

	testutil.RequireBounded(t, out, 0.9)
}

func TestChannelOversizedBlock(t *testing.T) {
	c := newTestChannel(t, 8000, 32)
	in := testutil.DeterministicNoise(17, 0.5, 4096)
	out := testutil.Clone(in)

	c.Process(out, Params{PitchShift: 3, Mix: 1, Harmony: 4})

	if len(c.dry) < len(in) {
		t.Fatalf("scratch length %d, want >= %d", len(c.dry), len(in))
	}

	testutil.RequireBounded(t, out, 0.9)
}

func TestChannelResetSilences(t *testing.T) {
	c := newTestChannel(t, 8000, 256)
	p := Params{PitchShift: 7, Mix: 1, Feedback: 0.5, Harmony: 3}
	processChannel(t, c, testutil.DeterministicNoise(19, 0.8, 10000), 256, p)

	c.Reset()

	out := processChannel(t, c, make([]float64, 8000), 256, p)
	testutil.RequireSilent(t, out)
}

func TestChannelPrepare(t *testing.T) {
	c := newTestChannel(t, 44100, 256)

	if err := c.Prepare(48000, 1024); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if c.Shift().Capacity() != 48000 || c.Harmony().Capacity() != 48000 {
		t.Fatalf("capacities = %d/%d, want 48000", c.Shift().Capacity(), c.Harmony().Capacity())
	}

	if len(c.dry) < 1024 {
		t.Fatalf("scratch length %d, want >= 1024", len(c.dry))
	}

	if err := c.Prepare(48000, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}
}
