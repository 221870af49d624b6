package main

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/noctave/dsp/effects/pitch"
)

func TestControlApply(t *testing.T) {
	tests := []struct {
		line string
		want pitch.Params
	}{
		{line: "pitch -5", want: pitch.Params{PitchShift: -5, Mix: 1}},
		{line: "MIX 0.333", want: pitch.Params{Mix: 0.33}},
		{line: "feedback 0.9", want: pitch.Params{Mix: 1, Feedback: 0.5}},
		{line: "HARMONIZER 6.6", want: pitch.Params{Mix: 1, Harmony: 7}},
		{line: "pitch_shift 30", want: pitch.Params{PitchShift: 24, Mix: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c := newControl(pitch.DefaultParams())

			got, err := c.apply(tt.line)
			require.NoError(t, err)

			assert.InDelta(t, tt.want.PitchShift, got.PitchShift, 1e-9)
			assert.InDelta(t, tt.want.Mix, got.Mix, 1e-9)
			assert.InDelta(t, tt.want.Feedback, got.Feedback, 1e-9)
			assert.InDelta(t, tt.want.Harmony, got.Harmony, 1e-9)
			assert.Equal(t, got, c.Snapshot())
		})
	}
}

func TestControlApplyErrors(t *testing.T) {
	c := newControl(pitch.DefaultParams())

	for _, line := range []string{"gain 3", "pitch", "pitch up", "pitch 1 2"} {
		_, err := c.apply(line)
		require.Error(t, err, line)
	}

	assert.Equal(t, pitch.DefaultParams(), c.Snapshot())
}

func TestControlReset(t *testing.T) {
	c := newControl(pitch.DefaultParams())
	assert.False(t, c.takeReset())

	_, err := c.apply("reset")
	require.NoError(t, err)

	assert.True(t, c.takeReset())
	assert.False(t, c.takeReset())
}

func TestNewControlClamps(t *testing.T) {
	c := newControl(pitch.Params{PitchShift: math.NaN(), Mix: 4, Feedback: -1, Harmony: 20})
	assert.Equal(t, pitch.Params{PitchShift: 0, Mix: 1, Feedback: 0, Harmony: 12}, c.Snapshot())
}

func TestListen(t *testing.T) {
	c := newControl(pitch.DefaultParams())

	var logs bytes.Buffer
	listen(strings.NewReader("pitch 7\n\nbogus 1\nharmony -12\n"), c, log.New(&logs, "", 0))

	got := c.Snapshot()
	assert.InDelta(t, 7, got.PitchShift, 1e-9)
	assert.InDelta(t, 1, got.Mix, 1e-9)
	assert.InDelta(t, -12, got.Harmony, 1e-9)
	assert.Contains(t, logs.String(), "unknown parameter \"bogus\"")
}
