package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/noctave/dsp/effects/pitch"
)

// paramAliases maps short console names to parameter IDs.
var paramAliases = map[string]string{
	"pitch":    pitch.ParamPitchShift,
	"mix":      pitch.ParamMix,
	"feedback": pitch.ParamFeedback,
	"harmony":  pitch.ParamHarmony,
}

// control hands parameter snapshots from the console to the audio callback.
// The callback only loads; the console goroutine stores a fresh copy per
// change.
type control struct {
	params atomic.Pointer[pitch.Params]
	reset  atomic.Bool
}

func newControl(p pitch.Params) *control {
	c := &control{}
	p = p.Clamp()
	c.params.Store(&p)
	return c
}

// Snapshot returns the current parameters.
func (c *control) Snapshot() pitch.Params {
	return *c.params.Load()
}

// takeReset reports whether a reset was requested since the last call.
func (c *control) takeReset() bool {
	return c.reset.Swap(false)
}

// apply executes one console line: "<param> <value>" or "reset".
func (c *control) apply(line string) (pitch.Params, error) {
	fields := strings.Fields(line)
	if len(fields) == 1 && strings.EqualFold(fields[0], "reset") {
		c.reset.Store(true)
		return c.Snapshot(), nil
	}
	if len(fields) != 2 {
		return c.Snapshot(), fmt.Errorf("expected \"<param> <value>\" or \"reset\", got %q", line)
	}

	id := strings.ToUpper(fields[0])
	if alias, ok := paramAliases[strings.ToLower(fields[0])]; ok {
		id = alias
	}
	spec, ok := pitch.LookupParamSpec(id)
	if !ok {
		return c.Snapshot(), fmt.Errorf("unknown parameter %q", fields[0])
	}

	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return c.Snapshot(), fmt.Errorf("invalid value for %s: %w", spec.ID, err)
	}
	v = spec.Quantize(v)

	p := c.Snapshot()
	switch spec.ID {
	case pitch.ParamPitchShift:
		p.PitchShift = v
	case pitch.ParamMix:
		p.Mix = v
	case pitch.ParamFeedback:
		p.Feedback = v
	case pitch.ParamHarmony:
		p.Harmony = v
	}
	c.params.Store(&p)
	return p, nil
}

// listen applies console lines from r until EOF.
func listen(r io.Reader, c *control, logger *log.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := c.apply(line)
		if err != nil {
			logger.Printf("%v", err)
			continue
		}
		logger.Printf("pitch=%.1f mix=%.2f feedback=%.2f harmony=%.0f",
			p.PitchShift, p.Mix, p.Feedback, p.Harmony)
	}
}
