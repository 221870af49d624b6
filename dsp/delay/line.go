// Package delay provides a circular delay line with independent,
// caller-owned read and write cursors.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/interp"
)

// Line is a fixed-capacity circular sample buffer.
//
// Line does not own any cursor: callers address cells by integer index or
// read at a continuous position. Every index is wrapped modulo the capacity,
// so no access can go out of bounds.
type Line struct {
	buffer []float64
	mode   interp.Mode
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the kernel used by ReadFractional.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		switch mode {
		case interp.Linear, interp.Hermite:
			d.mode = mode
		}
	}
}

// New returns a zeroed delay line holding capacity samples.
// The default fractional read is linear.
func New(capacity int, opts ...Option) (*Line, error) {
	d := &Line{mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if err := d.Size(capacity); err != nil {
		return nil, err
	}
	return d, nil
}

// Size (re)allocates the line to capacity samples and zero-fills it.
// Existing storage is reused when it is large enough.
func (d *Line) Size(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("delay capacity must be > 0: %d", capacity)
	}
	d.buffer = core.EnsureLen(d.buffer, capacity)
	core.Zero(d.buffer)
	return nil
}

// Clear zero-fills the line without reallocating.
func (d *Line) Clear() {
	core.Zero(d.buffer)
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional read kernel.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// WrapIndex maps any integer index into [0, Len()).
func (d *Line) WrapIndex(index int) int {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	index %= size
	if index < 0 {
		index += size
	}
	return index
}

// Wrap maps a continuous cursor position into [0, Len()).
//
// The position is folded by repeated addition or subtraction of the capacity
// until it is in range. Positions many buffers away are first reduced with
// math.Mod so the loop stays short; NaN and Inf map to 0.
func (d *Line) Wrap(pos float64) float64 {
	size := float64(len(d.buffer))
	if size == 0 || math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0
	}
	if pos >= 4*size || pos < -4*size {
		pos = math.Mod(pos, size)
	}
	for pos < 0 {
		pos += size
	}
	for pos >= size {
		pos -= size
	}
	return pos
}

// ReadAt returns the sample stored at index, wrapped modulo capacity.
func (d *Line) ReadAt(index int) float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	return d.buffer[d.WrapIndex(index)]
}

// WriteAt stores value at index, wrapped modulo capacity.
func (d *Line) WriteAt(index int, value float64) {
	if len(d.buffer) == 0 {
		return
	}
	d.buffer[d.WrapIndex(index)] = value
}

// ReadLinear reads at a continuous position by linear interpolation between
// the two cells straddling it. The fractional part is the weight of the
// upper cell; the upper neighbour of the last cell is cell 0.
func (d *Line) ReadLinear(pos float64) float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	pos = d.Wrap(pos)
	i := int(pos)
	frac := pos - float64(i)
	return interp.Linear2(frac, d.buffer[i], d.ReadAt(i+1))
}

// ReadHermite reads at a continuous position with 4-point cubic Hermite
// interpolation, using the cells at floor(pos)-1 .. floor(pos)+2.
func (d *Line) ReadHermite(pos float64) float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	pos = d.Wrap(pos)
	i := int(pos)
	frac := pos - float64(i)
	return interp.Hermite4(frac, d.ReadAt(i-1), d.buffer[i], d.ReadAt(i+1), d.ReadAt(i+2))
}

// ReadFractional reads at a continuous position using the configured mode.
func (d *Line) ReadFractional(pos float64) float64 {
	if d.mode == interp.Hermite {
		return d.ReadHermite(pos)
	}
	return d.ReadLinear(pos)
}
