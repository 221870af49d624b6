// Package wavio reads and writes PCM WAV files as planar float64 audio.
package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// Clip is a decoded audio file. Channels are planar and hold samples
// normalized to [-1, 1].
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int { return len(c.Channels) }

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

func (c *Clip) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", c.SampleRate)
	}
	if _, err := fullScale(c.BitDepth); err != nil {
		return err
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("clip has no channels")
	}
	n := len(c.Channels[0])
	for ch, data := range c.Channels {
		if len(data) != n {
			return fmt.Errorf("channel %d has %d samples, want %d", ch, len(data), n)
		}
	}
	return nil
}

// fullScale returns the largest positive integer sample for bitDepth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1)<<(bitDepth-1) - 1), nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// Read decodes the PCM WAV file at path.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("unsupported WAV format tag %d: %s", decoder.WavAudioFormat, path)
	}

	bitDepth := int(decoder.BitDepth)
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	format := decoder.Format()
	numChannels := format.NumChannels
	if numChannels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d: %s", numChannels, path)
	}

	frames := len(buf.Data) / numChannels
	clip := &Clip{
		SampleRate: format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   make([][]float64, numChannels),
	}
	for ch := range numChannels {
		clip.Channels[ch] = make([]float64, frames)
	}

	inv := 1 / scale
	for i := range frames {
		for ch := range numChannels {
			clip.Channels[ch][i] = float64(buf.Data[i*numChannels+ch]) * inv
		}
	}
	return clip, nil
}

// Write encodes clip as PCM WAV at clip.BitDepth. Samples outside [-1, 1]
// are clipped.
func Write(path string, clip *Clip) (err error) {
	if err := clip.validate(); err != nil {
		return err
	}
	scale, _ := fullScale(clip.BitDepth)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	numChannels := clip.NumChannels()
	interleaved := interleave(clip.Channels)
	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = quantize(v, scale)
	}

	enc := wav.NewEncoder(f, clip.SampleRate, clip.BitDepth, numChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: clip.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// interleave flattens planar channels frame by frame.
func interleave(channels [][]float64) []float64 {
	numChannels := len(channels)
	frames := len(channels[0])
	out := make([]float64, frames*numChannels)
	if numChannels == 2 {
		f64.Interleave2(out, channels[0], channels[1])
		return out
	}
	for i := range frames {
		for ch := range numChannels {
			out[i*numChannels+ch] = channels[ch][i]
		}
	}
	return out
}

func quantize(v, scale float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * scale))
}
