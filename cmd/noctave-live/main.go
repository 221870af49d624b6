//go:build portaudio

// Command noctave-live runs the pitch shifter on the default audio input
// and output devices.
//
// Usage:
//
//	go run -tags portaudio ./cmd/noctave-live [flags]
//
// While running, parameters can be changed on stdin with lines such as
// "pitch -5", "mix 0.5", "feedback 0.3", "harmony 7" or "reset".
// Stop with Ctrl+C.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	pa "github.com/gordonklaus/portaudio"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/effects/pitch"
	"github.com/cwbudde/noctave/dsp/interp"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := pitch.DefaultParams()

	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	frames := flag.Int("frames", 256, "frames per buffer")
	channels := flag.Int("channels", 2, "input and output channel count (1 or 2)")
	pitchShift := flag.Float64("pitch", defaults.PitchShift, "pitch shift in semitones [-24, 24]")
	mix := flag.Float64("mix", defaults.Mix, "dry/wet mix [0, 1]")
	feedback := flag.Float64("feedback", defaults.Feedback, "regeneration amount [0, 0.5]")
	harmony := flag.Float64("harmony", defaults.Harmony, "harmony interval in semitones [-12, 12]")
	hermite := flag.Bool("hermite", false, "use 4-point Hermite interpolation")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	if !pitch.SupportsLayout(*channels, *channels) {
		return fmt.Errorf("unsupported channel count: %d", *channels)
	}
	if *frames <= 0 {
		return fmt.Errorf("frames per buffer must be > 0: %d", *frames)
	}

	var voiceOpts []pitch.VoiceOption
	if *hermite {
		voiceOpts = append(voiceOpts, pitch.WithInterpolation(interp.Hermite))
	}

	engine, err := pitch.NewEngine(core.ApplyProcessorOptions(
		core.WithSampleRate(*rate),
		core.WithBlockSize(*frames),
	), voiceOpts...)
	if err != nil {
		return err
	}
	defer engine.Release()

	ctl := newControl(pitch.Params{PitchShift: *pitchShift, Mix: *mix, Feedback: *feedback, Harmony: *harmony})
	logger := log.New(os.Stderr, "", log.LstdFlags)

	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("unable to setup portaudio: %w", err)
	}
	defer func() {
		if err := pa.Terminate(); err != nil {
			logger.Printf("portaudio termination error: %v", err)
		}
	}()

	scratch := make([][]float64, *channels)
	for ch := range scratch {
		scratch[ch] = make([]float64, *frames)
	}
	block := make([][]float64, *channels)

	process := func(in, out [][]float32) {
		if ctl.takeReset() {
			engine.Reset()
		}
		p := ctl.Snapshot()

		n := len(out[0])
		for ch := range out {
			scratch[ch] = core.EnsureLen(scratch[ch], n)
			block[ch] = scratch[ch][:n]
			for i, x := range in[ch] {
				block[ch][i] = float64(x)
			}
		}

		engine.ProcessBlock(block, p)

		for ch := range out {
			for i, y := range block[ch] {
				out[ch][i] = float32(y)
			}
		}
	}

	stream, err := pa.OpenDefaultStream(*channels, *channels, *rate, *frames, process)
	if err != nil {
		return fmt.Errorf("unable to open default stream: %w", err)
	}
	defer stream.Close()

	if *verbose {
		info := stream.Info()
		logger.Printf("%s", pa.VersionText())
		logger.Printf("Stream: %.0f Hz, %d channels, input latency %v, output latency %v",
			info.SampleRate, *channels, info.InputLatency, info.OutputLatency)
	}

	if err := stream.Start(); err != nil {
		return fmt.Errorf("unable to start stream: %w", err)
	}

	go listen(os.Stdin, ctl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("unable to stop stream: %w", err)
	}
	return nil
}
