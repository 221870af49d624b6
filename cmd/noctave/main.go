// Command noctave runs WAV files through the delay-line pitch shifter and
// harmonizer.
//
// Usage:
//
//	noctave [flags] input.wav output.wav
//
// Examples:
//
//	noctave -pitch 12 vocals.wav vocals_up.wav
//	noctave -pitch -5 -mix 0.6 -feedback 0.3 guitar.wav out.wav
//	noctave -harmony 7 -analyze -v lead.wav lead_fifth.wav
//	noctave -hermite -block 128 -pitch -12 bass.wav bass_down.wav
//
// One second of silence is appended to the input so that regenerated echoes
// ring out. Mono and stereo files are supported.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/noctave/dsp/core"
	"github.com/cwbudde/noctave/dsp/effects/pitch"
	"github.com/cwbudde/noctave/dsp/interp"
	"github.com/cwbudde/noctave/dsp/window"
	"github.com/cwbudde/noctave/internal/wavio"
	"github.com/cwbudde/noctave/measure/tone"
)

const (
	defaultBlockSize = 512
	requiredArgs     = 2
)

var errUsage = errors.New("usage: noctave [flags] input.wav output.wav")

type options struct {
	params    pitch.Params
	blockSize int
	hermite   bool
	analyze   bool
	window    window.Type
	verbose   bool
	input     string
	output    string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	defaults := pitch.DefaultParams()

	fs := flag.NewFlagSet("noctave", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.Float64Var(&opts.params.PitchShift, "pitch", defaults.PitchShift, "pitch shift in semitones [-24, 24]")
	fs.Float64Var(&opts.params.Mix, "mix", defaults.Mix, "dry/wet mix [0, 1]")
	fs.Float64Var(&opts.params.Feedback, "feedback", defaults.Feedback, "regeneration amount [0, 0.5]")
	fs.Float64Var(&opts.params.Harmony, "harmony", defaults.Harmony, "harmony interval in semitones [-12, 12], 0 disables")
	fs.IntVar(&opts.blockSize, "block", defaultBlockSize, "processing block size in samples")
	fs.BoolVar(&opts.hermite, "hermite", false, "use 4-point Hermite instead of linear interpolation")
	fs.BoolVar(&opts.analyze, "analyze", false, "print level and dominant frequency of each output channel")
	windowName := fs.String("window", window.TypeHann.String(), "analysis window: rectangular, hann, hamming, blackman, flattop")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: noctave [flags] input.wav output.wav\n\n")
		fmt.Fprintf(stderr, "Pitch-shifts and harmonizes a mono or stereo WAV file.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != requiredArgs {
		fs.Usage()
		return options{}, errUsage
	}
	if opts.blockSize <= 0 {
		return options{}, fmt.Errorf("block size must be > 0: %d", opts.blockSize)
	}
	w, err := window.ParseType(*windowName)
	if err != nil {
		return options{}, err
	}
	opts.window = w

	opts.input = fs.Arg(0)
	opts.output = fs.Arg(1)
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	logger := log.New(stderr, "", log.LstdFlags)

	clip, err := wavio.Read(opts.input)
	if err != nil {
		return err
	}
	if opts.verbose {
		logger.Printf("Input: %s (%d Hz, %d channels, %d-bit, %.2fs)",
			opts.input, clip.SampleRate, clip.NumChannels(), clip.BitDepth, clip.Duration())
	}

	if clamped := opts.params.Clamp(); clamped != opts.params {
		logger.Printf("Parameters clamped to pitch=%.2f mix=%.2f feedback=%.2f harmony=%.2f",
			clamped.PitchShift, clamped.Mix, clamped.Feedback, clamped.Harmony)
		opts.params = clamped
	}

	out, err := render(clip, opts)
	if err != nil {
		return err
	}

	if err := wavio.Write(opts.output, out); err != nil {
		return err
	}
	if opts.verbose {
		logger.Printf("Output: %s (%.2fs)", opts.output, out.Duration())
	}

	if opts.analyze {
		return printReports(stdout, out, opts.window)
	}
	return nil
}

// render processes clip through a fresh engine and returns the result with
// the engine's tail appended.
func render(clip *wavio.Clip, opts options) (*wavio.Clip, error) {
	numChannels := clip.NumChannels()
	if !pitch.SupportsLayout(numChannels, numChannels) {
		return nil, fmt.Errorf("unsupported channel layout: %d channels (mono or stereo only)", numChannels)
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithBlockSize(opts.blockSize),
	)

	var voiceOpts []pitch.VoiceOption
	if opts.hermite {
		voiceOpts = append(voiceOpts, pitch.WithInterpolation(interp.Hermite))
	}

	engine, err := pitch.NewEngine(cfg, voiceOpts...)
	if err != nil {
		return nil, err
	}

	tail := int(engine.TailSeconds() * float64(clip.SampleRate))
	total := clip.Frames() + tail

	out := &wavio.Clip{
		SampleRate: clip.SampleRate,
		BitDepth:   clip.BitDepth,
		Channels:   make([][]float64, numChannels),
	}
	for ch := range numChannels {
		out.Channels[ch] = make([]float64, total)
		core.CopyInto(out.Channels[ch], clip.Channels[ch])
	}

	block := make([][]float64, numChannels)
	for start := 0; start < total; start += opts.blockSize {
		end := min(start+opts.blockSize, total)
		for ch := range numChannels {
			block[ch] = out.Channels[ch][start:end]
		}
		engine.ProcessBlock(block, opts.params)
	}

	return out, nil
}

func printReports(w io.Writer, clip *wavio.Clip, win window.Type) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "channel\tpeak dBFS\trms\tdominant Hz\ttone amplitude")

	for ch, data := range clip.Channels {
		r, err := tone.Analyze(data, float64(clip.SampleRate), tone.WithWindow(win))
		if err != nil {
			return fmt.Errorf("analyze channel %d: %w", ch, err)
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%.4f\t%.1f\t%.4f\n", ch, r.PeakDB, r.RMS, r.DominantHz, r.ToneAmplitude)
	}

	return tw.Flush()
}
