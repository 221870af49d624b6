// Command wininfo prints the spectral properties of the analysis windows
// offered by noctave -analyze.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints info for all known window types.
//
// Examples:
//
//	wininfo hann
//	wininfo -size 1024 blackman flattop
//	wininfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/noctave/dsp/window"
)

func main() {
	size := flag.Int("size", 4096, "window length in samples")
	list := flag.Bool("list", false, "list available window names")
	symmetric := flag.Bool("symmetric", false, "use the symmetric form instead of the periodic (FFT) form")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wininfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints coherent gain, ENBW and scallop loss of analysis windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, t := range window.Types() {
			fmt.Println(t)
		}
		return
	}

	types, err := resolveTypes(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var opts []window.Option
	if !*symmetric {
		opts = append(opts, window.WithPeriodic())
	}

	if err := printAnalysis(os.Stdout, types, *size, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveTypes(names []string) ([]window.Type, error) {
	if len(names) == 0 {
		return window.Types(), nil
	}
	types := make([]window.Type, 0, len(names))
	for _, name := range names {
		t, err := window.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("%w (use -list to see available)", err)
		}
		types = append(types, t)
	}
	return types, nil
}

func printAnalysis(w io.Writer, types []window.Type, size int, opts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tScallop [dB]\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t------------\n")

	for _, t := range types {
		coeffs, err := window.Generate(t, size, opts...)
		if err != nil {
			return err
		}
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\n",
			t, size, window.CoherentGain(coeffs), enbw, window.ScallopLoss(coeffs))
	}
	return tw.Flush()
}
