package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-erds/dsp/window"
	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/spf13/cobra"
)

type taperFlags struct {
	sfreq, fmin, fmax, cycles, tb float64
	num                           int
	method                        string
}

func newTapersCmd() *cobra.Command {
	var f taperFlags
	cmd := &cobra.Command{
		Use:   "tapers",
		Short: "Print wavelet lengths and taper properties of a frequency grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTapers(cmd.OutOrStdout(), f)
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&f.sfreq, "sfreq", 512, "sample rate in Hz")
	fl.Float64Var(&f.fmin, "fmin", 5, "lowest frequency in Hz")
	fl.Float64Var(&f.fmax, "fmax", 36, "highest frequency in Hz")
	fl.IntVar(&f.num, "num", 8, "number of frequencies")
	fl.Float64Var(&f.cycles, "cycles", 7, "cycles per wavelet")
	fl.Float64Var(&f.tb, "time-bandwidth", 4, "multitaper time-bandwidth product")
	fl.StringVar(&f.method, "method", "multitaper", "multitaper or morlet")
	return cmd
}

func printTapers(w io.Writer, f taperFlags) error {
	method, err := tfr.ParseMethod(f.method)
	if err != nil {
		return err
	}
	grid, err := tfr.NewFrequencyGrid(f.fmin, f.fmax, f.num, tfr.ConstantCycles(f.cycles))
	if err != nil {
		return err
	}
	var wl tfr.Wavelets
	if method == tfr.Morlet {
		wl, err = tfr.MorletWavelets(grid, f.sfreq)
	} else {
		wl, err = tfr.MultitaperWavelets(grid, f.sfreq, f.tb)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq [Hz]\tSamples\tDuration [s]\tTapers\tMin Concentration\tENBW [bins]\tBW 3dB [bins]\n")
	fmt.Fprintf(tw, "---------\t-------\t------------\t------\t-----------------\t-----------\t-------------\n")
	for k, freq := range grid.Freqs {
		n := len(wl.Kernels[0][k])
		taper, conc, err := firstTaper(method, n, freq, grid.Cycles[k], f)
		if err != nil {
			return err
		}
		a := window.Analyze(taper)
		concText := "-"
		if !math.IsNaN(conc) {
			concText = fmt.Sprintf("%.6f", conc)
		}
		fmt.Fprintf(tw, "%.2f\t%d\t%.3f\t%d\t%s\t%.4f\t%.4f\n",
			freq, n, float64(n)/f.sfreq, wl.NumTapers(), concText, a.ENBW, a.Bandwidth3dB)
	}
	return tw.Flush()
}

// firstTaper returns the envelope of the lowest-order kernel at freq and,
// for multitaper, the smallest concentration among its tapers.
func firstTaper(method tfr.Method, n int, freq, cycles float64, f taperFlags) ([]float64, float64, error) {
	if method == tfr.Morlet {
		sigma := cycles / (2 * math.Pi * freq) * f.sfreq
		env, err := window.Gaussian(n, sigma)
		return env, math.NaN(), err
	}
	count := int(math.Floor(f.tb - 1))
	tp, err := window.DPSS(n, f.tb/2, count, window.WithPeriodic())
	if err != nil {
		return nil, 0, err
	}
	minConc := math.Inf(1)
	for _, c := range tp.Concentrations {
		minConc = math.Min(minConc, c)
	}
	return tp.Windows[0], minConc, nil
}
