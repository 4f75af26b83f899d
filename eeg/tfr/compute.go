package tfr

import (
	"fmt"

	"github.com/cwbudde/algo-erds/dsp/conv"
	"github.com/cwbudde/algo-erds/dsp/spectrum"
	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/eeg/epochs"
)

// Compute returns the per-epoch power of src over grid. When a baseline
// is configured the tensor is cropped first and then rescaled.
func Compute(src epochs.Source, grid FrequencyGrid, opts ...Option) (*Tensor, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return compute(src, grid, cfg)
}

// ComputeRaw epochs raw around markers over [tmin, tmax] and computes
// their power. Epoching options are passed with WithEpochOptions.
func ComputeRaw(raw *eeg.RawSignal, markers []eeg.EventMarker, tmin, tmax float64, grid FrequencyGrid, opts ...Option) (*Tensor, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	epochOpts := append([]epochs.Option{epochs.WithLogger(cfg.Logger)}, cfg.EpochOptions...)
	ep, err := epochs.New(raw, markers, tmin, tmax, epochOpts...)
	if err != nil {
		return nil, err
	}
	return compute(ep, grid, cfg)
}

func compute(src epochs.Source, grid FrequencyGrid, cfg Config) (*Tensor, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}

	sfreq := src.SampleRate()
	times := src.Times()
	nTimes := len(times)

	var (
		wav Wavelets
		err error
	)
	switch cfg.Method {
	case Morlet:
		wav, err = MorletWavelets(grid, sfreq)
	default:
		wav, err = MultitaperWavelets(grid, sfreq, cfg.TimeBandwidth)
	}
	if err != nil {
		return nil, err
	}
	if l := wav.MaxLen(); l > nTimes {
		return nil, fmt.Errorf("%w: %d samples, epoch has %d", ErrWaveletTooLong, l, nTimes)
	}

	bank, err := conv.NewBank(wav.flat(), nTimes)
	if err != nil {
		return nil, fmt.Errorf("tfr: %w", err)
	}

	decim := cfg.Decim
	outTimes := make([]float64, 0, (nTimes+decim-1)/decim)
	for i := 0; i < nTimes; i += decim {
		outTimes = append(outTimes, times[i])
	}

	channels := src.Channels()
	nFreqs := grid.Len()
	nTapers := wav.NumTapers()
	t := &Tensor{
		Freqs:      append([]float64(nil), grid.Freqs...),
		Times:      outTimes,
		Channels:   channels,
		Codes:      src.Codes(),
		Montage:    src.Montage(),
		SampleRate: sfreq / float64(decim),
	}

	power := make([]float64, nTimes)
	var analytic []complex128
	err = src.Each(func(ep epochs.Epoch) error {
		for _, x := range ep.Data {
			if err := bank.Load(x); err != nil {
				return fmt.Errorf("tfr: epoch %d: %w", ep.Index, err)
			}
			for f := 0; f < nFreqs; f++ {
				clear(power)
				for m := 0; m < nTapers; m++ {
					y, applyErr := bank.Apply(m*nFreqs+f, analytic, conv.ModeSame)
					if applyErr != nil {
						return fmt.Errorf("tfr: epoch %d: %w", ep.Index, applyErr)
					}
					analytic = y
					spectrum.AccumulatePower(power, analytic, 1/float64(nTapers))
				}
				for i := 0; i < nTimes; i += decim {
					t.Data = append(t.Data, power[i])
				}
			}
		}
		t.Events = append(t.Events, ep.Event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	nE, nC, nF, nT := t.Shape()
	cfg.Logger.Info("tfr computed", "method", cfg.Method.String(), "epochs", nE, "channels", nC, "freqs", nF, "times", nT)
	if nE == 0 {
		return nil, ErrNoEpochs
	}

	if cfg.Crop == nil {
		return t, nil
	}
	t, err = t.Crop(cfg.Crop.Min, cfg.Crop.Max)
	if err != nil {
		return nil, err
	}
	t, err = t.Rescale(*cfg.Baseline, cfg.Mode)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("tfr rescaled", "mode", cfg.Mode.String(), "baseline_min", cfg.Baseline.Min, "baseline_max", cfg.Baseline.Max)
	return t, nil
}
