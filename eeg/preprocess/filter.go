package preprocess

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-erds/dsp/filter/biquad"
	"github.com/cwbudde/algo-erds/dsp/filter/design"
	"github.com/cwbudde/algo-erds/eeg"
)

// ErrFilterConfig is returned for filter settings that cannot be realised.
var ErrFilterConfig = errors.New("preprocess: invalid filter configuration")

// FilterConfig describes a bandpass plus notch filter.
type FilterConfig struct {
	LowCut  float64 // Hz
	HighCut float64 // Hz
	// NotchFreq is the line frequency to remove; 0 disables the notch.
	NotchFreq  float64
	NotchWidth float64 // Hz, -3 dB width of the notch
	SampleRate float64
	// Order is the Butterworth order of each of the high- and lowpass
	// halves. The forward-backward pass doubles the effective order.
	Order int
}

// DefaultFilterConfig returns a 1-36 Hz bandpass with a 2 Hz wide 50 Hz
// notch at 512 Hz.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		LowCut:     1,
		HighCut:    36,
		NotchFreq:  50,
		NotchWidth: 2,
		SampleRate: 512,
		Order:      4,
	}
}

// Validate reports whether the configuration is realisable.
func (c FilterConfig) Validate() error {
	nyq := c.SampleRate / 2
	switch {
	case !(c.SampleRate > 0):
		return fmt.Errorf("%w: sample rate %v", ErrFilterConfig, c.SampleRate)
	case c.Order < 1:
		return fmt.Errorf("%w: order %d", ErrFilterConfig, c.Order)
	case !(c.LowCut > 0) || !(c.LowCut < c.HighCut) || !(c.HighCut < nyq):
		return fmt.Errorf("%w: band [%v, %v] Hz at nyquist %v", ErrFilterConfig, c.LowCut, c.HighCut, nyq)
	case c.NotchFreq < 0 || c.NotchFreq >= nyq:
		return fmt.Errorf("%w: notch %v Hz", ErrFilterConfig, c.NotchFreq)
	case c.NotchFreq > 0 && !(c.NotchWidth > 0):
		return fmt.Errorf("%w: notch width %v Hz", ErrFilterConfig, c.NotchWidth)
	}
	return nil
}

// Filter applies a fixed zero-phase filter to channel rows.
type Filter struct {
	cfg    FilterConfig
	coeffs []biquad.Coefficients
}

// NewFilter designs the filter sections for cfg.
func NewFilter(cfg FilterConfig) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	coeffs := design.ButterworthBP(cfg.LowCut, cfg.HighCut, cfg.Order, cfg.SampleRate)
	if coeffs == nil {
		return nil, fmt.Errorf("%w: bandpass design failed", ErrFilterConfig)
	}
	if cfg.NotchFreq > 0 {
		coeffs = append(coeffs, design.NotchWidth(cfg.NotchFreq, cfg.NotchWidth, cfg.SampleRate))
	}
	return &Filter{cfg: cfg, coeffs: coeffs}, nil
}

// Config returns the configuration the filter was built from.
func (f *Filter) Config() FilterConfig { return f.cfg }

// FilterData returns a filtered copy of data (channels x samples).
func (f *Filter) FilterData(data [][]float64) ([][]float64, error) {
	if err := eeg.ValidateShape(data); err != nil {
		return nil, err
	}
	chain := biquad.NewChain(f.coeffs)
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = append([]float64(nil), row...)
		chain.FiltFilt(out[i])
	}
	return out, nil
}

// Apply filters every channel of raw.
func (f *Filter) Apply(raw *eeg.RawSignal) (*eeg.RawSignal, error) {
	if raw.SampleRate != f.cfg.SampleRate {
		return nil, fmt.Errorf("%w: filter designed for %v Hz, recording is %v Hz", eeg.ErrSampleRate, f.cfg.SampleRate, raw.SampleRate)
	}
	data, err := f.FilterData(raw.Data)
	if err != nil {
		return nil, err
	}
	return raw.WithData(data)
}

// Gain returns the magnitude response of the forward-backward filter at
// freq, which is the squared single-pass magnitude.
func (f *Filter) Gain(freq float64) float64 {
	m := biquad.NewChain(f.coeffs).Magnitude(freq, f.cfg.SampleRate)
	return m * m
}
