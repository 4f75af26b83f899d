package resample

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrRatio indicates an invalid up/down ratio.
	ErrRatio = errors.New("resample: invalid ratio")
	// ErrRate indicates an invalid input or output sample rate.
	ErrRate = errors.New("resample: invalid sample rate")
	// ErrConfig indicates unusable filter settings.
	ErrConfig = errors.New("resample: invalid filter config")
)

// Config holds the anti-aliasing filter settings.
type Config struct {
	// TapsPerPhase sets the filter length: TapsPerPhase*max(up, down)+1 taps.
	TapsPerPhase int
	// CutoffScale scales the cutoff below the lower Nyquist rate, in (0, 1].
	CutoffScale float64
	// KaiserBeta shapes the Kaiser window of the prototype.
	KaiserBeta float64
	// MaxDenominator caps the denominator when approximating a rate ratio.
	MaxDenominator int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 32 taps per phase, a cutoff at 92% of the lower
// Nyquist rate and beta 7.5, about 75 dB of stopband attenuation.
func DefaultConfig() Config {
	return Config{
		TapsPerPhase:   32,
		CutoffScale:    0.92,
		KaiserBeta:     7.5,
		MaxDenominator: 4096,
	}
}

// WithTapsPerPhase overrides the filter length per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(c *Config) { c.TapsPerPhase = n }
}

// WithCutoffScale overrides the normalized cutoff scaling.
func WithCutoffScale(v float64) Option {
	return func(c *Config) { c.CutoffScale = v }
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(c *Config) { c.KaiserBeta = beta }
}

// WithMaxDenominator caps the denominator of rate-ratio approximations.
func WithMaxDenominator(n int) Option {
	return func(c *Config) { c.MaxDenominator = n }
}

// ApplyOptions applies opts over DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether the filter can be designed.
func (c Config) Validate() error {
	switch {
	case c.TapsPerPhase < 2:
		return fmt.Errorf("%w: taps per phase %d", ErrConfig, c.TapsPerPhase)
	case !(c.CutoffScale > 0) || c.CutoffScale > 1:
		return fmt.Errorf("%w: cutoff scale %v", ErrConfig, c.CutoffScale)
	case c.KaiserBeta < 0:
		return fmt.Errorf("%w: kaiser beta %v", ErrConfig, c.KaiserBeta)
	case c.MaxDenominator < 1:
		return fmt.Errorf("%w: max denominator %d", ErrConfig, c.MaxDenominator)
	}
	return nil
}

// Resampler converts signals by the reduced ratio up/down.
type Resampler struct {
	up, down int
	taps     []float64
	delay    int
}

// New designs a resampler for ratio up/down.
func New(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrRatio, up, down)
	}
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := gcd(up, down)
	up, down = up/g, down/g

	taps, err := prototype(up, down, cfg)
	if err != nil {
		return nil, err
	}
	return &Resampler{up: up, down: down, taps: taps, delay: len(taps) / 2}, nil
}

// NewForRates designs a resampler by approximating outRate/inRate as a
// ratio of integers.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %v -> %v Hz", ErrRate, inRate, outRate)
	}
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	up, down := approximateRatio(outRate/inRate, cfg.MaxDenominator)
	return New(up, down, opts...)
}

// Resample converts input by up/down in one call.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	r, err := New(up, down, opts...)
	if err != nil {
		return nil, err
	}
	return r.Apply(input), nil
}

// Ratio returns the reduced conversion factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// Taps returns a copy of the prototype filter.
func (r *Resampler) Taps() []float64 { return append([]float64(nil), r.taps...) }

// OutputLen returns the number of samples Apply produces for n inputs.
func (r *Resampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*r.up + r.down - 1) / r.down
}

// Apply returns x at the new rate. Output sample i is the filtered,
// zero-stuffed input evaluated at upsampled index i*down.
func (r *Resampler) Apply(x []float64) []float64 {
	n := len(x)
	out := make([]float64, r.OutputLen(n))
	for i := range out {
		j := i*r.down + r.delay
		var y float64
		for k := j % r.up; k < len(r.taps); k += r.up {
			p := (j - k) / r.up
			if p < 0 {
				break
			}
			if p < n {
				y += r.taps[k] * x[p]
			}
		}
		out[i] = y
	}
	return out
}

// ApplyRows resamples every row of data.
func (r *Resampler) ApplyRows(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = r.Apply(row)
	}
	return out
}
