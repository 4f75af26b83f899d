// Package window provides the tapers used for spectral estimation:
// Gaussian envelopes, Kaiser windows and DPSS (Slepian) sequences.
package window

import "math"

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form: the window is computed for
// length+1 points and the last one is dropped.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Gaussian returns a symmetric Gaussian window whose standard deviation is
// sigma samples.
func Gaussian(size int, sigma float64) ([]float64, error) {
	if err := validateGauss(size, sigma); err != nil {
		return nil, err
	}
	center := float64(size-1) / 2
	out := make([]float64, size)
	for i := range out {
		d := (float64(i) - center) / sigma
		out[i] = math.Exp(-0.5 * d * d)
	}
	return out, nil
}
