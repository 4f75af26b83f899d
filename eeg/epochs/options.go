package epochs

import (
	"io"
	"log/slog"

	"github.com/cwbudde/algo-erds/dsp/signal"
)

// Config holds epoching parameters.
type Config struct {
	// Picks restricts the epochs to the named channels, in that order.
	Picks []string
	// Reject is the peak-to-peak threshold above which an epoch is dropped.
	// Zero disables rejection.
	Reject float64
	// Detrend is the polynomial order removed from each epoch channel:
	// signal.DetrendConstant, signal.DetrendLinear or signal.DetrendNone.
	Detrend int
	// Preload materialises all epochs in New.
	Preload bool
	Logger  *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns linear detrending, no rejection and lazy loading.
func DefaultConfig() Config {
	return Config{
		Detrend: signal.DetrendLinear,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPicks selects a channel subset.
func WithPicks(names ...string) Option {
	names = append([]string(nil), names...)
	return func(c *Config) {
		c.Picks = names
	}
}

// WithReject sets the peak-to-peak rejection threshold, in the unit of the
// signal. Non-positive values disable rejection.
func WithReject(peakToPeak float64) Option {
	return func(c *Config) {
		if peakToPeak > 0 {
			c.Reject = peakToPeak
		} else {
			c.Reject = 0
		}
	}
}

// WithDetrend sets the detrend order applied to each epoch.
func WithDetrend(order int) Option {
	return func(c *Config) {
		c.Detrend = order
	}
}

// WithPreload disables lazy extraction.
func WithPreload() Option {
	return func(c *Config) {
		c.Preload = true
	}
}

// WithLogger sets the logger used for event-code and drop reports.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// ApplyOptions applies opts on top of DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
