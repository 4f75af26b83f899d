package cluster

import (
	"io"
	"log/slog"
)

// Default test parameters.
const (
	DefaultPermutations = 100
	DefaultStepDown     = 0.05
	DefaultSeed         = 1
	DefaultAlpha        = 0.05
)

// Config holds test parameters.
type Config struct {
	// Tail is +1 for an upper-tailed test, -1 for lower, 0 for both.
	Tail int
	// Permutations is the number of null samples including the observed one.
	Permutations int
	// StepDown is the p threshold for step-down iterations; 0 disables them.
	StepDown float64
	Seed     uint64
	// Threshold overrides the t threshold when non-nil. Its magnitude is
	// used; the sign follows the tail.
	Threshold *float64
	Logger    *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default test configuration.
func DefaultConfig() Config {
	return Config{
		Tail:         0,
		Permutations: DefaultPermutations,
		StepDown:     DefaultStepDown,
		Seed:         DefaultSeed,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTail selects the tail: +1, -1 or 0.
func WithTail(tail int) Option {
	return func(c *Config) { c.Tail = tail }
}

// WithPermutations sets the number of permutations.
func WithPermutations(n int) Option {
	return func(c *Config) { c.Permutations = n }
}

// WithStepDown sets the step-down p threshold. Zero disables step-down.
func WithStepDown(p float64) Option {
	return func(c *Config) { c.StepDown = p }
}

// WithSeed seeds the sign-flip generator.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithThreshold fixes the cluster-forming t threshold.
func WithThreshold(t float64) Option {
	return func(c *Config) { c.Threshold = &t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
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
