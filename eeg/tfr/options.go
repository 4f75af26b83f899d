package tfr

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/algo-erds/eeg/epochs"
)

// Method selects the wavelet family.
type Method int

const (
	// Multitaper uses DPSS-tapered complex exponentials.
	Multitaper Method = iota
	// Morlet uses Gaussian-enveloped complex exponentials.
	Morlet
)

func (m Method) String() string {
	switch m {
	case Multitaper:
		return "multitaper"
	case Morlet:
		return "morlet"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "multitaper" or "morlet" to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "multitaper", "":
		return Multitaper, nil
	case "morlet":
		return Morlet, nil
	default:
		return 0, fmt.Errorf("tfr: unknown method %q", s)
	}
}

// Window is a closed time interval in seconds.
type Window struct {
	Min, Max float64
}

// Config holds TFR parameters.
type Config struct {
	Method        Method
	TimeBandwidth float64
	Decim         int
	Baseline      *Window
	Mode          Mode
	Crop          *Window
	EpochOptions  []epochs.Option
	Logger        *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns multitaper with time-bandwidth 4, no decimation and
// no baseline.
func DefaultConfig() Config {
	return Config{
		Method:        Multitaper,
		TimeBandwidth: 4,
		Decim:         1,
		Mode:          ModePercent,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMethod selects the wavelet family.
func WithMethod(m Method) Option {
	return func(c *Config) { c.Method = m }
}

// WithTimeBandwidth sets the multitaper time-bandwidth product. The number
// of tapers is floor(tb - 1) and their half bandwidth tb/2.
func WithTimeBandwidth(tb float64) Option {
	return func(c *Config) { c.TimeBandwidth = tb }
}

// WithDecim keeps every n-th time point of the transform.
func WithDecim(n int) Option {
	return func(c *Config) { c.Decim = n }
}

// WithBaseline rescales the cropped tensor against the mean over w.
// It requires WithCrop.
func WithBaseline(w Window, mode Mode) Option {
	return func(c *Config) {
		c.Baseline = &w
		c.Mode = mode
	}
}

// WithCrop restricts the output to w before rescaling. It requires
// WithBaseline.
func WithCrop(w Window) Option {
	return func(c *Config) { c.Crop = &w }
}

// WithEpochOptions forwards options to epochs.New in ComputeRaw.
func WithEpochOptions(opts ...epochs.Option) Option {
	return func(c *Config) { c.EpochOptions = append(c.EpochOptions, opts...) }
}

// WithLogger sets the logger.
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

// Validate checks option consistency. It is called before any computation.
func (c Config) Validate() error {
	if (c.Baseline == nil) != (c.Crop == nil) {
		return ErrBaselineCropMismatch
	}
	if c.Decim < 1 {
		return fmt.Errorf("tfr: decim must be >= 1: %d", c.Decim)
	}
	if c.Method == Multitaper && c.TimeBandwidth < 2 {
		return fmt.Errorf("tfr: time-bandwidth must be >= 2 for at least one taper: %v", c.TimeBandwidth)
	}
	if _, ok := modeNames[c.Mode]; !ok {
		return fmt.Errorf("%w: %d", ErrMode, int(c.Mode))
	}
	if c.Baseline != nil && c.Baseline.Min > c.Baseline.Max {
		return fmt.Errorf("%w: baseline [%v, %v]", ErrBaselineOutOfRange, c.Baseline.Min, c.Baseline.Max)
	}
	if c.Crop != nil && c.Crop.Min > c.Crop.Max {
		return fmt.Errorf("%w: crop [%v, %v]", ErrEmptyWindow, c.Crop.Min, c.Crop.Max)
	}
	return nil
}
