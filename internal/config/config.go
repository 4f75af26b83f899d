// Package config loads the analysis configuration from YAML, a .env file and
// ERDS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/cwbudde/algo-erds/eeg/bands"
	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ERDS_TFR_FMIN.
const EnvPrefix = "ERDS"

// Config represents the complete analysis configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Filter  FilterConfig  `mapstructure:"filter"`
	ICA     ICAConfig     `mapstructure:"ica"`
	TFR     TFRConfig     `mapstructure:"tfr"`
	Heatmap HeatmapConfig `mapstructure:"heatmap"`
	Lines   LinesConfig   `mapstructure:"lines"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InputConfig names the recording, event table and optional montage
type InputConfig struct {
	Raw        string  `mapstructure:"raw"`
	Events     string  `mapstructure:"events"`
	Montage    string  `mapstructure:"montage"`
	SampleRate float64 `mapstructure:"sample_rate"`
	// Channels renames the recording's channels in order.
	Channels  []string `mapstructure:"channels"`
	CropStart float64  `mapstructure:"crop_start"`
	// Resample is the target rate in Hz after filtering; 0 keeps the
	// recording rate.
	Resample float64 `mapstructure:"resample"`
}

// FilterConfig holds the bandpass and notch settings
type FilterConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	LowCut     float64 `mapstructure:"lowcut"`
	HighCut    float64 `mapstructure:"highcut"`
	NotchFreq  float64 `mapstructure:"notch_freq"`
	NotchWidth float64 `mapstructure:"notch_width"`
	Order      int     `mapstructure:"order"`
}

// ICAConfig holds artifact removal settings
type ICAConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Components int    `mapstructure:"components"`
	Exclude    []int  `mapstructure:"exclude"`
	MaxIter    int    `mapstructure:"max_iter"`
	Seed       uint64 `mapstructure:"seed"`
}

// TFRConfig holds epoching and time-frequency settings. Epochs span
// [TMin-Pad, TMax+Pad] and are cropped back to [TMin, TMax] before the
// baseline correction.
type TFRConfig struct {
	TMin          float64   `mapstructure:"tmin"`
	TMax          float64   `mapstructure:"tmax"`
	Pad           float64   `mapstructure:"pad"`
	FMin          float64   `mapstructure:"fmin"`
	FMax          float64   `mapstructure:"fmax"`
	NumFreqs      int       `mapstructure:"num_freqs"`
	Cycles        float64   `mapstructure:"cycles"`
	Method        string    `mapstructure:"method"`
	TimeBandwidth float64   `mapstructure:"time_bandwidth"`
	Decim         int       `mapstructure:"decim"`
	Picks         []string  `mapstructure:"picks"`
	Reject        float64   `mapstructure:"reject"`
	Detrend       int       `mapstructure:"detrend"`
	Baseline      []float64 `mapstructure:"baseline"`
	BaselineMode  string    `mapstructure:"baseline_mode"`
}

// HeatmapConfig holds the cluster-masked heatmap settings
type HeatmapConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Conditions   []string `mapstructure:"conditions"`
	Channels     []string `mapstructure:"channels"`
	VMin         *float64 `mapstructure:"vmin"`
	VMax         *float64 `mapstructure:"vmax"`
	Titles       []string `mapstructure:"titles"`
	FileNames    []string `mapstructure:"file_names"`
	Permutations int      `mapstructure:"permutations"`
	StepDown     float64  `mapstructure:"step_down"`
	Alpha        float64  `mapstructure:"alpha"`
	Seed         uint64   `mapstructure:"seed"`
}

// LinesConfig holds the ERDS line plot settings
type LinesConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	ChannelOrder []string `mapstructure:"channel_order"`
	Keep         []string `mapstructure:"keep"`
	Title        string   `mapstructure:"title"`
	PaletteFrom  string   `mapstructure:"palette_from"`
	PaletteTo    string   `mapstructure:"palette_to"`
	Boot         int      `mapstructure:"boot"`
	CI           float64  `mapstructure:"ci"`
	Seed         uint64   `mapstructure:"seed"`
	FileName     string   `mapstructure:"file_name"`
	// BandLower and Bands replace the default band table when Bands is
	// non-empty. Each band covers (previous upper, upper].
	BandLower float64      `mapstructure:"band_lower"`
	Bands     []BandConfig `mapstructure:"bands"`
}

// BandConfig is one row of the line plot band table
type BandConfig struct {
	Name  string  `mapstructure:"name"`
	Upper float64 `mapstructure:"upper"`
}

// BandTable returns the configured band table, or the default EEG bands
// when none is configured.
func (l LinesConfig) BandTable() bands.Table {
	if len(l.Bands) == 0 {
		return bands.Default()
	}
	t := bands.Table{Lower: l.BandLower, Bands: make([]bands.Band, len(l.Bands))}
	for i, b := range l.Bands {
		t.Bands[i] = bands.Band{Name: b.Name, Upper: b.Upper}
	}
	return t
}

// OutputConfig controls where figures and tables go
type OutputConfig struct {
	Dir    string  `mapstructure:"dir"`
	DPI    int     `mapstructure:"dpi"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Show   bool    `mapstructure:"show"`
	Save   bool    `mapstructure:"save"`
	// Export is an optional .csv or .xlsx path for the long-format table.
	Export string `mapstructure:"export"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. A .env file
// in the working directory, when present, is loaded into the environment
// first. An empty path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load with the config file and .env resolved through fsys.
// Variables already present in the environment win over .env entries.
func LoadFs(fsys afero.Fs, path string) (*Config, error) {
	if err := loadDotEnv(fsys, ".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fsys)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv(fsys afero.Fs, name string) error {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open .env: %w", err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	for k, val := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.raw", "")
	v.SetDefault("input.events", "")
	v.SetDefault("input.montage", "")
	v.SetDefault("input.sample_rate", 512.0)
	v.SetDefault("input.channels", []string{})
	v.SetDefault("input.crop_start", 0.0)
	v.SetDefault("input.resample", 0.0)

	v.SetDefault("filter.enabled", true)
	v.SetDefault("filter.lowcut", 1.0)
	v.SetDefault("filter.highcut", 40.0)
	v.SetDefault("filter.notch_freq", 50.0)
	v.SetDefault("filter.notch_width", 2.0)
	v.SetDefault("filter.order", 4)

	v.SetDefault("ica.enabled", false)
	v.SetDefault("ica.components", 30)
	v.SetDefault("ica.exclude", []int{})
	v.SetDefault("ica.max_iter", 200)
	v.SetDefault("ica.seed", 1)

	v.SetDefault("tfr.tmin", -3.0)
	v.SetDefault("tfr.tmax", 5.0)
	v.SetDefault("tfr.pad", 0.5)
	v.SetDefault("tfr.fmin", 5.0)
	v.SetDefault("tfr.fmax", 36.0)
	v.SetDefault("tfr.num_freqs", 30)
	v.SetDefault("tfr.cycles", 20.0)
	v.SetDefault("tfr.method", "multitaper")
	v.SetDefault("tfr.time_bandwidth", 4.0)
	v.SetDefault("tfr.decim", 1)
	v.SetDefault("tfr.picks", []string{"C3", "C4"})
	v.SetDefault("tfr.reject", 100.0)
	v.SetDefault("tfr.detrend", 1)
	v.SetDefault("tfr.baseline", []float64{-3, -1})
	v.SetDefault("tfr.baseline_mode", "percent")

	v.SetDefault("heatmap.enabled", true)
	v.SetDefault("heatmap.conditions", []string{})
	v.SetDefault("heatmap.channels", []string{})
	v.SetDefault("heatmap.titles", []string{})
	v.SetDefault("heatmap.file_names", []string{})
	v.SetDefault("heatmap.permutations", 100)
	v.SetDefault("heatmap.step_down", 0.05)
	v.SetDefault("heatmap.alpha", 0.05)
	v.SetDefault("heatmap.seed", 1)

	v.SetDefault("lines.enabled", true)
	v.SetDefault("lines.channel_order", []string{})
	v.SetDefault("lines.keep", []string{"alpha", "beta"})
	v.SetDefault("lines.title", "ERDS% curves")
	v.SetDefault("lines.palette_from", "#8e44ad")
	v.SetDefault("lines.palette_to", "#3498db")
	v.SetDefault("lines.boot", 10)
	v.SetDefault("lines.ci", 0.95)
	v.SetDefault("lines.seed", 1)
	v.SetDefault("lines.file_name", "ERDS_lines.png")
	v.SetDefault("lines.band_lower", 0.0)

	v.SetDefault("output.dir", "figures")
	v.SetDefault("output.dpi", 300)
	v.SetDefault("output.width", 0.0)
	v.SetDefault("output.height", 0.0)
	v.SetDefault("output.show", false)
	v.SetDefault("output.save", true)
	v.SetDefault("output.export", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Input
	if c.Input.Raw == "" {
		return fmt.Errorf("input.raw is required")
	}
	if c.Input.Events == "" {
		return fmt.Errorf("input.events is required")
	}
	if c.Input.SampleRate < 0 {
		return fmt.Errorf("input.sample_rate must not be negative")
	}
	if c.Input.CropStart < 0 {
		return fmt.Errorf("input.crop_start must not be negative")
	}
	if c.Input.Resample < 0 {
		return fmt.Errorf("input.resample must not be negative")
	}

	// Filter
	if c.Filter.Enabled {
		if c.Filter.LowCut <= 0 || c.Filter.HighCut <= c.Filter.LowCut {
			return fmt.Errorf("filter.lowcut must be > 0 and below filter.highcut")
		}
		if c.Filter.NotchFreq < 0 || (c.Filter.NotchFreq > 0 && c.Filter.NotchWidth <= 0) {
			return fmt.Errorf("filter.notch_width must be > 0 when the notch is enabled")
		}
		if c.Filter.Order < 1 {
			return fmt.Errorf("filter.order must be at least 1")
		}
	}

	// ICA
	if c.ICA.Enabled {
		if c.ICA.Components < 1 {
			return fmt.Errorf("ica.components must be at least 1")
		}
		for _, e := range c.ICA.Exclude {
			if e < 0 || e >= c.ICA.Components {
				return fmt.Errorf("ica.exclude entry %d outside [0, %d)", e, c.ICA.Components)
			}
		}
	}

	// TFR
	t := c.TFR
	if t.TMin >= t.TMax {
		return fmt.Errorf("tfr.tmin must be below tfr.tmax")
	}
	if t.Pad < 0 {
		return fmt.Errorf("tfr.pad must not be negative")
	}
	if t.FMin <= 0 || t.FMax < t.FMin {
		return fmt.Errorf("tfr.fmin must be > 0 and not above tfr.fmax")
	}
	if t.NumFreqs < 1 {
		return fmt.Errorf("tfr.num_freqs must be at least 1")
	}
	if t.Cycles <= 0 {
		return fmt.Errorf("tfr.cycles must be > 0")
	}
	if _, err := tfr.ParseMethod(t.Method); err != nil {
		return fmt.Errorf("tfr.method: %w", err)
	}
	if t.Decim < 1 {
		return fmt.Errorf("tfr.decim must be at least 1")
	}
	if t.Reject < 0 {
		return fmt.Errorf("tfr.reject must not be negative")
	}
	if t.Detrend < -1 || t.Detrend > 1 {
		return fmt.Errorf("tfr.detrend must be -1, 0 or 1")
	}
	if n := len(t.Baseline); n != 0 {
		if n != 2 || t.Baseline[0] >= t.Baseline[1] {
			return fmt.Errorf("tfr.baseline must be an increasing [min, max] pair")
		}
		if t.Baseline[0] < t.TMin || t.Baseline[1] > t.TMax {
			return fmt.Errorf("tfr.baseline must lie inside [tfr.tmin, tfr.tmax]")
		}
		if _, err := tfr.ParseMode(t.BaselineMode); err != nil {
			return fmt.Errorf("tfr.baseline_mode: %w", err)
		}
	}

	// Heatmap
	if c.Heatmap.Enabled {
		if c.Heatmap.Permutations < 1 {
			return fmt.Errorf("heatmap.permutations must be at least 1")
		}
		if c.Heatmap.Alpha <= 0 || c.Heatmap.Alpha >= 1 {
			return fmt.Errorf("heatmap.alpha must be between 0 and 1")
		}
		if c.Heatmap.VMin != nil && c.Heatmap.VMax != nil && *c.Heatmap.VMin >= *c.Heatmap.VMax {
			return fmt.Errorf("heatmap.vmin must be below heatmap.vmax")
		}
	}

	// Lines
	if c.Lines.Enabled {
		if c.Lines.Boot < 1 {
			return fmt.Errorf("lines.boot must be at least 1")
		}
		if c.Lines.CI <= 0 || c.Lines.CI >= 1 {
			return fmt.Errorf("lines.ci must be between 0 and 1")
		}
		if err := c.Lines.BandTable().Validate(); err != nil {
			return fmt.Errorf("lines.bands: %w", err)
		}
		if _, err := c.Lines.BandTable().Keep(c.Lines.Keep...); err != nil {
			return fmt.Errorf("lines.keep: %w", err)
		}
	}

	// Output
	if c.Output.DPI < 1 {
		return fmt.Errorf("output.dpi must be at least 1")
	}
	if (c.Output.Width == 0) != (c.Output.Height == 0) || c.Output.Width < 0 || c.Output.Height < 0 {
		return fmt.Errorf("output.width and output.height must both be set or both be 0")
	}

	// Logging
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// EpochWindow returns the padded epoch interval.
func (t TFRConfig) EpochWindow() (tmin, tmax float64) {
	return t.TMin - t.Pad, t.TMax + t.Pad
}
