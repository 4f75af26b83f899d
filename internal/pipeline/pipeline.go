// Package pipeline runs one configured ERDS analysis: load, filter, optional
// resampling, crop, optional ICA, TFR, then figures and the long-format
// export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/eeg/epochs"
	"github.com/cwbudde/algo-erds/eeg/preprocess"
	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/cwbudde/algo-erds/internal/config"
	"github.com/cwbudde/algo-erds/internal/dataset"
	"github.com/cwbudde/algo-erds/internal/logger"
	"github.com/cwbudde/algo-erds/viz"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Result collects what a run produced.
type Result struct {
	RunID   uuid.UUID
	Raw     *eeg.RawSignal
	Markers []eeg.EventMarker
	Tensor  *tfr.Tensor

	Heatmaps []viz.Figure
	Lines    *viz.Figure
	// Exported is the long-format table path, empty when export is off.
	Exported string
}

// Runner executes the analysis described by a validated config.
type Runner struct {
	cfg    *config.Config
	fs     afero.Fs
	viewer viz.Viewer
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithFs resolves inputs and writes outputs through fs.
func WithFs(fs afero.Fs) Option { return func(r *Runner) { r.fs = fs } }

// WithViewer sets the viewer used for shown figures.
func WithViewer(v viz.Viewer) Option { return func(r *Runner) { r.viewer = v } }

// WithLogger sets the run logger.
func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.logger = l } }

// New returns a Runner on the OS file system with the system viewer.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		viewer: viz.SystemViewer{},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every enabled stage in order. ctx is checked between stages.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}

	res := &Result{RunID: uuid.New()}
	log := r.logger.With("run", res.RunID.String())
	log.Info("run started", "raw", r.cfg.Input.Raw, "events", r.cfg.Input.Events)

	stages := []struct {
		name string
		fn   func(*Result, *slog.Logger) error
	}{
		{"load", r.load},
		{"filter", r.filter},
		{"resample", r.resample},
		{"crop", r.crop},
		{"ica", r.ica},
		{"tfr", r.computeTFR},
		{"export", r.export},
		{"heatmaps", r.heatmaps},
		{"lines", r.lines},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", st.name, err)
		}
		start := time.Now()
		if err := st.fn(res, log.With("stage", st.name)); err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", st.name, err)
		}
		log.Debug("stage done", "stage", st.name, "elapsed", time.Since(start))
	}
	log.Info("run finished", "epochs", len(res.Tensor.Events), "figures", len(res.Heatmaps)+btoi(res.Lines != nil))
	return res, nil
}

func (r *Runner) load(res *Result, log *slog.Logger) error {
	in := r.cfg.Input
	raw, err := dataset.ReadRaw(r.fs, in.Raw, in.SampleRate)
	if err != nil {
		return err
	}

	names := raw.Channels
	if len(in.Channels) > 0 {
		names = in.Channels
	}
	opts := []eeg.RawOption{eeg.WithChannelNames(names...)}
	if in.Montage != "" {
		m, err := dataset.ReadMontage(r.fs, in.Montage)
		if err != nil {
			return err
		}
		opts = append(opts, eeg.WithMontage(m))
	}
	raw, err = eeg.NewRawSignal(raw.Data, raw.SampleRate, opts...)
	if err != nil {
		return err
	}

	markers, err := dataset.ReadEvents(r.fs, in.Events)
	if err != nil {
		return err
	}
	res.Raw, res.Markers = raw, markers
	log.Info("recording loaded", "channels", raw.NumChannels(), "samples", raw.Samples(),
		"sfreq", raw.SampleRate, "events", len(markers))
	return nil
}

func (r *Runner) filter(res *Result, log *slog.Logger) error {
	fc := r.cfg.Filter
	if !fc.Enabled {
		return nil
	}
	f, err := preprocess.NewFilter(preprocess.FilterConfig{
		LowCut:     fc.LowCut,
		HighCut:    fc.HighCut,
		NotchFreq:  fc.NotchFreq,
		NotchWidth: fc.NotchWidth,
		SampleRate: res.Raw.SampleRate,
		Order:      fc.Order,
	})
	if err != nil {
		return err
	}
	res.Raw, err = f.Apply(res.Raw)
	if err != nil {
		return err
	}
	log.Info("filtered", "lowcut", fc.LowCut, "highcut", fc.HighCut, "notch", fc.NotchFreq)
	return nil
}

func (r *Runner) resample(res *Result, log *slog.Logger) error {
	rate := r.cfg.Input.Resample
	if rate == 0 || rate == res.Raw.SampleRate {
		return nil
	}
	from := res.Raw.SampleRate
	raw, markers, err := preprocess.Resample(res.Raw, res.Markers, rate)
	if err != nil {
		return err
	}
	res.Raw, res.Markers = raw, markers
	log.Info("resampled", "from", from, "to", raw.SampleRate, "samples", raw.Samples())
	return nil
}

func (r *Runner) crop(res *Result, log *slog.Logger) error {
	tmin := r.cfg.Input.CropStart
	if tmin == 0 {
		return nil
	}
	raw, offset, err := res.Raw.CropTime(tmin)
	if err != nil {
		return err
	}
	before := len(res.Markers)
	res.Raw = raw
	res.Markers = eeg.ShiftMarkers(res.Markers, offset)
	log.Info("cropped", "tmin", tmin, "offset", offset, "events_dropped", before-len(res.Markers))
	return nil
}

func (r *Runner) ica(res *Result, log *slog.Logger) error {
	ic := r.cfg.ICA
	if !ic.Enabled {
		return nil
	}
	model, err := preprocess.FitICA(res.Raw.Data, ic.Components,
		preprocess.WithMaxIter(ic.MaxIter),
		preprocess.WithICASeed(ic.Seed),
		preprocess.WithICALogger(log),
	)
	if err != nil {
		return err
	}
	clean, err := model.Apply(res.Raw.Data, ic.Exclude)
	if err != nil {
		return err
	}
	res.Raw, err = res.Raw.WithData(clean)
	if err != nil {
		return err
	}
	log.Info("ica applied", "components", model.NumComponents(), "excluded", ic.Exclude,
		"iterations", model.Iterations, "converged", model.Converged)
	return nil
}

func (r *Runner) computeTFR(res *Result, log *slog.Logger) error {
	tc := r.cfg.TFR
	grid, err := tfr.NewFrequencyGrid(tc.FMin, tc.FMax, tc.NumFreqs, tfr.ConstantCycles(tc.Cycles))
	if err != nil {
		return err
	}
	method, err := tfr.ParseMethod(tc.Method)
	if err != nil {
		return err
	}

	epochOpts := []epochs.Option{epochs.WithDetrend(tc.Detrend), epochs.WithLogger(log)}
	if len(tc.Picks) > 0 {
		epochOpts = append(epochOpts, epochs.WithPicks(tc.Picks...))
	}
	if tc.Reject > 0 {
		epochOpts = append(epochOpts, epochs.WithReject(tc.Reject))
	}
	opts := []tfr.Option{
		tfr.WithMethod(method),
		tfr.WithTimeBandwidth(tc.TimeBandwidth),
		tfr.WithDecim(tc.Decim),
		tfr.WithEpochOptions(epochOpts...),
		tfr.WithLogger(log),
	}
	if len(tc.Baseline) == 2 {
		mode, err := tfr.ParseMode(tc.BaselineMode)
		if err != nil {
			return err
		}
		opts = append(opts,
			tfr.WithBaseline(tfr.Window{Min: tc.Baseline[0], Max: tc.Baseline[1]}, mode),
			tfr.WithCrop(tfr.Window{Min: tc.TMin, Max: tc.TMax}),
		)
	}

	tmin, tmax := tc.EpochWindow()
	t, err := tfr.ComputeRaw(res.Raw, res.Markers, tmin, tmax, grid, opts...)
	if err != nil {
		return err
	}
	res.Tensor = t
	e, c, f, k := t.Shape()
	log.Info("tfr computed", "method", method.String(), "epochs", e, "channels", c, "freqs", f, "times", k)
	return nil
}

func (r *Runner) export(res *Result, log *slog.Logger) error {
	path := r.cfg.Output.Export
	if path == "" {
		return nil
	}
	if err := dataset.ExportLongFormat(r.fs, path, tfr.LongFormat(res.Tensor)); err != nil {
		return err
	}
	res.Exported = path
	log.Info("long format exported", "path", path)
	return nil
}

func (r *Runner) heatmaps(res *Result, log *slog.Logger) error {
	hc := r.cfg.Heatmap
	if !hc.Enabled {
		return nil
	}
	cfg := viz.DefaultHeatmapConfig()
	cfg.Conditions = hc.Conditions
	cfg.Channels = hc.Channels
	cfg.VMin, cfg.VMax = hc.VMin, hc.VMax
	cfg.Titles = hc.Titles
	cfg.FileNames = hc.FileNames
	cfg.Permutations = hc.Permutations
	cfg.StepDown = hc.StepDown
	cfg.Alpha = hc.Alpha
	cfg.Seed = hc.Seed
	r.output(&cfg.Show, &cfg.Save, &cfg.OutputDir, &cfg.DPI, &cfg.Size)
	cfg.Fs, cfg.Viewer, cfg.Logger = r.fs, r.viewer, log

	figs, err := viz.Heatmaps(res.Tensor, cfg)
	if err != nil {
		return err
	}
	res.Heatmaps = figs
	return nil
}

func (r *Runner) lines(res *Result, log *slog.Logger) error {
	lc := r.cfg.Lines
	if !lc.Enabled {
		return nil
	}
	cfg := viz.DefaultLinesConfig()
	cfg.ChannelOrder = lc.ChannelOrder
	cfg.Bands = lc.BandTable()
	cfg.Keep = lc.Keep
	cfg.Title = lc.Title
	cfg.Boot = lc.Boot
	cfg.CI = lc.CI
	cfg.Seed = lc.Seed
	cfg.FileName = lc.FileName
	n := len(res.Tensor.Conditions())
	palette, err := viz.BlendPalette(lc.PaletteFrom, lc.PaletteTo, n)
	if err != nil {
		return err
	}
	cfg.Palette = palette
	r.output(&cfg.Show, &cfg.Save, &cfg.OutputDir, &cfg.DPI, &cfg.Size)
	cfg.Fs, cfg.Viewer, cfg.Logger = r.fs, r.viewer, log

	fig, err := viz.ERDSLines(res.Tensor, cfg)
	if err != nil {
		return err
	}
	res.Lines = fig
	return nil
}

// output copies the shared output settings into a figure config. A zero
// configured size keeps the figure default.
func (r *Runner) output(show, save *bool, dir *string, dpi *int, size *viz.Size) {
	oc := r.cfg.Output
	*show, *save = oc.Show, oc.Save
	*dir = filepath.Clean(oc.Dir)
	*dpi = oc.DPI
	if oc.Width > 0 && oc.Height > 0 {
		*size = viz.Inches(oc.Width, oc.Height)
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
