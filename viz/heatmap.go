package viz

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/cwbudde/algo-erds/stats/cluster"
)

// HeatmapConfig configures [Heatmaps].
type HeatmapConfig struct {
	// Conditions to draw, one figure each. Empty means all conditions in
	// first-seen order.
	Conditions []string
	// Channels to draw, one column each. Empty means all channels.
	Channels []string
	// VMin and VMax bound the colour scale, which is centred at 0. A nil
	// bound is taken from the data of the figure.
	VMin, VMax *float64
	// Titles and FileNames, when set, need one entry per condition.
	Titles    []string
	FileNames []string

	Show      bool
	Save      bool
	OutputDir string
	DPI       int
	Size      Size

	// Cluster test parameters.
	Permutations int
	StepDown     float64
	Alpha        float64
	Seed         uint64

	Fs     afero.Fs
	Viewer Viewer
	Logger *slog.Logger
}

// DefaultHeatmapConfig returns a colour range of [-1, 1.5], 100
// permutations with step-down at 0.05, seed 1, 300 DPI and 12 x 4 inches.
func DefaultHeatmapConfig() HeatmapConfig {
	vmin, vmax := -1.0, 1.5
	return HeatmapConfig{
		VMin:         &vmin,
		VMax:         &vmax,
		Show:         true,
		OutputDir:    ".",
		DPI:          300,
		Size:         Inches(12, 4),
		Permutations: cluster.DefaultPermutations,
		StepDown:     cluster.DefaultStepDown,
		Alpha:        cluster.DefaultAlpha,
		Seed:         cluster.DefaultSeed,
		Fs:           afero.NewOsFs(),
		Viewer:       SystemViewer{},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// HeatmapName returns the default file name of a heatmap figure.
func HeatmapName(condition string, channels []string) string {
	return fmt.Sprintf("tfr_%s_ch%s.png", condition, strings.Join(channels, "-"))
}

// Heatmaps renders one ERDS figure per condition of t.
func Heatmaps(t *tfr.Tensor, cfg HeatmapConfig) ([]Figure, error) {
	if t == nil || len(t.Data) == 0 {
		return nil, ErrNoData
	}
	cfg = heatmapDefaults(cfg)

	conds := cfg.Conditions
	if len(conds) == 0 {
		conds = t.Conditions()
	}
	if len(cfg.Titles) > 0 && len(cfg.Titles) < len(conds) {
		return nil, fmt.Errorf("%w: %d titles for %d conditions", ErrNameCount, len(cfg.Titles), len(conds))
	}
	if len(cfg.FileNames) > 0 && len(cfg.FileNames) < len(conds) {
		return nil, fmt.Errorf("%w: %d file names for %d conditions", ErrNameCount, len(cfg.FileNames), len(conds))
	}
	chans := cfg.Channels
	if len(chans) == 0 {
		chans = t.Channels
	}
	for _, ch := range chans {
		if _, err := t.ChannelIndex(ch); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
		}
	}

	out := output{
		fs:     cfg.Fs,
		dir:    cfg.OutputDir,
		save:   cfg.Save,
		show:   cfg.Show,
		viewer: cfg.Viewer,
		logger: cfg.Logger,
	}

	figs := make([]Figure, 0, len(conds))
	for i, cond := range conds {
		fig, err := heatmapFigure(t, cond, chans, cfg)
		if err != nil {
			return nil, err
		}
		title := fmt.Sprintf("Time/Frequency (%s)", cond)
		if len(cfg.Titles) > 0 {
			title = cfg.Titles[i]
		}
		fig.Name = HeatmapName(cond, chans)
		if len(cfg.FileNames) > 0 {
			fig.Name = cfg.FileNames[i]
		}
		if err := fig.render(title, cfg); err != nil {
			return nil, err
		}
		if err := out.emit(fig); err != nil {
			return nil, err
		}
		figs = append(figs, *fig)
	}
	return figs, nil
}

func heatmapDefaults(cfg HeatmapConfig) HeatmapConfig {
	def := DefaultHeatmapConfig()
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 {
		cfg.Size = def.Size
	}
	if cfg.Permutations <= 0 {
		cfg.Permutations = def.Permutations
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = def.Alpha
	}
	if cfg.Fs == nil {
		cfg.Fs = def.Fs
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return cfg
}

// heatmapFigure computes the averages and masks of one condition.
func heatmapFigure(t *tfr.Tensor, cond string, chans []string, cfg HeatmapConfig) (*Figure, error) {
	sel, err := t.Select(cond)
	if err != nil {
		return nil, err
	}
	sel, err = sel.PickChannels(chans)
	if err != nil {
		return nil, err
	}
	avg, err := sel.Average()
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Condition: cond,
		Channels:  append([]string(nil), chans...),
		Average:   avg,
		Masks:     make([]cluster.Mask, len(chans)),
	}
	for c, ch := range chans {
		series, err := sel.Series(ch)
		if err != nil {
			return nil, err
		}
		mask, err := cluster.TwoTailedMask(series, cfg.Alpha,
			cluster.WithPermutations(cfg.Permutations),
			cluster.WithStepDown(cfg.StepDown),
			cluster.WithSeed(cfg.Seed),
			cluster.WithLogger(cfg.Logger))
		switch {
		case errors.Is(err, cluster.ErrTooFewObservations):
			cfg.Logger.Warn("too few epochs for cluster test, drawing unmasked", "condition", cond, "channel", ch)
		case err != nil:
			return nil, fmt.Errorf("viz: cluster test %s/%s: %w", cond, ch, err)
		default:
			fig.Masks[c] = mask
		}
	}

	fig.VMin, fig.VMax = math.Inf(1), math.Inf(-1)
	for _, v := range avg.Data {
		fig.VMin = math.Min(fig.VMin, v)
		fig.VMax = math.Max(fig.VMax, v)
	}
	if cfg.VMin != nil {
		fig.VMin = *cfg.VMin
	}
	if cfg.VMax != nil {
		fig.VMax = *cfg.VMax
	}
	return fig, nil
}

// render draws the channel panels and colour bar of fig with width
// ratios 10:...:10:1 under a figure title.
func (fig *Figure) render(title string, cfg HeatmapConfig) error {
	norm, err := NewTwoSlopeNorm(fig.VMin, 0, fig.VMax)
	if err != nil {
		return fmt.Errorf("viz: %s: %w", fig.Condition, err)
	}
	cmap := RdBu()
	avg := fig.Average
	xEdges := cellEdges(avg.Times)
	yEdges := cellEdges(avg.Freqs)

	panels := make([]*plot.Plot, 0, len(fig.Channels)+1)
	for c, ch := range fig.Channels {
		p := plot.New()
		p.Title.Text = ch
		p.Title.TextStyle.Font.Size = vg.Points(10)
		p.X.Label.Text = "Time (s)"
		p.Y.Label.Text = "Frequency (Hz)"
		if c != 0 {
			p.Y.Label.Text = ""
			p.Y.Tick.Marker = blankTicks{p.Y.Tick.Marker}
		}
		p.Add(&tfrImage{
			values: avg.Channel(c),
			mask:   fig.Masks[c],
			xEdges: xEdges,
			yEdges: yEdges,
			norm:   norm,
			cmap:   cmap,
		})
		if xEdges[0] <= 0 && 0 <= xEdges[len(xEdges)-1] {
			onset, err := referenceLine(0, yEdges[0], 0, yEdges[len(yEdges)-1],
				[]vg.Length{vg.Points(1), vg.Points(1.5)}, vg.Points(1), color.Black)
			if err != nil {
				return err
			}
			p.Add(onset)
		}
		p.X.Min, p.X.Max = xEdges[0], xEdges[len(xEdges)-1]
		p.Y.Min, p.Y.Max = yEdges[0], yEdges[len(yEdges)-1]
		panels = append(panels, p)
	}

	bar := plot.New()
	bar.Title.Text = "ERS"
	bar.Title.TextStyle.Font.Size = vg.Points(10)
	bar.X.Label.Text = "ERD"
	bar.X.Label.TextStyle.Font.Size = vg.Points(10)
	bar.X.Tick.Marker = plot.ConstantTicks(nil)
	bar.Add(&colorBar{norm: norm, cmap: cmap, steps: 256})
	bar.X.Min, bar.X.Max = 0, 1
	bar.Y.Min, bar.Y.Max = norm.VMin, norm.VMax
	panels = append(panels, bar)

	w, h := cfg.Size.Width, cfg.Size.Height
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(cfg.DPI))
	dc := draw.New(img)
	body := drawTitle(dc, title, vg.Points(16))

	bw := body.Max.X - body.Min.X
	unit := bw / vg.Length(10*len(fig.Channels)+1)
	x := vg.Length(0)
	for i, p := range panels {
		width := 10 * unit
		if i == len(panels)-1 {
			width = unit
		}
		p.Draw(draw.Crop(body, x, x+width-bw, 0, 0))
		x += width
	}
	fig.canvas = img
	return nil
}

// drawTitle writes a centred title at the top of dc and returns the
// canvas below it.
func drawTitle(dc draw.Canvas, title string, size vg.Length) draw.Canvas {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = size
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	pad := size / 2
	top := dc.Max.Y - pad
	dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: top}, title)
	return draw.Crop(dc, 0, 0, 0, -(2*size + pad))
}
