package viz

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-erds/eeg/bands"
	"github.com/cwbudde/algo-erds/eeg/tfr"
)

// Default line-plot palette end points.
const (
	PaletteFrom = "#8e44ad"
	PaletteTo   = "#3498db"
)

// DefaultLinesName is the file name of a line-plot figure without an
// explicit FileName.
const DefaultLinesName = "ERDS_lines.png"

// LinesConfig configures [ERDSLines].
type LinesConfig struct {
	// ChannelOrder sets the panel columns. Empty means tensor order.
	ChannelOrder []string
	Bands        bands.Table
	// Keep lists the bands to draw; rows of other bands are dropped.
	Keep  []string
	Title string
	// Palette colours conditions in first-seen order and is cycled when
	// short. Nil blends PaletteFrom to PaletteTo over the conditions.
	Palette []color.Color
	Boot    int
	CI      float64
	Seed    uint64

	Show      bool
	Save      bool
	FileName  string
	OutputDir string
	DPI       int
	// Size is the whole figure; zero gives 8 x 4 inches per panel.
	Size Size

	Fs     afero.Fs
	Viewer Viewer
	Logger *slog.Logger
}

// DefaultLinesConfig returns alpha and beta of the default band table, 10
// bootstrap resamples for a 95% band, seed 1 and 300 DPI.
func DefaultLinesConfig() LinesConfig {
	return LinesConfig{
		Bands:     bands.Default(),
		Keep:      []string{"alpha", "beta"},
		Title:     "ERDS% curves",
		Boot:      10,
		CI:        0.95,
		Seed:      1,
		Show:      true,
		OutputDir: ".",
		DPI:       300,
		Fs:        afero.NewOsFs(),
		Viewer:    SystemViewer{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ERDSLines renders band-averaged ERDS curves of t in a band x channel grid.
func ERDSLines(t *tfr.Tensor, cfg LinesConfig) (*Figure, error) {
	if t == nil || len(t.Data) == 0 {
		return nil, ErrNoData
	}
	cfg = linesDefaults(cfg)
	if err := cfg.Bands.Validate(); err != nil {
		return nil, err
	}
	keep, err := cfg.Bands.Keep(cfg.Keep...)
	if err != nil {
		return nil, err
	}
	order := cfg.ChannelOrder
	if len(order) == 0 {
		order = t.Channels
	}

	panels, err := Aggregate(tfr.LongFormat(t), keep, order, AggregateConfig{Boot: cfg.Boot, CI: cfg.CI, Seed: cfg.Seed})
	if err != nil {
		return nil, err
	}

	conds := t.Conditions()
	palette := cfg.Palette
	if len(palette) == 0 {
		palette, err = BlendPalette(PaletteFrom, PaletteTo, max(len(conds), 2))
		if err != nil {
			return nil, err
		}
	}
	colors := make(map[string]color.Color, len(conds))
	for i, c := range conds {
		colors[c] = palette[i%len(palette)]
	}

	fig := &Figure{
		Name:     DefaultLinesName,
		Channels: append([]string(nil), order...),
		Panels:   panels,
	}
	if cfg.FileName != "" {
		fig.Name = cfg.FileName
	}
	if err := fig.renderLines(cfg, conds, colors); err != nil {
		return nil, err
	}

	out := output{
		fs:     cfg.Fs,
		dir:    cfg.OutputDir,
		save:   cfg.Save,
		show:   cfg.Show,
		viewer: cfg.Viewer,
		logger: cfg.Logger,
	}
	if err := out.emit(fig); err != nil {
		return nil, err
	}
	return fig, nil
}

func linesDefaults(cfg LinesConfig) LinesConfig {
	def := DefaultLinesConfig()
	if len(cfg.Bands.Bands) == 0 {
		cfg.Bands = def.Bands
	}
	if len(cfg.Keep) == 0 {
		cfg.Keep = def.Keep
	}
	if cfg.CI <= 0 || cfg.CI >= 1 {
		cfg.CI = def.CI
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Fs == nil {
		cfg.Fs = def.Fs
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return cfg
}

func (fig *Figure) renderLines(cfg LinesConfig, conds []string, colors map[string]color.Color) error {
	nRows, nCols := 0, len(fig.Channels)
	for _, p := range fig.Panels {
		nRows = max(nRows, p.Row+1)
	}

	guide := color.NRGBA{A: 128}
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	plots := make([][]*plot.Plot, nRows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, nCols)
	}
	legendLines := make(map[string]*plotter.Line, len(conds))

	for _, pn := range fig.Panels {
		p := plot.New()
		if pn.Row == 0 {
			p.Title.Text = pn.Channel
		}
		if pn.Row == nRows-1 {
			p.X.Label.Text = "Time (s)"
		}
		if pn.Col == 0 {
			p.Y.Label.Text = "ERDS"
		}

		xmin, xmax := math.Inf(1), math.Inf(-1)
		ymin, ymax := 0.0, 0.0
		for _, cv := range pn.Curves {
			col := colors[cv.Condition]
			band := make(plotter.XYs, 0, 2*len(cv.Times))
			mean := make(plotter.XYs, len(cv.Times))
			for i, t := range cv.Times {
				band = append(band, plotter.XY{X: t, Y: cv.Hi[i]})
				mean[i] = plotter.XY{X: t, Y: cv.Mean[i]}
				xmin, xmax = math.Min(xmin, t), math.Max(xmax, t)
				ymin, ymax = math.Min(ymin, cv.Lo[i]), math.Max(ymax, cv.Hi[i])
			}
			for i := len(cv.Times) - 1; i >= 0; i-- {
				band = append(band, plotter.XY{X: cv.Times[i], Y: cv.Lo[i]})
			}

			poly, err := plotter.NewPolygon(band)
			if err != nil {
				return fmt.Errorf("viz: band %s/%s: %w", pn.Band, pn.Channel, err)
			}
			poly.Color = withAlpha(col, 0.2)
			poly.LineStyle.Width = 0
			line, err := plotter.NewLine(mean)
			if err != nil {
				return fmt.Errorf("viz: curve %s/%s: %w", pn.Band, pn.Channel, err)
			}
			line.LineStyle.Color = col
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(poly, line)
			if _, ok := legendLines[cv.Condition]; !ok {
				legendLines[cv.Condition] = line
			}
		}
		if xmin <= xmax {
			zero, err := referenceLine(xmin, 0, xmax, 0, dashes, vg.Points(0.5), guide)
			if err != nil {
				return err
			}
			onset, err := referenceLine(0, ymin, 0, ymax, dashes, vg.Points(0.5), guide)
			if err != nil {
				return err
			}
			p.Add(zero, onset)
		}
		plots[pn.Row][pn.Col] = p
	}
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] == nil {
				plots[r][c] = plot.New()
			}
		}
	}

	size := cfg.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = Inches(8*float64(nCols), 4*float64(nRows)+1)
	}
	img := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(cfg.DPI))
	dc := draw.New(img)
	body := drawTitle(dc, cfg.Title, vg.Points(16))

	legendH := vg.Points(12) * vg.Length(len(conds)+1)
	margin := vg.Points(20)
	grid := draw.Crop(body, 0, -margin, legendH, 0)
	tiles := draw.Tiles{
		Rows: nRows, Cols: nCols,
		PadX: vg.Points(8), PadY: vg.Points(8),
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
	}
	canvases := plot.Align(plots, tiles, grid)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	// Row titles on the right margin.
	sty := plot.New().Title.TextStyle
	sty.Rotation = -math.Pi / 2
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter
	for _, pn := range fig.Panels {
		if pn.Col != nCols-1 {
			continue
		}
		cv := canvases[pn.Row][pn.Col]
		pt := vg.Point{X: cv.Max.X + margin/2, Y: (cv.Min.Y + cv.Max.Y) / 2}
		dc.FillText(sty, pt, pn.Band)
	}

	legend := plot.NewLegend()
	for _, c := range conds {
		if l, ok := legendLines[c]; ok {
			legend.Add(c, l)
		}
	}
	strip := draw.Crop(body, 0, 0, 0, legendH-(body.Max.Y-body.Min.Y))
	lr := legend.Rectangle(strip)
	lw := lr.Max.X - lr.Min.X
	shift := (strip.Max.X-strip.Min.X-lw)/2 - (lr.Min.X - strip.Min.X)
	legend.XOffs = shift
	legend.Draw(strip)

	fig.canvas = img
	return nil
}

func withAlpha(c color.Color, a float64) color.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}
