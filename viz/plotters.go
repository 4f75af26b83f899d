package viz

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/algo-erds/stats/cluster"
)

// tfrImage draws a freq x time grid as filled cells.
type tfrImage struct {
	values [][]float64
	mask   cluster.Mask
	xEdges []float64
	yEdges []float64
	norm   TwoSlopeNorm
	cmap   Colormap
}

var (
	_ plot.Plotter    = (*tfrImage)(nil)
	_ plot.DataRanger = (*tfrImage)(nil)
)

func (h *tfrImage) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for f, row := range h.values {
		y0, y1 := trY(h.yEdges[f]), trY(h.yEdges[f+1])
		for k, v := range row {
			col := h.cmap.At(h.norm.Normalize(v))
			if h.mask != nil && !h.mask[f][k] {
				col = dim(col)
			}
			x0, x1 := trX(h.xEdges[k]), trX(h.xEdges[k+1])
			c.FillPolygon(col, rect(x0, x1, y0, y1))
		}
	}
}

func (h *tfrImage) DataRange() (xmin, xmax, ymin, ymax float64) {
	return h.xEdges[0], h.xEdges[len(h.xEdges)-1], h.yEdges[0], h.yEdges[len(h.yEdges)-1]
}

// colorBar draws the colour scale of a norm over [vmin, vmax] on the
// y axis.
type colorBar struct {
	norm  TwoSlopeNorm
	cmap  Colormap
	steps int
}

func (b *colorBar) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	x0, x1 := trX(0), trX(1)
	span := b.norm.VMax - b.norm.VMin
	for i := 0; i < b.steps; i++ {
		lo := b.norm.VMin + span*float64(i)/float64(b.steps)
		hi := b.norm.VMin + span*float64(i+1)/float64(b.steps)
		col := b.cmap.At(b.norm.Normalize((lo + hi) / 2))
		c.FillPolygon(col, rect(x0, x1, trY(lo), trY(hi)))
	}
}

func (b *colorBar) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, b.norm.VMin, b.norm.VMax
}

// blankTicks keeps tick marks but drops their labels.
type blankTicks struct{ plot.Ticker }

func (b blankTicks) Ticks(min, max float64) []plot.Tick {
	ticks := b.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

func rect(x0, x1, y0, y1 vg.Length) []vg.Point {
	return []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// referenceLine returns a line segment styled as a guide.
func referenceLine(x0, y0, x1, y1 float64, dashes []vg.Length, width vg.Length, c color.Color) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = width
	l.LineStyle.Dashes = dashes
	return l, nil
}

// cellEdges returns n+1 boundaries centred on the n axis values.
func cellEdges(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n+1)
	if n == 1 {
		out[0], out[1] = v[0]-0.5, v[0]+0.5
		return out
	}
	out[0] = v[0] - (v[1]-v[0])/2
	for i := 1; i < n; i++ {
		out[i] = (v[i-1] + v[i]) / 2
	}
	out[n] = v[n-1] + (v[n-1]-v[n-2])/2
	return out
}
