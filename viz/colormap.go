package viz

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps [0, 1] onto colours by linear interpolation between
// evenly spaced stops.
type Colormap []colorful.Color

// RdBu returns the red-white-blue diverging map, red at 0 and blue at 1.
func RdBu() Colormap {
	return mustHexes(
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
		"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
	)
}

// At returns the colour at x, clamped to [0, 1].
func (m Colormap) At(x float64) colorful.Color {
	if len(m) == 0 {
		return colorful.Color{}
	}
	if len(m) == 1 || math.IsNaN(x) {
		return m[len(m)/2]
	}
	x = math.Max(0, math.Min(1, x))
	pos := x * float64(len(m)-1)
	i := int(pos)
	if i >= len(m)-1 {
		return m[len(m)-1]
	}
	return m[i].BlendRgb(m[i+1], pos-float64(i)).Clamped()
}

// TwoSlopeNorm maps values to [0, 1] with Center at 0.5 and separate
// linear scales below and above it.
type TwoSlopeNorm struct {
	VMin, Center, VMax float64
}

// NewTwoSlopeNorm returns a norm centred at center. vmin must be below vmax;
// a center outside (vmin, vmax) puts the whole range on one slope.
func NewTwoSlopeNorm(vmin, center, vmax float64) (TwoSlopeNorm, error) {
	if !(vmin < vmax) {
		return TwoSlopeNorm{}, fmt.Errorf("%w: [%v, %v]", ErrColorRange, vmin, vmax)
	}
	return TwoSlopeNorm{VMin: vmin, Center: center, VMax: vmax}, nil
}

// Normalize returns the colour position of v.
func (n TwoSlopeNorm) Normalize(v float64) float64 {
	var x float64
	switch {
	case v < n.Center:
		if n.Center <= n.VMin {
			return 0.5
		}
		x = 0.5 * (v - n.VMin) / (n.Center - n.VMin)
	default:
		if n.VMax <= n.Center {
			return 0.5
		}
		x = 0.5 + 0.5*(v-n.Center)/(n.VMax-n.Center)
	}
	return math.Max(0, math.Min(1, x))
}

// BlendPalette returns n colours interpolated from one hex colour to
// another, both ends included.
func BlendPalette(from, to string, n int) ([]color.Color, error) {
	a, err := colorful.Hex(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrColor, from, err)
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrColor, to, err)
	}
	out := make([]color.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = a.BlendRgb(b, t).Clamped()
	}
	return out, nil
}

// dim blends c towards white the way a 10% opaque layer over a white
// background would.
func dim(c colorful.Color) colorful.Color {
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.9)
}

func mustHexes(hexes ...string) Colormap {
	out := make(Colormap, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
