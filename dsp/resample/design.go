package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-erds/dsp/window"
)

// prototype designs the lowpass at the upsampled rate. Its taps sum to up,
// which restores unit gain after zero stuffing.
func prototype(up, down int, cfg Config) ([]float64, error) {
	m := max(up, down)
	half := cfg.TapsPerPhase / 2 * m
	n := 2*half + 1

	fc := 0.5 / float64(m) * cfg.CutoffScale
	win, err := window.Kaiser(n, cfg.KaiserBeta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	taps := make([]float64, n)
	sum := 0.0
	for i := range taps {
		t := float64(i - half)
		taps[i] = 2 * fc * sinc(2*fc*t) * win[i]
		sum += taps[i]
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: zero-sum filter", ErrConfig)
	}
	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}
	return taps, nil
}

// approximateRatio returns the continued-fraction convergent of v with the
// largest denominator not above maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v
	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)
		p2, q2 := a*p1+p0, a*q1+q0
		if q2 > float64(maxDen) {
			break
		}
		p0, q0, p1, q1 = p1, q1, p2, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		a = -a
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
