package tfr

import (
	"fmt"
	"math"
)

// timeMask returns the index range [lo, hi) of times inside [w.Min, w.Max].
// Bounds are widened by half a sample so that windows given in seconds
// match the sample grid.
func timeMask(times []float64, sampleRate float64, w Window) (int, int) {
	tol := 0.0
	if sampleRate > 0 {
		tol = 0.5 / sampleRate
	}
	lo, hi := -1, -1
	for i, t := range times {
		if t >= w.Min-tol && t <= w.Max+tol {
			if lo < 0 {
				lo = i
			}
			hi = i + 1
		}
	}
	if lo < 0 {
		return 0, 0
	}
	return lo, hi
}

// Crop returns the time points within [tmin, tmax], both included.
func (t *Tensor) Crop(tmin, tmax float64) (*Tensor, error) {
	if tmin > tmax {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrEmptyWindow, tmin, tmax)
	}
	lo, hi := timeMask(t.Times, t.SampleRate, Window{Min: tmin, Max: tmax})
	if hi <= lo {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrEmptyWindow, tmin, tmax)
	}

	out := t.withAxes(nil)
	out.Times = append([]float64(nil), t.Times[lo:hi]...)
	nE, nC, nF, _ := t.Shape()
	out.Data = make([]float64, 0, nE*nC*nF*(hi-lo))
	for e := 0; e < nE; e++ {
		for c := 0; c < nC; c++ {
			for f := 0; f < nF; f++ {
				out.Data = append(out.Data, t.row(e, c, f)[lo:hi]...)
			}
		}
	}
	return out, nil
}

// Rescale expresses every (epoch, channel, frequency) series relative to
// its mean over the baseline window.
func (t *Tensor) Rescale(baseline Window, mode Mode) (*Tensor, error) {
	if _, ok := modeNames[mode]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrMode, int(mode))
	}
	lo, hi, err := t.baselineRange(baseline)
	if err != nil {
		return nil, err
	}

	out := t.withAxes(append([]float64(nil), t.Data...))
	nE, nC, nF, _ := t.Shape()
	for e := 0; e < nE; e++ {
		for c := 0; c < nC; c++ {
			for f := 0; f < nF; f++ {
				rescaleSeries(out.row(e, c, f), lo, hi, mode)
			}
		}
	}
	return out, nil
}

func (t *Tensor) baselineRange(w Window) (int, int, error) {
	if len(t.Times) == 0 {
		return 0, 0, ErrNoEpochs
	}
	tol := 1e-9
	if t.SampleRate > 0 {
		tol = 0.5 / t.SampleRate
	}
	first, last := t.Times[0], t.Times[len(t.Times)-1]
	if w.Min > w.Max || w.Min < first-tol || w.Max > last+tol || math.IsNaN(w.Min) || math.IsNaN(w.Max) {
		return 0, 0, fmt.Errorf("%w: [%v, %v] not within [%v, %v]", ErrBaselineOutOfRange, w.Min, w.Max, first, last)
	}
	lo, hi := timeMask(t.Times, t.SampleRate, w)
	if hi <= lo {
		return 0, 0, fmt.Errorf("%w: [%v, %v] selects no time points", ErrBaselineOutOfRange, w.Min, w.Max)
	}
	return lo, hi, nil
}
