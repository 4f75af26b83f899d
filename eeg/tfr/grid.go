package tfr

import (
	"fmt"
	"math"
)

// FrequencyGrid pairs analysis frequencies with the number of wavelet
// cycles used at each one.
type FrequencyGrid struct {
	Freqs  []float64
	Cycles []float64
}

// CycleSpec resolves the cycle count for every frequency of a grid.
type CycleSpec func(freqs []float64) ([]float64, error)

// ConstantCycles uses the same cycle count at every frequency.
func ConstantCycles(c float64) CycleSpec {
	return func(freqs []float64) ([]float64, error) {
		if !(c > 0) {
			return nil, fmt.Errorf("%w: cycles must be > 0: %v", ErrGrid, c)
		}
		out := make([]float64, len(freqs))
		for i := range out {
			out[i] = c
		}
		return out, nil
	}
}

// PerFrequencyCycles gives one cycle count per frequency.
func PerFrequencyCycles(c ...float64) CycleSpec {
	c = append([]float64(nil), c...)
	return func(freqs []float64) ([]float64, error) {
		if len(c) != len(freqs) {
			return nil, fmt.Errorf("%w: %d cycle counts for %d frequencies", ErrGrid, len(c), len(freqs))
		}
		for i, v := range c {
			if !(v > 0) {
				return nil, fmt.Errorf("%w: cycles[%d] must be > 0: %v", ErrGrid, i, v)
			}
		}
		return append([]float64(nil), c...), nil
	}
}

// NewFrequencyGrid returns n evenly spaced frequencies from fmin to fmax,
// both included.
func NewFrequencyGrid(fmin, fmax float64, n int, cycles CycleSpec) (FrequencyGrid, error) {
	if n < 1 {
		return FrequencyGrid{}, fmt.Errorf("%w: need at least one frequency, got %d", ErrGrid, n)
	}
	if !(fmin > 0) || math.IsInf(fmax, 0) || fmax < fmin || (n > 1 && fmax == fmin) {
		return FrequencyGrid{}, fmt.Errorf("%w: range [%v, %v]", ErrGrid, fmin, fmax)
	}
	if cycles == nil {
		return FrequencyGrid{}, fmt.Errorf("%w: no cycle specification", ErrGrid)
	}

	freqs := make([]float64, n)
	if n == 1 {
		freqs[0] = fmin
	} else {
		step := (fmax - fmin) / float64(n-1)
		for i := range freqs {
			freqs[i] = fmin + float64(i)*step
		}
		freqs[n-1] = fmax
	}

	c, err := cycles(freqs)
	if err != nil {
		return FrequencyGrid{}, err
	}
	return FrequencyGrid{Freqs: freqs, Cycles: c}, nil
}

// Len returns the number of frequencies.
func (g FrequencyGrid) Len() int { return len(g.Freqs) }

func (g FrequencyGrid) validate() error {
	if len(g.Freqs) == 0 {
		return fmt.Errorf("%w: empty", ErrGrid)
	}
	if len(g.Cycles) != len(g.Freqs) {
		return fmt.Errorf("%w: %d cycle counts for %d frequencies", ErrGrid, len(g.Cycles), len(g.Freqs))
	}
	for i, f := range g.Freqs {
		if !(f > 0) || !(g.Cycles[i] > 0) {
			return fmt.Errorf("%w: frequency %v with %v cycles", ErrGrid, f, g.Cycles[i])
		}
	}
	return nil
}
