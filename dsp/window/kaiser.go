package window

import (
	"fmt"
	"math"
)

// Kaiser returns a symmetric Kaiser window with shape parameter beta.
// beta = 0 gives a rectangular window.
func Kaiser(size int, beta float64) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	if beta < 0 || math.IsNaN(beta) {
		return nil, fmt.Errorf("kaiser beta must be >= 0: %f", beta)
	}
	out := make([]float64, size)
	if size == 1 {
		out[0] = 1
		return out, nil
	}
	norm := besselI0(beta)
	for i := range out {
		t := 2*float64(i)/float64(size-1) - 1
		out[i] = besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / norm
	}
	return out, nil
}

// besselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4
	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
