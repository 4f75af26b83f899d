package signal

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Detrend order values accepted by [Detrend].
const (
	DetrendNone     = -1
	DetrendConstant = 0
	DetrendLinear   = 1
)

// Detrend removes a polynomial trend from x in place.
//
// Order 0 removes the mean, order 1 removes the least-squares line through
// the samples, -1 leaves x untouched.
func Detrend(x []float64, order int) error {
	switch order {
	case DetrendNone:
		return nil
	case DetrendConstant:
		m := stat.Mean(x, nil)
		for i := range x {
			x[i] -= m
		}
		return nil
	case DetrendLinear:
		if len(x) < 2 {
			return Detrend(x, DetrendConstant)
		}
		idx := make([]float64, len(x))
		for i := range idx {
			idx[i] = float64(i)
		}
		alpha, beta := stat.LinearRegression(idx, x, nil, false)
		for i := range x {
			x[i] -= alpha + beta*float64(i)
		}
		return nil
	default:
		return fmt.Errorf("detrend order must be -1, 0 or 1: %d", order)
	}
}

// DetrendBlock applies [Detrend] to every row of a channels x samples block.
func DetrendBlock(block [][]float64, order int) error {
	for _, row := range block {
		if err := Detrend(row, order); err != nil {
			return err
		}
	}
	return nil
}
