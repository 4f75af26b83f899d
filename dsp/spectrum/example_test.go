package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-erds/dsp/spectrum"
)

func ExampleAccumulatePower() {
	// Mean power over two tapers.
	avg := make([]float64, 2)
	spectrum.AccumulatePower(avg, []complex128{1, 2}, 0.5)
	spectrum.AccumulatePower(avg, []complex128{3, 0}, 0.5)
	fmt.Printf("%.1f %.1f\n", avg[0], avg[1])
	// Output:
	// 5.0 2.0
}
