package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-erds/dsp/resample"
)

func ExampleNewForRates() {
	r, _ := resample.NewForRates(512, 128)
	up, down := r.Ratio()
	fmt.Printf("ratio=%d/%d len=%d\n", up, down, r.OutputLen(1000))
	// Output:
	// ratio=1/4 len=250
}

func ExampleResample() {
	in := make([]float64, 8)
	out, _ := resample.Resample(in, 3, 2)
	fmt.Printf("in=%d out=%d\n", len(in), len(out))
	// Output:
	// in=8 out=12
}
