package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-erds/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f ptp=%.1f\n", s.RMS, s.Range)

	// Output:
	// rms=1.0 ptp=2.0
}

func ExampleMaxPeakToPeak() {
	ch, ptp := timestats.MaxPeakToPeak([][]float64{{0, 20}, {-40, 40}})
	fmt.Printf("channel=%d ptp=%.0f\n", ch, ptp)

	// Output:
	// channel=1 ptp=80
}
