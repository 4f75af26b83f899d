package tfr_test

import (
	"fmt"

	"github.com/cwbudde/algo-erds/eeg/tfr"
)

func ExampleNewFrequencyGrid() {
	grid, err := tfr.NewFrequencyGrid(5, 36, 10, tfr.ConstantCycles(7))
	if err != nil {
		panic(err)
	}
	for _, f := range grid.Freqs {
		fmt.Printf("%.2f ", f)
	}
	fmt.Println()
	// Output:
	// 5.00 8.44 11.89 15.33 18.78 22.22 25.67 29.11 32.56 36.00
}

func ExampleMultitaperWavelets() {
	grid, err := tfr.NewFrequencyGrid(10, 10, 1, tfr.ConstantCycles(7))
	if err != nil {
		panic(err)
	}
	mt, err := tfr.MultitaperWavelets(grid, 512, 4)
	if err != nil {
		panic(err)
	}
	mo, err := tfr.MorletWavelets(grid, 512)
	if err != nil {
		panic(err)
	}
	fmt.Println("multitaper:", mt.NumTapers(), "tapers of", mt.MaxLen(), "samples")
	fmt.Println("morlet:", mo.NumTapers(), "kernel of", mo.MaxLen(), "samples")
	// Output:
	// multitaper: 3 tapers of 359 samples
	// morlet: 1 kernel of 571 samples
}
