package bands_test

import (
	"fmt"

	"github.com/cwbudde/algo-erds/eeg/bands"
)

func ExampleTable_Label() {
	tbl := bands.Default()
	for _, f := range []float64{2, 10, 13, 20} {
		name, _ := tbl.Label(f)
		fmt.Println(f, name)
	}
	// Output:
	// 2 delta
	// 10 alpha
	// 13 alpha
	// 20 beta
}
