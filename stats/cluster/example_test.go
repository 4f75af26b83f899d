package cluster_test

import (
	"fmt"

	"github.com/cwbudde/algo-erds/stats/cluster"
)

func ExampleOneSample() {
	// Eight observations of a 1 x 4 grid with an effect in the middle.
	data := make([][][]float64, 8)
	for o := range data {
		jitter := float64(o%3) * 0.1
		flip := float64(1 - 2*(o%2))
		data[o] = [][]float64{{0.3 * flip, 3 + jitter, 3.2 - jitter, -0.2 * flip}}
	}
	res, err := cluster.OneSample(data, cluster.WithTail(1), cluster.WithPermutations(256))
	if err != nil {
		panic(err)
	}
	fmt.Println("null samples:", len(res.Null))
	fmt.Println("mask:", res.Mask(0.05)[0])
	// Output:
	// null samples: 256
	// mask: [false true true false]
}
