package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

// getScratch returns re, im and a power buffer of length n each.
func getScratch(n int) (re, im, pow []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 3 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n : 2*n], buf.data[2*n : need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func split(re, im []float64, in []complex128) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// AccumulatePower adds scale*|in[k]|^2 to dst[k] for every k.
//
// It is the inner step of taper averaging: each taper's analytic signal is
// folded into the running power without an intermediate allocation.
// dst and in must have the same length.
func AccumulatePower(dst []float64, in []complex128, scale float64) {
	n := len(in)
	if n == 0 {
		return
	}
	re, im, pow, buf := getScratch(n)
	split(re, im, in)
	vecmath.Power(pow, re, im)
	for i, p := range pow {
		dst[i] += scale * p
	}
	putScratch(buf)
}
