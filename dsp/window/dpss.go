package window

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack/gonum"
)

// inverseIterations is the number of inverse-iteration sweeps per taper.
// The shifts are accurate eigenvalues, so two sweeps already converge.
const inverseIterations = 3

// Tapers holds a set of discrete prolate spheroidal sequences.
type Tapers struct {
	// Windows[k] is the k-th order sequence with unit energy.
	Windows [][]float64
	// Concentrations[k] is the fraction of energy of Windows[k] inside the
	// band [-W, W], W = halfBandwidth/length.
	Concentrations []float64
}

// DPSS computes the first count Slepian sequences of the given length and
// time half-bandwidth product NW.
//
// The sequences are the eigenvectors of the symmetric tridiagonal matrix
// whose largest eigenvalues belong to the most concentrated tapers.
// Eigenvalues come from LAPACK dsterf, eigenvectors from inverse iteration.
// Even-order tapers are signed to have a positive sum, odd-order tapers
// to start with a positive lobe.
func DPSS(length int, halfBandwidth float64, count int, opts ...Option) (Tapers, error) {
	if err := validateDPSS(length, halfBandwidth, count); err != nil {
		return Tapers{}, err
	}
	cfg := applyOptions(opts)

	n := length
	if cfg.periodic {
		n++
	}

	w := halfBandwidth / float64(n)
	diag, off := dpssTridiagonal(n, w)

	eig := append([]float64(nil), diag...)
	e := append([]float64(nil), off...)
	if ok := (gonum.Implementation{}).Dsterf(n, eig, e); !ok {
		return Tapers{}, ErrEigen
	}

	out := Tapers{
		Windows:        make([][]float64, count),
		Concentrations: make([]float64, count),
	}
	for k := 0; k < count; k++ {
		lambda := eig[n-1-k]
		v, err := inverseIteration(diag, off, lambda, k)
		if err != nil {
			return Tapers{}, fmt.Errorf("window: dpss taper %d: %w", k, err)
		}
		fixSign(v, k)
		out.Concentrations[k] = concentration(v, w)
		out.Windows[k] = v[:length]
	}
	return out, nil
}

// dpssTridiagonal returns the diagonal and off-diagonal of the DPSS
// commuting matrix for normalised half bandwidth w.
func dpssTridiagonal(n int, w float64) ([]float64, []float64) {
	diag := make([]float64, n)
	off := make([]float64, n-1)
	c := math.Cos(2 * math.Pi * w)
	for i := range diag {
		d := float64(n-1-2*i) / 2
		diag[i] = d * d * c
	}
	for i := 1; i < n; i++ {
		off[i-1] = float64(i*(n-i)) / 2
	}
	return diag, off
}

func inverseIteration(diag, off []float64, lambda float64, seed int) ([]float64, error) {
	n := len(diag)
	v := make([]float64, n)
	for i := range v {
		// Low-order polynomial start vector with a component along every
		// eigenvector of interest.
		x := float64(i)/float64(n) - 0.5
		v[i] = 1 + x + float64(seed+1)*x*x
	}
	if n == 1 {
		v[0] = 1
		return v, nil
	}

	d := make([]float64, n)
	lo := make([]float64, n-1)
	up := make([]float64, n-1)
	for iter := 0; iter < inverseIterations; iter++ {
		for i := range d {
			d[i] = diag[i] - lambda
		}
		copy(lo, off)
		copy(up, off)
		solveTridiagonal(lo, d, up, v)

		norm := floats.Norm(v, 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, ErrEigen
		}
		floats.Scale(1/norm, v)
	}
	return v, nil
}

func fixSign(v []float64, order int) {
	if order%2 == 0 {
		if floats.Sum(v) < 0 {
			floats.Scale(-1, v)
		}
		return
	}
	thresh := math.Max(1e-7, 1/float64(len(v)))
	for _, x := range v {
		if x*x > thresh {
			if x < 0 {
				floats.Scale(-1, v)
			}
			return
		}
	}
}

// concentration returns the in-band energy ratio of a unit-energy sequence.
func concentration(v []float64, w float64) float64 {
	n := len(v)
	r0 := floats.Dot(v, v)
	ratio := 2 * w * r0
	for m := 1; m < n; m++ {
		r := floats.Dot(v[:n-m], v[m:])
		ratio += 2 * r * math.Sin(2*math.Pi*w*float64(m)) / (math.Pi * float64(m))
	}
	return ratio
}
