package tfr

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-erds/dsp/window"
)

// Wavelets holds the kernel bank of one transform: Kernels[taper][freq].
type Wavelets struct {
	Kernels [][][]complex128
}

// NumTapers returns the number of tapers per frequency.
func (w Wavelets) NumTapers() int { return len(w.Kernels) }

// MaxLen returns the length of the longest kernel.
func (w Wavelets) MaxLen() int {
	n := 0
	for _, row := range w.Kernels {
		for _, k := range row {
			n = max(n, len(k))
		}
	}
	return n
}

// flat returns the kernels in taper-major order.
func (w Wavelets) flat() [][]complex128 {
	out := make([][]complex128, 0, len(w.Kernels)*len(w.Kernels[0]))
	for _, row := range w.Kernels {
		out = append(out, row...)
	}
	return out
}

// MultitaperWavelets builds DPSS-tapered wavelets. At frequency f with c
// cycles the kernel spans ceil(c/f * sfreq) samples centred on t = 0.
func MultitaperWavelets(grid FrequencyGrid, sampleRate, timeBandwidth float64) (Wavelets, error) {
	if err := grid.validate(); err != nil {
		return Wavelets{}, err
	}
	nTapers := int(math.Floor(timeBandwidth - 1))
	if nTapers < 1 {
		return Wavelets{}, fmt.Errorf("tfr: time-bandwidth %v yields no tapers", timeBandwidth)
	}

	kernels := make([][][]complex128, nTapers)
	for m := range kernels {
		kernels[m] = make([][]complex128, grid.Len())
	}

	for k, f := range grid.Freqs {
		span := grid.Cycles[k] / f
		n := int(math.Ceil(span*sampleRate - 1e-9))
		if float64(n) <= timeBandwidth {
			return Wavelets{}, fmt.Errorf("tfr: %v Hz wavelet of %d samples too short for time-bandwidth %v", f, n, timeBandwidth)
		}
		tapers, err := window.DPSS(n, timeBandwidth/2, nTapers, window.WithPeriodic())
		if err != nil {
			return Wavelets{}, fmt.Errorf("tfr: tapers at %v Hz: %w", f, err)
		}
		for m := 0; m < nTapers; m++ {
			w := make([]complex128, n)
			taper := tapers.Windows[m]
			for i := range w {
				t := float64(i)/sampleRate - span/2
				w[i] = complex(taper[i], 0) * cmplx.Exp(complex(0, 2*math.Pi*f*t))
			}
			normalize(w)
			kernels[m][k] = w
		}
	}
	return Wavelets{Kernels: kernels}, nil
}

// MorletWavelets builds Gaussian wavelets with sigma_t = c / (2 pi f),
// truncated at five standard deviations on each side.
func MorletWavelets(grid FrequencyGrid, sampleRate float64) (Wavelets, error) {
	if err := grid.validate(); err != nil {
		return Wavelets{}, err
	}
	row := make([][]complex128, grid.Len())
	for k, f := range grid.Freqs {
		sigma := grid.Cycles[k] / (2 * math.Pi * f)
		half := int(math.Ceil(5*sigma*sampleRate - 1e-9))
		n := 2*half - 1
		env, err := window.Gaussian(n, sigma*sampleRate)
		if err != nil {
			return Wavelets{}, fmt.Errorf("tfr: envelope at %v Hz: %w", f, err)
		}
		w := make([]complex128, n)
		for i := range w {
			t := float64(i-(half-1)) / sampleRate
			w[i] = complex(env[i], 0) * cmplx.Exp(complex(0, 2*math.Pi*f*t))
		}
		normalize(w)
		row[k] = w
	}
	return Wavelets{Kernels: [][][]complex128{row}}, nil
}

// normalize removes the mean and scales w to norm sqrt(2).
func normalize(w []complex128) {
	var mean complex128
	for _, v := range w {
		mean += v
	}
	mean /= complex(float64(len(w)), 0)

	ss := 0.0
	for i := range w {
		w[i] -= mean
		ss += real(w[i])*real(w[i]) + imag(w[i])*imag(w[i])
	}
	if ss == 0 {
		return
	}
	scale := complex(1/(math.Sqrt(0.5)*math.Sqrt(ss)), 0)
	for i := range w {
		w[i] *= scale
	}
}
