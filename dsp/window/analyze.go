package window

import "math"

// Analysis holds numerically computed spectral properties of a taper.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main lobe width in bins.
	Bandwidth3dB float64
	// HighestSidelobedB is the highest sidelobe relative to DC in dB.
	HighestSidelobedB float64
}

// Analyze evaluates the DFT of coeffs on a fine grid and reports its main
// lobe and sidelobe properties. Odd-order DPSS tapers have no DC response;
// for those Analyze returns the zero value.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}
	sum := 0.0
	sumSq := 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	dc := sum * sum
	if dc == 0 {
		return Analysis{}
	}

	out := Analysis{
		CoherentGain: sum / float64(n),
		ENBW:         float64(n) * sumSq / dc,
	}

	lo, hi := 0.0, 0.5
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if dftMagSq(coeffs, mid)/dc > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	out.Bandwidth3dB = 2 * lo * float64(n)

	// Walk down the main lobe, then take the largest value beyond it.
	step := 1 / (8 * float64(n))
	prev := dc
	f := step
	for ; f < 0.5; f += step {
		v := dftMagSq(coeffs, f)
		if v > prev && prev < 0.1*dc {
			break
		}
		prev = v
	}
	peak := 0.0
	for ; f < 0.5; f += step {
		peak = math.Max(peak, dftMagSq(coeffs, f))
	}
	if peak > 0 {
		out.HighestSidelobedB = 10 * math.Log10(peak/dc)
	} else {
		out.HighestSidelobedB = math.Inf(-1)
	}
	return out
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency in [0, 0.5].
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq
	for k, c := range coeffs {
		s, co := math.Sincos(w * float64(k))
		re += c * co
		im -= c * s
	}
	return re*re + im*im
}
