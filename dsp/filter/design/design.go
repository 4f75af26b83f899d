package design

import (
	"math"

	"github.com/cwbudde/algo-erds/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Notch designs a notch biquad centered at freq (Hz).
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

// NotchWidth designs a notch at freq whose -3 dB stop band is width Hz wide.
func NotchWidth(freq, width, sampleRate float64) biquad.Coefficients {
	if width <= 0 {
		return biquad.Coefficients{}
	}
	return Notch(freq, freq/width, sampleRate)
}

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return nil
	}
	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, Lowpass(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		norm := 1 / (1 + k)
		sections = append(sections, biquad.Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm})
	}
	return sections
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return nil
	}
	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, Highpass(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		norm := 1 / (1 + k)
		sections = append(sections, biquad.Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm})
	}
	return sections
}

// ButterworthBP designs a bandpass as a highpass cascade at low followed by
// a lowpass cascade at high, each of the given order.
func ButterworthBP(low, high float64, order int, sampleRate float64) []biquad.Coefficients {
	if low >= high {
		return nil
	}
	hp := ButterworthHP(low, order, sampleRate)
	lp := ButterworthLP(high, order, sampleRate)
	if hp == nil || lp == nil {
		return nil
	}
	return append(hp, lp...)
}

func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}
	return 1 / (2 * s)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}
	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}
	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
