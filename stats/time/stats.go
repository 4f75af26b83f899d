// Package time computes amplitude statistics of time-domain EEG segments.
//
// The epoch builder uses [PeakToPeak] for artifact rejection; [Calculate]
// backs the per-channel summaries printed by the CLI.
package time

import "math"

// Stats holds time-domain amplitude statistics of one channel.
type Stats struct {
	Length   int
	Mean     float64
	RMS      float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Range    float64 // peak-to-peak, max - min
	Variance float64 // population variance
	StdDev   float64
}

// Calculate computes all statistics in a single pass. Mean and variance use
// Welford's online update.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var (
		mean   float64
		m2     float64
		sumSq  float64
		maxVal = signal[0]
		minVal = signal[0]
		maxPos int
		minPos int
	)

	for i, x := range signal {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}
	}

	nf := float64(n)
	variance := m2 / nf

	return Stats{
		Length:   n,
		Mean:     mean,
		RMS:      math.Sqrt(sumSq / nf),
		Max:      maxVal,
		MaxPos:   maxPos,
		Min:      minVal,
		MinPos:   minPos,
		Range:    maxVal - minVal,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
}

// PeakToPeak returns max(signal) - min(signal), 0 for empty input.
func PeakToPeak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	lo, hi := signal[0], signal[0]
	for _, x := range signal[1:] {
		if x < lo {
			lo = x
		} else if x > hi {
			hi = x
		}
	}

	return hi - lo
}

// MaxPeakToPeak returns the channel with the largest peak-to-peak amplitude
// in a channels x samples block, and that amplitude. It returns -1 for an
// empty block.
func MaxPeakToPeak(block [][]float64) (channel int, ptp float64) {
	channel = -1
	for i, row := range block {
		v := PeakToPeak(row)
		if channel < 0 || v > ptp {
			channel, ptp = i, v
		}
	}
	return channel, ptp
}

// Channels computes [Stats] for every row of a channels x samples block.
func Channels(block [][]float64) []Stats {
	out := make([]Stats, len(block))
	for i, row := range block {
		out[i] = Calculate(row)
	}
	return out
}
