package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Recording returns a channels x samples matrix of seeded noise plus a 10 Hz
// rhythm, one noise seed per channel.
func Recording(channels, samples int, sampleRate float64, seed int64) [][]float64 {
	rhythm := DeterministicSine(10, sampleRate, 5, samples)
	out := make([][]float64, channels)
	for ch := range out {
		row := DeterministicNoise(seed+int64(ch), 2, samples)
		for i := range row {
			row[i] += rhythm[i]
		}
		out[ch] = row
	}
	return out
}

// AlternatingEvents returns n sample indices starting at first and spaced by
// step, with labels cycling through labels.
func AlternatingEvents(n, first, step int, labels ...string) ([]int, []string) {
	samples := make([]int, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		samples[i] = first + i*step
		names[i] = labels[i%len(labels)]
	}
	return samples, names
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
