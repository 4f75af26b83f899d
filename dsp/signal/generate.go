package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-erds/dsp/core"
)

// Generator creates deterministic test recordings from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Desync describes an event-related drop of an ongoing rhythm: starting
// Onset seconds after each event, the rhythm's amplitude is multiplied by
// Depth for Length seconds.
type Desync struct {
	FreqHz    float64
	Amplitude float64
	Onset     float64
	Length    float64
	Depth     float64 // 0 removes the rhythm, 1 leaves it unchanged
}

// Recording generates a channels x samples matrix of white noise plus one
// ongoing rhythm per channel, attenuated around the given event samples as
// described by d. Channel k uses noise seed seed+k so channels differ.
func (g *Generator) Recording(channels, samples int, noise float64, d Desync, events []int) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("recording channels must be > 0: %d", channels)
	}

	gain := make([]float64, samples)
	for i := range gain {
		gain[i] = 1
	}
	onset := int(math.Round(d.Onset * g.cfg.SampleRate))
	length := int(math.Round(d.Length * g.cfg.SampleRate))
	for _, ev := range events {
		for i := ev + onset; i < ev+onset+length && i < samples; i++ {
			if i >= 0 {
				gain[i] = d.Depth
			}
		}
	}

	out := make([][]float64, channels)
	for ch := range out {
		chGen := &Generator{cfg: g.cfg, seed: g.seed + int64(ch)}
		row, err := chGen.WhiteNoise(noise, samples)
		if err != nil {
			return nil, err
		}
		rhythm, err := g.Sine(d.FreqHz, d.Amplitude, samples)
		if err != nil {
			return nil, err
		}
		for i := range row {
			row[i] += gain[i] * rhythm[i]
		}
		out[ch] = row
	}

	return out, nil
}
