package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/internal/testutil"
)

func TestFilterRemovesLineNoiseAndOffset(t *testing.T) {
	const sr, n = 512.0, 4096
	want := testutil.DeterministicSine(10, sr, 1, n)
	line := testutil.DeterministicSine(50, sr, 1, n)
	x := make([]float64, n)
	for i := range x {
		x[i] = want[i] + line[i] + 3
	}

	f, err := NewFilter(DefaultFilterConfig())
	require.NoError(t, err)
	out, err := f.FilterData([][]float64{x})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0], n)

	mid := out[0][n/2-512 : n/2+512]
	diff, err := testutil.MaxAbsDiff(mid, want[n/2-512:n/2+512])
	require.NoError(t, err)
	assert.Less(t, diff, 0.05)

	// Input is untouched.
	assert.Equal(t, 3.0, x[0])
}

func TestFilterGain(t *testing.T) {
	f, err := NewFilter(DefaultFilterConfig())
	require.NoError(t, err)

	assert.InDelta(t, 1, f.Gain(10), 1e-3)
	assert.InDelta(t, 0.5, f.Gain(1), 0.01)
	assert.Less(t, f.Gain(50), 1e-6)
	assert.Less(t, f.Gain(0.1), 1e-6)
	assert.Less(t, f.Gain(100), 1e-3)
}

func TestFilterWithoutNotch(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.NotchFreq = 0
	f, err := NewFilter(cfg)
	require.NoError(t, err)
	assert.Greater(t, f.Gain(50), 0.01)
}

func TestFilterConfigValidate(t *testing.T) {
	mod := func(fn func(*FilterConfig)) FilterConfig {
		c := DefaultFilterConfig()
		fn(&c)
		return c
	}
	bad := map[string]FilterConfig{
		"zero rate":       mod(func(c *FilterConfig) { c.SampleRate = 0 }),
		"zero order":      mod(func(c *FilterConfig) { c.Order = 0 }),
		"inverted band":   mod(func(c *FilterConfig) { c.LowCut, c.HighCut = 40, 10 }),
		"above nyquist":   mod(func(c *FilterConfig) { c.HighCut = 300 }),
		"zero low":        mod(func(c *FilterConfig) { c.LowCut = 0 }),
		"notch too high":  mod(func(c *FilterConfig) { c.NotchFreq = 256 }),
		"zero notch band": mod(func(c *FilterConfig) { c.NotchWidth = 0 }),
	}
	for name, cfg := range bad {
		_, err := NewFilter(cfg)
		assert.ErrorIs(t, err, ErrFilterConfig, name)
	}
}

func TestFilterApply(t *testing.T) {
	f, err := NewFilter(DefaultFilterConfig())
	require.NoError(t, err)

	raw, err := eeg.NewRawSignal(testutil.Recording(3, 2048, 512, 1), 512, eeg.WithChannelNames("C3", "Cz", "C4"))
	require.NoError(t, err)
	out, err := f.Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, raw.Channels, out.Channels)
	assert.Equal(t, raw.Samples(), out.Samples())

	other, err := eeg.NewRawSignal(testutil.Recording(1, 1000, 250, 1), 250)
	require.NoError(t, err)
	_, err = f.Apply(other)
	assert.ErrorIs(t, err, eeg.ErrSampleRate)

	_, err = f.FilterData([][]float64{{1, 2}, {1}})
	var se *eeg.ShapeError
	assert.True(t, errors.As(err, &se))
}
