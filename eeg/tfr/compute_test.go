package tfr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/eeg/epochs"
	"github.com/cwbudde/algo-erds/internal/testutil"
)

func sineRaw(t *testing.T, freq, sr float64, samples int) *eeg.RawSignal {
	t.Helper()
	raw, err := eeg.NewRawSignal([][]float64{testutil.DeterministicSine(freq, sr, 1, samples)}, sr)
	require.NoError(t, err)
	return raw
}

func peakFreqIndex(t *testing.T, tt *Tensor) int {
	t.Helper()
	_, _, nF, nT := tt.Shape()
	best, bestVal := -1, -1.0
	for f := 0; f < nF; f++ {
		v := tt.At(0, 0, f, nT/2)
		testutil.RequireFinite(t, []float64{v})
		if v > bestVal {
			best, bestVal = f, v
		}
	}
	return best
}

func TestComputePeaksAtSignalFrequency(t *testing.T) {
	const sr = 256.0
	raw := sineRaw(t, 12, sr, 4096)
	grid, err := NewFrequencyGrid(4, 24, 6, ConstantCycles(7))
	require.NoError(t, err)
	markers := []eeg.EventMarker{{Sample: 2048, Label: "A"}}

	for _, method := range []Method{Multitaper, Morlet} {
		t.Run(method.String(), func(t *testing.T) {
			tt, err := ComputeRaw(raw, markers, -2, 2, grid, WithMethod(method),
				WithEpochOptions(epochs.WithDetrend(-1)))
			require.NoError(t, err)
			assert.InDelta(t, 12.0, tt.Freqs[peakFreqIndex(t, tt)], 1.0)
		})
	}
}

func TestMorletPowerOfUnitSine(t *testing.T) {
	// A unit sine has power |W(f0)|^2 / 4, with W the wavelet spectrum.
	const sr, f0 = 200.0, 10.0
	raw := sineRaw(t, f0, sr, 2000)
	grid, err := NewFrequencyGrid(f0, f0, 1, ConstantCycles(5))
	require.NoError(t, err)
	tt, err := ComputeRaw(raw, []eeg.EventMarker{{Sample: 1000, Label: "A"}}, -3, 3, grid,
		WithMethod(Morlet), WithEpochOptions(epochs.WithDetrend(-1)))
	require.NoError(t, err)

	wav, err := MorletWavelets(grid, sr)
	require.NoError(t, err)
	w := wav.Kernels[0][0]
	var sum complex128
	for i, v := range w {
		tm := float64(i-(len(w)-1)/2) / sr
		sum += v * complex(math.Cos(2*math.Pi*f0*tm), -math.Sin(2*math.Pi*f0*tm))
	}
	want := real(sum)*real(sum)/4 + imag(sum)*imag(sum)/4

	_, _, _, nT := tt.Shape()
	got := tt.At(0, 0, 0, nT/2)
	assert.InDelta(t, want, got, want*1e-3)
}

func TestComputeDecimation(t *testing.T) {
	const sr = 128.0
	raw := sineRaw(t, 10, sr, 2048)
	grid, err := NewFrequencyGrid(8, 12, 3, ConstantCycles(3))
	require.NoError(t, err)
	markers := []eeg.EventMarker{{Sample: 1024, Label: "A"}}

	full, err := ComputeRaw(raw, markers, -1, 1, grid)
	require.NoError(t, err)
	dec, err := ComputeRaw(raw, markers, -1, 1, grid, WithDecim(3))
	require.NoError(t, err)

	_, _, _, nFull := full.Shape()
	_, _, _, nDec := dec.Shape()
	assert.Equal(t, 257, nFull)
	assert.Equal(t, (257+2)/3, nDec)
	for k := 0; k < nDec; k++ {
		assert.InDelta(t, full.At(0, 0, 1, 3*k), dec.At(0, 0, 1, k), 1e-9)
		assert.InDelta(t, full.Times[3*k], dec.Times[k], 1e-12)
	}
	assert.InDelta(t, sr/3, dec.SampleRate, 1e-12)
}

func TestComputeBaselineRequiresCrop(t *testing.T) {
	raw := sineRaw(t, 10, 128, 1024)
	grid, err := NewFrequencyGrid(8, 12, 3, ConstantCycles(3))
	require.NoError(t, err)
	markers := []eeg.EventMarker{{Sample: 512, Label: "A"}}

	_, err = ComputeRaw(raw, markers, -1, 1, grid, WithBaseline(Window{-1, -0.5}, ModePercent))
	assert.ErrorIs(t, err, ErrBaselineCropMismatch)
	_, err = ComputeRaw(raw, markers, -1, 1, grid, WithCrop(Window{-1, 1}))
	assert.ErrorIs(t, err, ErrBaselineCropMismatch)

	ep, err := epochs.New(raw, markers, -1, 1)
	require.NoError(t, err)
	_, err = Compute(ep, grid, WithCrop(Window{-1, 1}))
	assert.ErrorIs(t, err, ErrBaselineCropMismatch)
}

func TestComputeCropThenRescale(t *testing.T) {
	raw := sineRaw(t, 10, 128, 2048)
	grid, err := NewFrequencyGrid(8, 12, 3, ConstantCycles(7))
	require.NoError(t, err)
	markers := []eeg.EventMarker{{Sample: 1024, Label: "A"}}

	tt, err := ComputeRaw(raw, markers, -3, 3, grid, WithMethod(Morlet),
		WithCrop(Window{-1.5, 1.5}), WithBaseline(Window{-1.5, -0.5}, ModePercent))
	require.NoError(t, err)
	assert.InDelta(t, -1.5, tt.Times[0], 1e-9)
	assert.InDelta(t, 1.5, tt.Times[len(tt.Times)-1], 1e-9)

	// Stationary sine: power is flat, so percent change stays near zero.
	for _, v := range tt.Data {
		assert.InDelta(t, 0, v, 0.05)
	}

	_, err = ComputeRaw(raw, markers, -3, 3, grid, WithMethod(Morlet),
		WithCrop(Window{-1, 1.5}), WithBaseline(Window{-1.5, -0.5}, ModePercent))
	assert.ErrorIs(t, err, ErrBaselineOutOfRange)
}

func TestComputeWaveletTooLong(t *testing.T) {
	raw := sineRaw(t, 10, 100, 1000)
	grid, err := NewFrequencyGrid(2, 4, 2, ConstantCycles(7))
	require.NoError(t, err)
	_, err = ComputeRaw(raw, []eeg.EventMarker{{Sample: 500, Label: "A"}}, -0.5, 0.5, grid)
	assert.ErrorIs(t, err, ErrWaveletTooLong)
}

func TestComputeNoEpochs(t *testing.T) {
	raw := sineRaw(t, 10, 100, 300)
	grid, err := NewFrequencyGrid(10, 20, 2, ConstantCycles(2))
	require.NoError(t, err)
	_, err = ComputeRaw(raw, []eeg.EventMarker{{Sample: 10, Label: "A"}}, -0.5, 0.5, grid)
	assert.ErrorIs(t, err, ErrNoEpochs)
}

func TestComputeEndToEndShape(t *testing.T) {
	if testing.Short() {
		t.Skip("64-channel transform")
	}
	const (
		sr       = 512.0
		channels = 64
		seconds  = 60
	)
	samples, labels := testutil.AlternatingEvents(10, 3000, 2600, "LEFT", "RIGHT")
	markers, err := eeg.NewMarkers(samples, labels)
	require.NoError(t, err)

	raw, err := eeg.NewRawSignal(testutil.Recording(channels, seconds*sr, sr, 3), sr)
	require.NoError(t, err)

	grid, err := NewFrequencyGrid(5, 36, 10, ConstantCycles(7))
	require.NoError(t, err)

	const tmin, tmax, decim = -1.0, 2.0, 4
	tt, err := ComputeRaw(raw, markers, tmin, tmax, grid, WithDecim(decim))
	require.NoError(t, err)

	nE, nC, nF, nT := tt.Shape()
	assert.Equal(t, 10, nE)
	assert.Equal(t, 64, nC)
	assert.Equal(t, 10, nF)
	assert.InDelta(t, (tmax-tmin)*sr/decim, float64(nT), 1)
	assert.Len(t, tt.Data, nE*nC*nF*nT)
	assert.Equal(t, []string{"LEFT", "RIGHT"}, tt.Conditions())
	assert.InDelta(t, 5.0, tt.Freqs[0], 1e-12)
	assert.InDelta(t, 36.0, tt.Freqs[9], 1e-12)
}
