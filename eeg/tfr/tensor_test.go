package tfr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/eeg"
)

// makeTensor builds a tensor whose value at (e, c, f, k) is
// 1000e + 100c + 10f + k + 1.
func makeTensor(labels []string, channels []string, nF int, times []float64) *Tensor {
	t := &Tensor{
		Freqs:      make([]float64, nF),
		Times:      times,
		Channels:   channels,
		SampleRate: 10,
	}
	for f := range t.Freqs {
		t.Freqs[f] = float64(5 + f)
	}
	for e, l := range labels {
		t.Events = append(t.Events, eeg.EventMarker{Sample: 100 * e, Label: l})
		for c := range channels {
			for f := 0; f < nF; f++ {
				for k := range times {
					t.Data = append(t.Data, float64(1000*e+100*c+10*f+k+1))
				}
			}
		}
	}
	return t
}

func axis(from float64, n int, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func TestTensorAccessors(t *testing.T) {
	tt := makeTensor([]string{"LEFT", "RIGHT", "LEFT"}, []string{"C3", "C4"}, 2, axis(0, 4, 0.1))

	e, c, f, k := tt.Shape()
	assert.Equal(t, [4]int{3, 2, 2, 4}, [4]int{e, c, f, k})
	assert.Equal(t, 2113.0, tt.At(2, 1, 1, 2))
	assert.Equal(t, []string{"LEFT", "RIGHT"}, tt.Conditions())

	ep := tt.Epoch(1)
	assert.Equal(t, 1111.0, ep[1][1][0])
}

func TestTensorSelect(t *testing.T) {
	tt := makeTensor([]string{"LEFT", "RIGHT", "LEFT"}, []string{"C3"}, 1, axis(0, 2, 0.1))

	left, err := tt.Select("LEFT")
	require.NoError(t, err)
	n, _, _, _ := left.Shape()
	assert.Equal(t, 2, n)
	assert.Equal(t, 2001.0, left.At(1, 0, 0, 0))

	_, err = tt.Select("UP")
	assert.ErrorIs(t, err, ErrUnknownCondition)

	// The receiver is untouched.
	n, _, _, _ = tt.Shape()
	assert.Equal(t, 3, n)
}

func TestTensorPickChannelsAndSeries(t *testing.T) {
	tt := makeTensor([]string{"A", "B"}, []string{"C3", "Cz", "C4"}, 2, axis(0, 3, 0.1))

	picked, err := tt.PickChannels([]string{"C4", "C3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "C3"}, picked.Channels)
	assert.Equal(t, tt.At(1, 2, 1, 2), picked.At(1, 0, 1, 2))
	assert.Equal(t, tt.At(1, 0, 1, 2), picked.At(1, 1, 1, 2))

	series, err := tt.Series("Cz")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, tt.At(1, 1, 1, 0), series[1][1][0])

	_, err = tt.PickChannels([]string{"O1"})
	assert.ErrorIs(t, err, eeg.ErrUnknownChannel)
	_, err = tt.Series("O1")
	assert.ErrorIs(t, err, eeg.ErrUnknownChannel)
}

func TestTensorAverage(t *testing.T) {
	tt := makeTensor([]string{"A", "A", "A"}, []string{"C3", "C4"}, 2, axis(0, 3, 0.1))
	avg, err := tt.Average()
	require.NoError(t, err)
	assert.Equal(t, 3, avg.NumAvg)
	// Mean over e of 1000e is 1000.
	assert.InDelta(t, 1000+100+10+2+1, avg.At(1, 1, 2), 1e-9)
	assert.InDelta(t, 1000+100+10+2+1, avg.Channel(1)[1][2], 1e-9)

	empty := &Tensor{Channels: []string{"C3"}, Freqs: []float64{5}, Times: []float64{0}}
	_, err = empty.Average()
	assert.ErrorIs(t, err, ErrNoEpochs)
}

func TestCropInclusive(t *testing.T) {
	tt := makeTensor([]string{"A"}, []string{"C3"}, 1, axis(-1, 21, 0.1))

	cropped, err := tt.Crop(-0.5, 0.5)
	require.NoError(t, err)
	require.Len(t, cropped.Times, 11)
	assert.InDelta(t, -0.5, cropped.Times[0], 1e-9)
	assert.InDelta(t, 0.5, cropped.Times[10], 1e-9)
	assert.Equal(t, tt.At(0, 0, 0, 5), cropped.At(0, 0, 0, 0))

	_, err = tt.Crop(3, 4)
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestRescalePercent(t *testing.T) {
	// Baseline value B over the first four samples, V afterwards.
	const b, v = 4.0, 7.0
	tt := &Tensor{
		Freqs:      []float64{10},
		Times:      axis(-0.4, 8, 0.1),
		Channels:   []string{"C3"},
		Events:     []eeg.EventMarker{{Label: "A"}},
		SampleRate: 10,
		Data:       []float64{b, b, b, b, v, v, v, v},
	}
	out, err := tt.Rescale(Window{Min: -0.4, Max: -0.1}, ModePercent)
	require.NoError(t, err)
	for k := 0; k < 4; k++ {
		assert.InDelta(t, 0, out.At(0, 0, 0, k), 1e-12)
	}
	for k := 4; k < 8; k++ {
		assert.InDelta(t, (v-b)/b, out.At(0, 0, 0, k), 1e-12)
	}
	// Receiver unchanged.
	assert.Equal(t, b, tt.Data[0])
}

func TestRescaleConstantIsZero(t *testing.T) {
	tt := makeTensor([]string{"A", "B"}, []string{"C3", "C4"}, 3, axis(-1, 11, 0.2))
	for i := range tt.Data {
		tt.Data[i] = 42
	}
	out, err := tt.Rescale(Window{Min: -1, Max: 0}, ModePercent)
	require.NoError(t, err)
	for _, x := range out.Data {
		assert.Equal(t, 0.0, x)
	}
}

func TestRescaleModes(t *testing.T) {
	// Baseline samples 1 and 3: mean 2, population std 1.
	data := []float64{1, 3, 4}
	tests := []struct {
		mode Mode
		want []float64
	}{
		{ModeMean, []float64{-1, 1, 2}},
		{ModeRatio, []float64{0.5, 1.5, 2}},
		{ModeLogRatio, []float64{math.Log10(0.5), math.Log10(1.5), math.Log10(2)}},
		{ModePercent, []float64{-0.5, 0.5, 1}},
		{ModeZScore, []float64{-1, 1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			tt := &Tensor{
				Freqs: []float64{10}, Times: []float64{0, 1, 2}, Channels: []string{"C3"},
				Events: []eeg.EventMarker{{Label: "A"}}, SampleRate: 1,
				Data: append([]float64(nil), data...),
			}
			out, err := tt.Rescale(Window{Min: 0, Max: 1}, tc.mode)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tc.want, out.Data, 1e-12)
		})
	}

	t.Run("zlogratio", func(t *testing.T) {
		tt := &Tensor{
			Freqs: []float64{10}, Times: []float64{0, 1, 2}, Channels: []string{"C3"},
			Events: []eeg.EventMarker{{Label: "A"}}, SampleRate: 1,
			Data: append([]float64(nil), data...),
		}
		out, err := tt.Rescale(Window{Min: 0, Max: 1}, ModeZLogRatio)
		require.NoError(t, err)
		l0, l1 := math.Log10(0.5), math.Log10(1.5)
		s := math.Abs(l1-l0) / 2
		assert.InDelta(t, math.Log10(2)/s, out.Data[2], 1e-12)
	})
}

func TestRescaleBaselineOutOfRange(t *testing.T) {
	tt := makeTensor([]string{"A"}, []string{"C3"}, 1, axis(0, 10, 0.1))
	_, err := tt.Rescale(Window{Min: -1, Max: 0.2}, ModePercent)
	assert.ErrorIs(t, err, ErrBaselineOutOfRange)
}

func TestLongFormat(t *testing.T) {
	tt := makeTensor([]string{"LEFT", "RIGHT"}, []string{"C3", "C4"}, 2, axis(0, 3, 0.5))
	rows := LongFormat(tt)
	require.Len(t, rows, 2*2*2*3)

	last := rows[len(rows)-1]
	assert.Equal(t, Row{Epoch: 1, Channel: "C4", Freq: 6, Time: 1, Condition: "RIGHT", Value: tt.At(1, 1, 1, 2)}, last)
	assert.Equal(t, "LEFT", rows[0].Condition)
	assert.Equal(t, 1.0, rows[0].Value)
}
