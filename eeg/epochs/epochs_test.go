package epochs

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/dsp/signal"
	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/internal/testutil"
)

func newRaw(t *testing.T, channels, samples int) *eeg.RawSignal {
	t.Helper()
	raw, err := eeg.NewRawSignal(testutil.Recording(channels, samples, 100, 1), 100)
	require.NoError(t, err)
	return raw
}

func TestNewWindowAndTimes(t *testing.T) {
	raw := newRaw(t, 2, 1000)
	markers := []eeg.EventMarker{{Sample: 300, Label: "A"}}

	ep, err := New(raw, markers, -0.5, 1.0)
	require.NoError(t, err)

	times := ep.Times()
	require.Len(t, times, 151)
	assert.InDelta(t, -0.5, times[0], 1e-12)
	assert.InDelta(t, 1.0, times[150], 1e-12)
	assert.Equal(t, []string{"1", "2"}, ep.Channels())
}

func TestCountMatchesBoundsAndThreshold(t *testing.T) {
	raw := newRaw(t, 3, 2000)
	// Huge artefact on channel 2 inside the window of the third marker.
	for i := 1190; i < 1210; i++ {
		raw.Data[1][i] = 1e4
	}

	samples := []int{20, 500, 1200, 1980, 800}
	labels := []string{"L", "R", "L", "R", "L"}
	markers, err := eeg.NewMarkers(samples, labels)
	require.NoError(t, err)

	t.Run("no threshold keeps all in-bounds", func(t *testing.T) {
		ep, err := New(raw, markers, -0.5, 0.5)
		require.NoError(t, err)
		all, err := ep.Load()
		require.NoError(t, err)
		assert.Len(t, all, 3) // 20 and 1980 fall outside
		drops := ep.DropLog()
		require.Len(t, drops, 2)
		assert.Equal(t, ReasonOutOfBounds, drops[0].Reason)
		assert.Equal(t, 0, drops[0].Index)
	})

	t.Run("threshold drops artefact", func(t *testing.T) {
		ep, err := New(raw, markers, -0.5, 0.5, WithReject(100))
		require.NoError(t, err)
		all, err := ep.Load()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, 1, all[0].Index)
		assert.Equal(t, 4, all[1].Index)

		var ptp *Drop
		for _, d := range ep.DropLog() {
			if d.Reason == ReasonPeakToPeak {
				d := d
				ptp = &d
			}
		}
		require.NotNil(t, ptp)
		assert.Equal(t, "2", ptp.Channel)
		assert.Equal(t, 2, ptp.Index)
	})
}

func TestLazyEachMatchesPreload(t *testing.T) {
	raw := newRaw(t, 2, 1500)
	markers := []eeg.EventMarker{{Sample: 200, Label: "B"}, {Sample: 700, Label: "A"}, {Sample: 1200, Label: "B"}}

	lazy, err := New(raw, markers, -1, 2)
	require.NoError(t, err)
	eager, err := New(raw, markers, -1, 2, WithPreload())
	require.NoError(t, err)

	want, err := eager.Load()
	require.NoError(t, err)

	var got []Epoch
	require.NoError(t, lazy.Each(func(e Epoch) error {
		got = append(got, e)
		return nil
	}))
	require.Len(t, got, len(want))
	for i := range got {
		assert.Equal(t, want[i].Index, got[i].Index)
		assert.Equal(t, want[i].Data, got[i].Data)
	}
	// Codes follow sorted label order.
	assert.Equal(t, 1, got[0].Code)
	assert.Equal(t, 0, got[1].Code)
}

func TestEachStopsOnError(t *testing.T) {
	raw := newRaw(t, 1, 1000)
	markers := []eeg.EventMarker{{Sample: 200, Label: "A"}, {Sample: 500, Label: "A"}}
	ep, err := New(raw, markers, -0.1, 0.1)
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = ep.Each(func(Epoch) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDetrendApplied(t *testing.T) {
	data := [][]float64{make([]float64, 400)}
	for i := range data[0] {
		data[0][i] = 5 + 0.1*float64(i)
	}
	raw, err := eeg.NewRawSignal(data, 100)
	require.NoError(t, err)

	ep, err := New(raw, []eeg.EventMarker{{Sample: 200, Label: "A"}}, -0.5, 0.5)
	require.NoError(t, err)
	e, err := ep.Get(0)
	require.NoError(t, err)
	for _, v := range e.Data[0] {
		assert.InDelta(t, 0, v, 1e-9)
	}

	noDetrend, err := New(raw, []eeg.EventMarker{{Sample: 200, Label: "A"}}, -0.5, 0.5, WithDetrend(signal.DetrendNone))
	require.NoError(t, err)
	e, err = noDetrend.Get(0)
	require.NoError(t, err)
	assert.InDelta(t, 5+0.1*150, e.Data[0][0], 1e-12)
}

func TestGetErrors(t *testing.T) {
	raw := newRaw(t, 1, 500)
	ep, err := New(raw, []eeg.EventMarker{{Sample: 10, Label: "A"}}, -0.5, 0.5)
	require.NoError(t, err)

	_, err = ep.Get(0)
	assert.ErrorIs(t, err, ErrDropped)
	_, err = ep.Get(3)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestNewValidation(t *testing.T) {
	raw := newRaw(t, 2, 500)

	_, err := New(raw, nil, 1, 0)
	assert.ErrorIs(t, err, ErrWindow)

	_, err = New(raw, []eeg.EventMarker{{Sample: -1, Label: "A"}}, 0, 1)
	assert.ErrorIs(t, err, eeg.ErrNegativeSample)

	_, err = New(raw, nil, 0, 1, WithPicks("C3"))
	assert.ErrorIs(t, err, eeg.ErrUnknownChannel)

	_, err = New(&eeg.RawSignal{Data: [][]float64{{1, 2}, {3}}, SampleRate: 100}, nil, 0, 1)
	var shapeErr *eeg.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestPicksAndLogging(t *testing.T) {
	raw, err := eeg.NewRawSignal(testutil.Recording(3, 600, 100, 2), 100, eeg.WithChannelNames("C3", "Cz", "C4"))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	markers := []eeg.EventMarker{{Sample: 300, Label: "RIGHT"}, {Sample: 400, Label: "LEFT"}}
	ep, err := New(raw, markers, -0.5, 0.5, WithPicks("C4", "C3"), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "C3"}, ep.Channels())

	e, err := ep.Get(0)
	require.NoError(t, err)
	require.Len(t, e.Data, 2)

	out := buf.String()
	assert.Contains(t, out, "label=LEFT code=0")
	assert.Contains(t, out, "label=RIGHT code=1")
}
