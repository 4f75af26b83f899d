package preprocess

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-erds/dsp/resample"
	"github.com/cwbudde/algo-erds/eeg"
)

// Resample converts raw to rate and moves markers onto the new sample grid.
// The ratio rate/raw.SampleRate is approximated by a fraction; the returned
// signal carries the exact rational rate.
func Resample(raw *eeg.RawSignal, markers []eeg.EventMarker, rate float64, opts ...resample.Option) (*eeg.RawSignal, []eeg.EventMarker, error) {
	r, err := resample.NewForRates(raw.SampleRate, rate, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("preprocess: %w", err)
	}
	up, down := r.Ratio()
	if up == down {
		return raw, markers, nil
	}

	out, err := eeg.NewRawSignal(
		r.ApplyRows(raw.Data),
		raw.SampleRate*float64(up)/float64(down),
		eeg.WithChannelNames(raw.Channels...),
		eeg.WithMontage(raw.Montage),
	)
	if err != nil {
		return nil, nil, err
	}

	last := out.Samples() - 1
	moved := make([]eeg.EventMarker, len(markers))
	for i, m := range markers {
		m.Sample = min(int(math.Round(float64(m.Sample)*float64(up)/float64(down))), last)
		moved[i] = m
	}
	return out, moved, nil
}
