package tfr

import (
	"fmt"

	"github.com/cwbudde/algo-erds/eeg"
)

// Tensor is per-epoch power laid out row-major as
// (epoch, channel, frequency, time). Methods never modify the receiver.
type Tensor struct {
	Data []float64

	Freqs    []float64
	Times    []float64
	Channels []string
	// Events holds the marker of every epoch, in epoch order.
	Events []eeg.EventMarker
	Codes  eeg.CodeTable
	// Montage is carried over from the recording untouched.
	Montage *eeg.Montage
	// SampleRate is the rate of the time axis after decimation.
	SampleRate float64
}

// Shape returns the tensor dimensions.
func (t *Tensor) Shape() (epochs, channels, freqs, times int) {
	return len(t.Events), len(t.Channels), len(t.Freqs), len(t.Times)
}

func (t *Tensor) index(e, c, f, k int) int {
	return ((e*len(t.Channels)+c)*len(t.Freqs)+f)*len(t.Times) + k
}

// At returns one value.
func (t *Tensor) At(e, c, f, k int) float64 {
	return t.Data[t.index(e, c, f, k)]
}

// row returns the time series of one (epoch, channel, frequency) cell,
// aliasing t.Data.
func (t *Tensor) row(e, c, f int) []float64 {
	i := t.index(e, c, f, 0)
	return t.Data[i : i+len(t.Times)]
}

// Epoch returns a channel x freq x time copy of epoch e.
func (t *Tensor) Epoch(e int) [][][]float64 {
	out := make([][][]float64, len(t.Channels))
	for c := range out {
		out[c] = make([][]float64, len(t.Freqs))
		for f := range out[c] {
			out[c][f] = append([]float64(nil), t.row(e, c, f)...)
		}
	}
	return out
}

// Conditions returns the distinct epoch labels in first-seen order.
func (t *Tensor) Conditions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range t.Events {
		if !seen[ev.Label] {
			seen[ev.Label] = true
			out = append(out, ev.Label)
		}
	}
	return out
}

// ChannelIndex returns the position of the named channel.
func (t *Tensor) ChannelIndex(name string) (int, error) {
	for i, ch := range t.Channels {
		if ch == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", eeg.ErrUnknownChannel, name)
}

// Select returns the epochs labelled label as a new tensor.
func (t *Tensor) Select(label string) (*Tensor, error) {
	var keep []int
	for e, ev := range t.Events {
		if ev.Label == label {
			keep = append(keep, e)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, label)
	}

	stride := len(t.Channels) * len(t.Freqs) * len(t.Times)
	out := t.withAxes(make([]float64, 0, len(keep)*stride))
	out.Events = make([]eeg.EventMarker, 0, len(keep))
	for _, e := range keep {
		out.Data = append(out.Data, t.Data[e*stride:(e+1)*stride]...)
		out.Events = append(out.Events, t.Events[e])
	}
	return out, nil
}

// PickChannels returns a tensor restricted to the named channels, in the
// requested order.
func (t *Tensor) PickChannels(names []string) (*Tensor, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		c, err := t.ChannelIndex(name)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}

	out := t.withAxes(nil)
	out.Channels = append([]string(nil), names...)
	nE, _, nF, nT := t.Shape()
	out.Data = make([]float64, 0, nE*len(idx)*nF*nT)
	for e := 0; e < nE; e++ {
		for _, c := range idx {
			for f := 0; f < nF; f++ {
				out.Data = append(out.Data, t.row(e, c, f)...)
			}
		}
	}
	return out, nil
}

// Series returns the epoch x freq x time values of one channel, the layout
// cluster permutation tests take.
func (t *Tensor) Series(channel string) ([][][]float64, error) {
	c, err := t.ChannelIndex(channel)
	if err != nil {
		return nil, err
	}
	out := make([][][]float64, len(t.Events))
	for e := range out {
		out[e] = make([][]float64, len(t.Freqs))
		for f := range out[e] {
			out[e][f] = append([]float64(nil), t.row(e, c, f)...)
		}
	}
	return out, nil
}

// Average is the epoch mean of a tensor, laid out (channel, freq, time).
type Average struct {
	Data     []float64
	Freqs    []float64
	Times    []float64
	Channels []string
	NumAvg   int
}

// At returns one value.
func (a *Average) At(c, f, k int) float64 {
	return a.Data[(c*len(a.Freqs)+f)*len(a.Times)+k]
}

// Channel returns a freq x time copy of channel c.
func (a *Average) Channel(c int) [][]float64 {
	out := make([][]float64, len(a.Freqs))
	for f := range out {
		i := (c*len(a.Freqs) + f) * len(a.Times)
		out[f] = append([]float64(nil), a.Data[i:i+len(a.Times)]...)
	}
	return out
}

// Average returns the mean across epochs.
func (t *Tensor) Average() (*Average, error) {
	nE, nC, nF, nT := t.Shape()
	if nE == 0 {
		return nil, ErrNoEpochs
	}
	stride := nC * nF * nT
	sum := make([]float64, stride)
	for e := 0; e < nE; e++ {
		block := t.Data[e*stride : (e+1)*stride]
		for i, v := range block {
			sum[i] += v
		}
	}
	inv := 1 / float64(nE)
	for i := range sum {
		sum[i] *= inv
	}
	return &Average{
		Data:     sum,
		Freqs:    append([]float64(nil), t.Freqs...),
		Times:    append([]float64(nil), t.Times...),
		Channels: append([]string(nil), t.Channels...),
		NumAvg:   nE,
	}, nil
}

// withAxes returns a tensor sharing no slices with t, carrying data.
func (t *Tensor) withAxes(data []float64) *Tensor {
	return &Tensor{
		Data:       data,
		Freqs:      append([]float64(nil), t.Freqs...),
		Times:      append([]float64(nil), t.Times...),
		Channels:   append([]string(nil), t.Channels...),
		Events:     append([]eeg.EventMarker(nil), t.Events...),
		Codes:      t.Codes,
		Montage:    t.Montage,
		SampleRate: t.SampleRate,
	}
}
