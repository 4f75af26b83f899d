package eeg

import (
	"fmt"
	"math"
	"strconv"
)

// RawSignal is a continuous recording laid out as channels x samples.
type RawSignal struct {
	Data       [][]float64
	SampleRate float64
	Channels   []string
	Montage    *Montage
}

// RawOption configures [NewRawSignal].
type RawOption func(*rawConfig)

type rawConfig struct {
	channels []string
	montage  *Montage
	copyData bool
}

// WithChannelNames names the rows of the data matrix.
func WithChannelNames(names ...string) RawOption {
	names = append([]string(nil), names...)
	return func(c *rawConfig) {
		c.channels = names
	}
}

// WithMontage attaches electrode positions. The montage is carried through
// every stage untouched.
func WithMontage(m *Montage) RawOption {
	return func(c *rawConfig) {
		c.montage = m
	}
}

// WithCopy makes NewRawSignal copy the sample matrix instead of aliasing it.
func WithCopy() RawOption {
	return func(c *rawConfig) {
		c.copyData = true
	}
}

// NewRawSignal validates data and returns a RawSignal.
//
// data must be a non-empty rectangular channels x samples matrix, otherwise a
// *ShapeError is returned. Without channel names, channels are named "1".."N".
func NewRawSignal(data [][]float64, sampleRate float64, opts ...RawOption) (*RawSignal, error) {
	var cfg rawConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := ValidateShape(data); err != nil {
		return nil, err
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrSampleRate, sampleRate)
	}

	names := cfg.channels
	if names == nil {
		names = SyntheticChannelNames(len(data))
	}

	if len(names) != len(data) {
		return nil, &ShapeError{
			Dims:   2,
			Reason: fmt.Sprintf("%d channel names for %d channels", len(names), len(data)),
		}
	}

	if cfg.copyData {
		data = copyMatrix(data)
	}

	return &RawSignal{
		Data:       data,
		SampleRate: sampleRate,
		Channels:   names,
		Montage:    cfg.montage,
	}, nil
}

// ValidateShape reports whether data is a non-empty rectangular matrix.
func ValidateShape(data [][]float64) error {
	if len(data) == 0 {
		return &ShapeError{Dims: 1, Reason: "no channels"}
	}

	n := len(data[0])
	if n == 0 {
		return &ShapeError{Dims: 2, Reason: "no samples"}
	}

	for i, row := range data {
		if len(row) != n {
			return &ShapeError{
				Dims:   1,
				Reason: fmt.Sprintf("channel %d has %d samples, channel 0 has %d", i, len(row), n),
			}
		}
	}

	return nil
}

// SyntheticChannelNames returns "1".."n".
func SyntheticChannelNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i + 1)
	}
	return names
}

// NumChannels returns the channel count.
func (r *RawSignal) NumChannels() int { return len(r.Data) }

// Samples returns the number of samples per channel.
func (r *RawSignal) Samples() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0])
}

// Duration returns the recording length in seconds.
func (r *RawSignal) Duration() float64 {
	return float64(r.Samples()) / r.SampleRate
}

// Index returns the row of the named channel.
func (r *RawSignal) Index(name string) (int, error) {
	for i, ch := range r.Channels {
		if ch == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Indices resolves several channel names at once, preserving their order.
func (r *RawSignal) Indices(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		idx, err := r.Index(name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Pick returns a new RawSignal holding only the named channels, in the
// requested order. Rows are shared with r.
func (r *RawSignal) Pick(names []string) (*RawSignal, error) {
	idx, err := r.Indices(names)
	if err != nil {
		return nil, err
	}

	data := make([][]float64, len(idx))
	for i, k := range idx {
		data[i] = r.Data[k]
	}

	return &RawSignal{
		Data:       data,
		SampleRate: r.SampleRate,
		Channels:   append([]string(nil), names...),
		Montage:    r.Montage,
	}, nil
}

// CropTime drops every sample before tmin seconds and returns the shifted
// recording. Event markers recorded against the uncropped signal must be
// shifted by the returned offset (in samples).
func (r *RawSignal) CropTime(tmin float64) (*RawSignal, int, error) {
	if tmin < 0 {
		return nil, 0, fmt.Errorf("eeg: crop tmin must be >= 0: %v", tmin)
	}

	offset := int(math.Round(tmin * r.SampleRate))
	if offset >= r.Samples() {
		return nil, 0, fmt.Errorf("eeg: crop tmin %.3fs beyond recording end %.3fs", tmin, r.Duration())
	}

	data := make([][]float64, len(r.Data))
	for i, row := range r.Data {
		data[i] = row[offset:]
	}

	return &RawSignal{
		Data:       data,
		SampleRate: r.SampleRate,
		Channels:   append([]string(nil), r.Channels...),
		Montage:    r.Montage,
	}, offset, nil
}

// WithData returns a copy of r that carries data instead of r.Data. It is
// used by preprocessing stages that produce a same-shape matrix.
func (r *RawSignal) WithData(data [][]float64) (*RawSignal, error) {
	if err := ValidateShape(data); err != nil {
		return nil, err
	}
	if len(data) != len(r.Data) || len(data[0]) != r.Samples() {
		return nil, &ShapeError{
			Dims:   2,
			Reason: fmt.Sprintf("got %dx%d, want %dx%d", len(data), len(data[0]), len(r.Data), r.Samples()),
		}
	}

	return &RawSignal{
		Data:       data,
		SampleRate: r.SampleRate,
		Channels:   append([]string(nil), r.Channels...),
		Montage:    r.Montage,
	}, nil
}

func copyMatrix(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
