package eeg

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is wrapped by every [ShapeError].
	ErrShape = errors.New("eeg: invalid signal shape")
	// ErrSampleRate reports a non-positive or non-finite sample rate.
	ErrSampleRate = errors.New("eeg: sample rate must be > 0")
	// ErrUnknownChannel reports a channel name that is not part of the recording.
	ErrUnknownChannel = errors.New("eeg: unknown channel")
	// ErrNegativeSample reports an event marker before the first sample.
	ErrNegativeSample = errors.New("eeg: event sample index must be >= 0")
)

// ShapeError describes why an input matrix is not a channels x samples array.
type ShapeError struct {
	Dims   int // observed dimensionality, 2 when rectangular
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("eeg: data must have shape (n_channels, n_samples): %s", e.Reason)
}

// Unwrap lets errors.Is match [ErrShape].
func (e *ShapeError) Unwrap() error { return ErrShape }
