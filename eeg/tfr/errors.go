package tfr

import "errors"

var (
	// ErrBaselineCropMismatch is returned when only one of a baseline and a
	// crop window is configured.
	ErrBaselineCropMismatch = errors.New("tfr: baseline and crop windows must be given together")
	// ErrBaselineOutOfRange reports a baseline window outside the time axis.
	ErrBaselineOutOfRange = errors.New("tfr: baseline window outside time axis")
	// ErrWaveletTooLong reports a wavelet longer than the epoch.
	ErrWaveletTooLong = errors.New("tfr: wavelet longer than epoch")
	// ErrGrid reports an invalid frequency grid.
	ErrGrid = errors.New("tfr: invalid frequency grid")
	// ErrMode reports an unknown baseline mode.
	ErrMode = errors.New("tfr: unknown baseline mode")
	// ErrNoEpochs is returned when a computation has no epochs to work on.
	ErrNoEpochs = errors.New("tfr: no epochs")
	// ErrUnknownCondition reports a condition label absent from the tensor.
	ErrUnknownCondition = errors.New("tfr: unknown condition")
	// ErrEmptyWindow reports a crop window that selects no time points.
	ErrEmptyWindow = errors.New("tfr: window selects no time points")
)
