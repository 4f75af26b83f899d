package conv

import (
	"errors"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
	ErrKernelIndex    = errors.New("conv: kernel index out of range")
	ErrNotLoaded      = errors.New("conv: no signal loaded")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input,
	// starting at offset (len(b)-1)/2 of the full result.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// OutputLen returns the output length of a convolution of lengths lenA and
// lenB in the given mode.
func OutputLen(lenA, lenB int, mode Mode) int {
	switch mode {
	case ModeSame:
		return lenA
	case ModeValid:
		if lenA >= lenB {
			return lenA - lenB + 1
		}
		return lenB - lenA + 1
	default:
		return lenA + lenB - 1
	}
}

// offset returns the start of the mode's window within the full result.
func offset(lenA, lenB int, mode Mode) int {
	switch mode {
	case ModeSame:
		return (lenB - 1) / 2
	case ModeValid:
		if lenA >= lenB {
			return lenB - 1
		}
		return lenA - 1
	default:
		return 0
	}
}

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm used as reference and for short kernels.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, h := range b {
			out[i+j] += x * h
		}
	}
	return out, nil
}

// DirectComplex convolves a real signal with a complex kernel in the time
// domain and returns the requested mode's window.
func DirectComplex(x []float64, kernel []complex128, mode Mode) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	full := make([]complex128, len(x)+len(kernel)-1)
	for i, v := range x {
		c := complex(v, 0)
		for j, h := range kernel {
			full[i+j] += c * h
		}
	}
	start := offset(len(x), len(kernel), mode)
	return full[start : start+OutputLen(len(x), len(kernel), mode)], nil
}
