package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-erds/dsp/core"
)

// Bank convolves real signals of a fixed length with a set of complex
// kernels through one shared FFT size.
//
// The kernel spectra are computed once in NewBank. Load transforms a signal,
// after which Apply produces the convolution with any kernel of the bank
// at the cost of one spectral product and one inverse FFT.
//
// A Bank is not safe for concurrent use.
type Bank struct {
	plan      *algofft.Plan[complex128]
	fftSize   int
	signalLen int

	kernelLens []int
	kernelFFT  [][]complex128

	signalFFT []complex128
	loaded    bool

	scratchIn  []complex128
	scratchOut []complex128
}

// NewBank prepares a bank for signals of length signalLen.
func NewBank(kernels [][]complex128, signalLen int) (*Bank, error) {
	if signalLen <= 0 {
		return nil, ErrEmptyInput
	}
	if len(kernels) == 0 {
		return nil, ErrEmptyKernel
	}

	maxLen := 0
	for i, k := range kernels {
		if len(k) == 0 {
			return nil, fmt.Errorf("%w: kernel %d", ErrEmptyKernel, i)
		}
		maxLen = max(maxLen, len(k))
	}

	fftSize := core.NextPowerOfTwo(signalLen + maxLen - 1)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	b := &Bank{
		plan:       plan,
		fftSize:    fftSize,
		signalLen:  signalLen,
		kernelLens: make([]int, len(kernels)),
		kernelFFT:  make([][]complex128, len(kernels)),
		signalFFT:  make([]complex128, fftSize),
		scratchIn:  make([]complex128, fftSize),
		scratchOut: make([]complex128, fftSize),
	}

	for i, k := range kernels {
		core.ZeroComplex(b.scratchIn)
		copy(b.scratchIn, k)
		spec := make([]complex128, fftSize)
		if err := plan.Forward(spec, b.scratchIn); err != nil {
			return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
		}
		b.kernelLens[i] = len(k)
		b.kernelFFT[i] = spec
	}
	return b, nil
}

// Len returns the number of kernels in the bank.
func (b *Bank) Len() int { return len(b.kernelFFT) }

// FFTSize returns the FFT size used internally.
func (b *Bank) FFTSize() int { return b.fftSize }

// KernelLen returns the length of kernel k.
func (b *Bank) KernelLen(k int) int { return b.kernelLens[k] }

// Load transforms x, which must have the bank's signal length.
func (b *Bank) Load(x []float64) error {
	if len(x) != b.signalLen {
		return fmt.Errorf("%w: signal length %d, bank expects %d", ErrLengthMismatch, len(x), b.signalLen)
	}
	core.ZeroComplex(b.scratchIn)
	for i, v := range x {
		b.scratchIn[i] = complex(v, 0)
	}
	if err := b.plan.Forward(b.signalFFT, b.scratchIn); err != nil {
		return fmt.Errorf("conv: forward FFT: %w", err)
	}
	b.loaded = true
	return nil
}

// Apply writes the convolution of the loaded signal with kernel k into dst
// and returns it. dst is grown when too short; pass nil to allocate.
func (b *Bank) Apply(k int, dst []complex128, mode Mode) ([]complex128, error) {
	if !b.loaded {
		return nil, ErrNotLoaded
	}
	if k < 0 || k >= len(b.kernelFFT) {
		return nil, fmt.Errorf("%w: %d", ErrKernelIndex, k)
	}

	spec := b.kernelFFT[k]
	for i, v := range b.signalFFT {
		b.scratchIn[i] = v * spec[i]
	}
	if err := b.plan.Inverse(b.scratchOut, b.scratchIn); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT: %w", err)
	}

	n := OutputLen(b.signalLen, b.kernelLens[k], mode)
	start := offset(b.signalLen, b.kernelLens[k], mode)
	dst = core.EnsureLenComplex(dst, n)
	copy(dst, b.scratchOut[start:start+n])
	return dst, nil
}

// ConvolveComplex is a one-shot FFT convolution of a real signal with a
// complex kernel.
func ConvolveComplex(x []float64, kernel []complex128, mode Mode) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	b, err := NewBank([][]complex128{kernel}, len(x))
	if err != nil {
		return nil, err
	}
	if err := b.Load(x); err != nil {
		return nil, err
	}
	return b.Apply(0, nil, mode)
}
