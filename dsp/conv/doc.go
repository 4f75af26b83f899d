// Package conv provides linear convolution of real signals with real and
// complex kernels.
//
// [Direct] and [DirectComplex] are O(N*M) time-domain references. [Bank]
// is the FFT path used for wavelet transforms: kernel spectra are computed
// once and each loaded signal is convolved with every kernel by spectral
// multiplication.
//
// # Output modes
//
//   - [ModeFull]: length N+M-1
//   - [ModeSame]: length N, centred at offset (M-1)/2 of the full result
//   - [ModeValid]: only fully overlapping samples
package conv
