// Package spectrum accumulates power of complex analytic signals such as
// wavelet convolution outputs.
//
// The package does not implement FFT itself. It uses SIMD kernels from
// algo-vecmath where available.
package spectrum
