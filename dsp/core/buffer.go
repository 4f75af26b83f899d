package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureLenComplex is [EnsureLen] for complex scratch buffers.
func EnsureLenComplex(buf []complex128, n int) []complex128 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]complex128, n)
}

// ZeroComplex sets all values in buf to 0.
func ZeroComplex(buf []complex128) {
	for i := range buf {
		buf[i] = 0
	}
}
