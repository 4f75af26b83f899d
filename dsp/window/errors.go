package window

import (
	"errors"
	"fmt"
)

var (
	// ErrTaperCount is returned when more DPSS tapers are requested than the
	// window length allows.
	ErrTaperCount = errors.New("window: invalid taper count")

	// ErrEigen is returned when the tridiagonal eigenvalue solver fails to converge.
	ErrEigen = errors.New("window: eigenvalue solver did not converge")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateGauss(size int, sigma float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if sigma <= 0 {
		return fmt.Errorf("gauss sigma must be > 0: %f", sigma)
	}
	return nil
}

func validateDPSS(size int, halfBandwidth float64, count int) error {
	if size <= 0 {
		return validateLength(size)
	}
	if halfBandwidth <= 0 || halfBandwidth >= float64(size)/2 {
		return fmt.Errorf("dpss half bandwidth must be in (0, %d/2): %f", size, halfBandwidth)
	}
	if count <= 0 || count > size {
		return fmt.Errorf("%w: %d tapers for length %d", ErrTaperCount, count, size)
	}
	return nil
}
