package window

import "math"

// solveTridiagonal solves A x = b in place for a tridiagonal A given by its
// sub-diagonal lo, diagonal d and super-diagonal up, using Gaussian
// elimination with partial pivoting. lo, d and up are overwritten; b holds
// the solution on return. Zero pivots are replaced by a tiny value, which is
// what inverse iteration on an exactly singular shift needs.
func solveTridiagonal(lo, d, up, b []float64) {
	n := len(d)
	const tiny = 1e-30
	for i := 0; i < n-1; i++ {
		if math.Abs(d[i]) >= math.Abs(lo[i]) {
			if d[i] == 0 {
				d[i] = tiny
			}
			fact := lo[i] / d[i]
			d[i+1] -= fact * up[i]
			b[i+1] -= fact * b[i]
			lo[i] = 0
			continue
		}

		// Swap rows i and i+1; lo[i] then holds the fill-in of row i.
		fact := d[i] / lo[i]
		d[i] = lo[i]
		tmp := d[i+1]
		d[i+1] = up[i] - fact*tmp
		if i < n-2 {
			lo[i] = up[i+1]
			up[i+1] = -fact * lo[i]
		} else {
			lo[i] = 0
		}
		up[i] = tmp
		b[i], b[i+1] = b[i+1], b[i]-fact*b[i+1]
	}
	if d[n-1] == 0 {
		d[n-1] = tiny
	}

	b[n-1] /= d[n-1]
	if n > 1 {
		b[n-2] = (b[n-2] - up[n-2]*b[n-1]) / d[n-2]
	}
	for i := n - 3; i >= 0; i-- {
		b[i] = (b[i] - up[i]*b[i+1] - lo[i]*b[i+2]) / d[i]
	}
}
