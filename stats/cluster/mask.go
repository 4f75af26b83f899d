package cluster

// Mask is a freq x time grid of booleans.
type Mask [][]bool

// NewMask returns an all-false mask.
func NewMask(freqs, times int) Mask {
	m := make(Mask, freqs)
	for f := range m {
		m[f] = make([]bool, times)
	}
	return m
}

// Union returns the per-point OR of m and o, which must share a shape.
func (m Mask) Union(o Mask) Mask {
	out := make(Mask, len(m))
	for f := range m {
		out[f] = make([]bool, len(m[f]))
		for k := range m[f] {
			out[f][k] = m[f][k] || (f < len(o) && k < len(o[f]) && o[f][k])
		}
	}
	return out
}

// Count returns the number of set points.
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Contains reports whether every point set in o is also set in m.
func (m Mask) Contains(o Mask) bool {
	for f := range o {
		for k, v := range o[f] {
			if v && !m[f][k] {
				return false
			}
		}
	}
	return true
}
