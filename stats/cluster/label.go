package cluster

// components returns the 4-connected regions of points where
// t*sign > thr, skipping excluded points. Points are flat indices
// f*nT + k.
func components(t []float64, nF, nT int, sign, thr float64, exclude []bool) [][]int {
	seen := make([]bool, len(t))
	var (
		out   [][]int
		stack []int
	)
	in := func(i int) bool {
		return !seen[i] && (exclude == nil || !exclude[i]) && t[i]*sign > thr
	}
	for start := range t {
		if !in(start) {
			continue
		}
		seen[start] = true
		stack = append(stack[:0], start)
		var comp []int
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, i)

			f, k := i/nT, i%nT
			if f > 0 && in(i-nT) {
				seen[i-nT] = true
				stack = append(stack, i-nT)
			}
			if f < nF-1 && in(i+nT) {
				seen[i+nT] = true
				stack = append(stack, i+nT)
			}
			if k > 0 && in(i-1) {
				seen[i-1] = true
				stack = append(stack, i-1)
			}
			if k < nT-1 && in(i+1) {
				seen[i+1] = true
				stack = append(stack, i+1)
			}
		}
		out = append(out, comp)
	}
	return out
}
