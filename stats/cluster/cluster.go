package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTooFewObservations is returned for fewer than two observations,
	// where the t statistic is undefined.
	ErrTooFewObservations = errors.New("cluster: need at least two observations")

	// ErrShape is returned for empty or ragged observation grids.
	ErrShape = errors.New("cluster: observations must be equally shaped non-empty freq x time grids")

	// ErrTail is returned for a tail other than -1, 0 or 1.
	ErrTail = errors.New("cluster: tail must be -1, 0 or 1")

	// ErrPermutations is returned when no permutation is requested.
	ErrPermutations = errors.New("cluster: need at least one permutation")
)

// Cluster is one connected region of supra-threshold t values.
type Cluster struct {
	Mask Mask
	// Sign is +1 for a positive cluster, -1 for a negative one.
	Sign int
	// Stat is the sum of t over the cluster.
	Stat float64
	P    float64
}

// Result is the outcome of a cluster permutation test.
type Result struct {
	// T is the observed freq x time t statistic.
	T [][]float64
	// Threshold is the magnitude of the cluster-forming threshold.
	Threshold float64
	Tail      int
	Clusters  []Cluster
	// Null holds the permutation distribution of the final step-down
	// iteration. Null[0] comes from the unpermuted data.
	Null []float64
}

// Mask returns the union of all clusters with p <= alpha.
func (r *Result) Mask(alpha float64) Mask {
	nF := len(r.T)
	nT := 0
	if nF > 0 {
		nT = len(r.T[0])
	}
	out := NewMask(nF, nT)
	for _, c := range r.Clusters {
		if c.P <= alpha {
			out = out.Union(c.Mask)
		}
	}
	return out
}

// OneSample tests whether data (observations x freq x time) differs from
// zero. See the package documentation for the procedure.
func OneSample(data [][][]float64, opts ...Option) (*Result, error) {
	cfg := ApplyOptions(opts...)
	if cfg.Tail < -1 || cfg.Tail > 1 {
		return nil, fmt.Errorf("%w: %d", ErrTail, cfg.Tail)
	}
	if cfg.Permutations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrPermutations, cfg.Permutations)
	}
	x, nF, nT, err := flatten(data)
	if err != nil {
		return nil, err
	}
	n := len(x)

	thr := threshold(n, cfg)
	sumsq := make([]float64, nF*nT)
	for _, obs := range x {
		for i, v := range obs {
			sumsq[i] += v * v
		}
	}

	signs := flipPatterns(n, cfg.Permutations, cfg.Seed)
	tObs := tstat(x, sumsq, signs[0], nil)

	var observed [][]int
	var obsSign []int
	for _, sign := range tailSigns(cfg.Tail) {
		for _, c := range components(tObs, nF, nT, float64(sign), thr, nil) {
			observed = append(observed, c)
			obsSign = append(obsSign, sign)
		}
	}
	stats := make([]float64, len(observed))
	for i, c := range observed {
		for _, p := range c {
			stats[i] += tObs[p]
		}
	}

	pvals := make([]float64, len(observed))
	var (
		exclude []bool
		null    []float64
		removed int
		tbuf    = make([]float64, nF*nT)
	)
	for iter := 0; ; iter++ {
		null = make([]float64, len(signs))
		for s, pattern := range signs {
			tstat(x, sumsq, pattern, tbuf)
			null[s] = maxStat(tbuf, nF, nT, cfg.Tail, thr, exclude)
		}
		for i, st := range stats {
			pvals[i] = pValue(st, null, cfg.Tail)
		}

		if cfg.StepDown <= 0 {
			break
		}
		sig := 0
		next := make([]bool, nF*nT)
		for i, c := range observed {
			if pvals[i] < cfg.StepDown {
				sig++
				for _, p := range c {
					next[p] = true
				}
			}
		}
		cfg.Logger.Debug("cluster step-down", "iteration", iter, "significant", sig)
		if sig <= removed {
			break
		}
		removed = sig
		exclude = next
	}

	res := &Result{
		T:         unflatten(tObs, nF, nT),
		Threshold: thr,
		Tail:      cfg.Tail,
		Null:      null,
	}
	for i, c := range observed {
		m := NewMask(nF, nT)
		for _, p := range c {
			m[p/nT][p%nT] = true
		}
		res.Clusters = append(res.Clusters, Cluster{Mask: m, Sign: obsSign[i], Stat: stats[i], P: pvals[i]})
	}
	cfg.Logger.Info("cluster test", "observations", n, "tail", cfg.Tail, "threshold", thr,
		"clusters", len(res.Clusters), "permutations", len(signs))
	return res, nil
}

// TwoTailedMask runs an upper and a lower single-tailed test and returns
// the union of their clusters with p <= alpha.
func TwoTailedMask(data [][][]float64, alpha float64, opts ...Option) (Mask, error) {
	opts = opts[:len(opts):len(opts)]
	up, err := OneSample(data, append(opts, WithTail(1))...)
	if err != nil {
		return nil, err
	}
	down, err := OneSample(data, append(opts, WithTail(-1))...)
	if err != nil {
		return nil, err
	}
	return up.Mask(alpha).Union(down.Mask(alpha)), nil
}

func flatten(data [][][]float64) ([][]float64, int, int, error) {
	if len(data) < 2 {
		return nil, 0, 0, fmt.Errorf("%w: got %d", ErrTooFewObservations, len(data))
	}
	nF := len(data[0])
	if nF == 0 || len(data[0][0]) == 0 {
		return nil, 0, 0, ErrShape
	}
	nT := len(data[0][0])
	x := make([][]float64, len(data))
	for o, grid := range data {
		if len(grid) != nF {
			return nil, 0, 0, fmt.Errorf("%w: observation %d has %d rows, want %d", ErrShape, o, len(grid), nF)
		}
		x[o] = make([]float64, 0, nF*nT)
		for f, row := range grid {
			if len(row) != nT {
				return nil, 0, 0, fmt.Errorf("%w: observation %d row %d has %d columns, want %d", ErrShape, o, f, len(row), nT)
			}
			x[o] = append(x[o], row...)
		}
	}
	return x, nF, nT, nil
}

func unflatten(v []float64, nF, nT int) [][]float64 {
	out := make([][]float64, nF)
	for f := range out {
		out[f] = append([]float64(nil), v[f*nT:(f+1)*nT]...)
	}
	return out
}

func threshold(n int, cfg Config) float64 {
	if cfg.Threshold != nil {
		return math.Abs(*cfg.Threshold)
	}
	p := 0.05
	if cfg.Tail == 0 {
		p /= 2
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - p)
}

func tailSigns(tail int) []int {
	switch tail {
	case 1:
		return []int{1}
	case -1:
		return []int{-1}
	default:
		return []int{1, -1}
	}
}

// flipPatterns returns the sign patterns of the null distribution. The
// first pattern is the identity. All 2^n patterns are enumerated when
// that does not exceed perms.
func flipPatterns(n, perms int, seed uint64) [][]float64 {
	if n < 31 && 1<<n <= perms {
		out := make([][]float64, 1<<n)
		for p := range out {
			s := make([]float64, n)
			for i := range s {
				s[i] = 1
				if p&(1<<i) != 0 {
					s[i] = -1
				}
			}
			out[p] = s
		}
		return out
	}

	rng := rand.New(rand.NewPCG(seed, 0))
	out := make([][]float64, perms)
	for p := range out {
		s := make([]float64, n)
		for i := range s {
			s[i] = 1
			if p > 0 && rng.IntN(2) == 1 {
				s[i] = -1
			}
		}
		out[p] = s
	}
	return out
}

// tstat computes the one-sample t of the sign-flipped observations into
// dst. Points with zero variance get t = 0.
func tstat(x [][]float64, sumsq, signs, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(sumsq))
	}
	clear(dst)
	for o, obs := range x {
		s := signs[o]
		for i, v := range obs {
			dst[i] += s * v
		}
	}
	n := float64(len(x))
	for i, sum := range dst {
		mean := sum / n
		v := (sumsq[i] - n*mean*mean) / (n - 1)
		if v <= 1e-12*sumsq[i]/(n-1) || v <= 0 {
			dst[i] = 0
			continue
		}
		dst[i] = mean / math.Sqrt(v/n)
	}
	return dst
}

// maxStat returns the extreme cluster statistic of t for the tail.
func maxStat(t []float64, nF, nT, tail int, thr float64, exclude []bool) float64 {
	best := 0.0
	for _, sign := range tailSigns(tail) {
		for _, c := range components(t, nF, nT, float64(sign), thr, exclude) {
			sum := 0.0
			for _, p := range c {
				sum += t[p]
			}
			switch tail {
			case 1:
				best = max(best, sum)
			case -1:
				best = min(best, sum)
			default:
				best = max(best, math.Abs(sum))
			}
		}
	}
	return best
}

func pValue(stat float64, null []float64, tail int) float64 {
	count := 0
	for _, v := range null {
		switch tail {
		case 1:
			if v >= stat {
				count++
			}
		case -1:
			if v <= stat {
				count++
			}
		default:
			if v >= math.Abs(stat) {
				count++
			}
		}
	}
	// The unpermuted data is always one of the null samples, even when
	// step-down excluded its clusters.
	count = max(count, 1)
	return float64(count) / float64(len(null))
}
