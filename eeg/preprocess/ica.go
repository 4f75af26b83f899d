package preprocess

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-erds/eeg"
)

var (
	ErrComponents    = errors.New("preprocess: invalid number of ICA components")
	ErrRankDeficient = errors.New("preprocess: data covariance is rank deficient")
	ErrExclude       = errors.New("preprocess: excluded component out of range")
	ErrICAShape      = errors.New("preprocess: data does not match fitted ICA")
)

// ICAConfig holds FastICA parameters.
type ICAConfig struct {
	MaxIter int
	Tol     float64
	Seed    uint64
	Logger  *slog.Logger
}

// ICAOption mutates an ICAConfig.
type ICAOption func(*ICAConfig)

// DefaultICAConfig returns 200 iterations, tolerance 1e-4 and seed 1.
func DefaultICAConfig() ICAConfig {
	return ICAConfig{
		MaxIter: 200,
		Tol:     1e-4,
		Seed:    1,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMaxIter bounds the number of fixed-point iterations.
func WithMaxIter(n int) ICAOption { return func(c *ICAConfig) { c.MaxIter = n } }

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) ICAOption { return func(c *ICAConfig) { c.Tol = tol } }

// WithICASeed seeds the initial unmixing matrix.
func WithICASeed(seed uint64) ICAOption { return func(c *ICAConfig) { c.Seed = seed } }

// WithICALogger sets the logger.
func WithICALogger(l *slog.Logger) ICAOption {
	return func(c *ICAConfig) {
		if l != nil {
			c.Logger = l
		}
	}
}

// ICA is a fitted FastICA decomposition of channels x samples data.
type ICA struct {
	// Mean is the per-channel mean removed before unmixing.
	Mean []float64
	// Unmixing maps centred channels to components (components x channels).
	Unmixing *mat.Dense
	// Mixing maps components back to channels (channels x components).
	Mixing     *mat.Dense
	Iterations int
	Converged  bool
}

// NumComponents returns the number of fitted components.
func (ica *ICA) NumComponents() int {
	r, _ := ica.Unmixing.Dims()
	return r
}

// FitICA fits nComponents independent components to data using PCA
// whitening and symmetric FastICA with the logcosh contrast.
func FitICA(data [][]float64, nComponents int, opts ...ICAOption) (*ICA, error) {
	cfg := DefaultICAConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := eeg.ValidateShape(data); err != nil {
		return nil, err
	}
	nCh, n := len(data), len(data[0])
	if nComponents < 1 || nComponents > nCh || nComponents > n {
		return nil, fmt.Errorf("%w: %d for %d channels", ErrComponents, nComponents, nCh)
	}

	mean := make([]float64, nCh)
	x := mat.NewDense(nCh, n, nil)
	for i, row := range data {
		for _, v := range row {
			mean[i] += v
		}
		mean[i] /= float64(n)
		dst := x.RawRowView(i)
		for j, v := range row {
			dst[j] = v - mean[i]
		}
	}

	k, kinv, err := whitening(x, nComponents)
	if err != nil {
		return nil, err
	}
	var z mat.Dense
	z.Mul(k, x)

	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	w0 := mat.NewDense(nComponents, nComponents, nil)
	for i := 0; i < nComponents; i++ {
		for j := 0; j < nComponents; j++ {
			w0.Set(i, j, rng.NormFloat64())
		}
	}
	w, err := symDecorrelate(w0)
	if err != nil {
		return nil, err
	}

	ica := &ICA{Mean: mean}
	for it := 1; it <= cfg.MaxIter; it++ {
		next, err := fastICAStep(w, &z)
		if err != nil {
			return nil, err
		}
		var prod mat.Dense
		prod.Mul(next, w.T())
		lim := 0.0
		for i := 0; i < nComponents; i++ {
			lim = max(lim, math.Abs(math.Abs(prod.At(i, i))-1))
		}
		w = next
		ica.Iterations = it
		if lim < cfg.Tol {
			ica.Converged = true
			break
		}
	}
	if !ica.Converged {
		cfg.Logger.Warn("ica did not converge", "iterations", ica.Iterations, "tolerance", cfg.Tol)
	}

	ica.Unmixing = &mat.Dense{}
	ica.Unmixing.Mul(w, k)
	ica.Mixing = &mat.Dense{}
	ica.Mixing.Mul(kinv, w.T())
	cfg.Logger.Info("ica fitted", "components", nComponents, "channels", nCh, "iterations", ica.Iterations)
	return ica, nil
}

// Sources returns the component activations (components x samples).
func (ica *ICA) Sources(data [][]float64) ([][]float64, error) {
	x, err := ica.centred(data)
	if err != nil {
		return nil, err
	}
	var s mat.Dense
	s.Mul(ica.Unmixing, x)
	return rows(&s), nil
}

// Apply returns data with the excluded components removed. Everything
// outside the span of the excluded components is kept unchanged, so an
// empty exclude list reproduces data.
func (ica *ICA) Apply(data [][]float64, exclude []int) ([][]float64, error) {
	x, err := ica.centred(data)
	if err != nil {
		return nil, err
	}
	nComp := ica.NumComponents()
	for _, c := range exclude {
		if c < 0 || c >= nComp {
			return nil, fmt.Errorf("%w: %d of %d", ErrExclude, c, nComp)
		}
	}

	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = append([]float64(nil), row...)
	}
	if len(exclude) == 0 {
		return out, nil
	}

	var s mat.Dense
	s.Mul(ica.Unmixing, x)
	for _, c := range exclude {
		src := s.RawRowView(c)
		for ch := range out {
			a := ica.Mixing.At(ch, c)
			for j, v := range src {
				out[ch][j] -= a * v
			}
		}
	}
	return out, nil
}

func (ica *ICA) centred(data [][]float64) (*mat.Dense, error) {
	if err := eeg.ValidateShape(data); err != nil {
		return nil, err
	}
	if len(data) != len(ica.Mean) {
		return nil, fmt.Errorf("%w: %d channels, fitted on %d", ErrICAShape, len(data), len(ica.Mean))
	}
	x := mat.NewDense(len(data), len(data[0]), nil)
	for i, row := range data {
		dst := x.RawRowView(i)
		for j, v := range row {
			dst[j] = v - ica.Mean[i]
		}
	}
	return x, nil
}

// whitening returns the PCA whitening matrix K (k x channels) projecting on
// the k leading components, and its pseudo-inverse (channels x k).
func whitening(x *mat.Dense, k int) (*mat.Dense, *mat.Dense, error) {
	nCh, n := x.Dims()
	var cov mat.SymDense
	cov.SymOuterK(1/float64(n), x)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return nil, nil, fmt.Errorf("%w: eigendecomposition failed", ErrRankDeficient)
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	white := mat.NewDense(k, nCh, nil)
	dewhite := mat.NewDense(nCh, k, nil)
	tiny := 1e-12 * math.Max(vals[nCh-1], 0)
	for r := 0; r < k; r++ {
		idx := nCh - 1 - r
		ev := vals[idx]
		if !(ev > tiny) {
			return nil, nil, fmt.Errorf("%w: component %d has variance %g", ErrRankDeficient, r, ev)
		}
		sd := math.Sqrt(ev)
		for c := 0; c < nCh; c++ {
			white.Set(r, c, vecs.At(c, idx)/sd)
			dewhite.Set(c, r, vecs.At(c, idx)*sd)
		}
	}
	return white, dewhite, nil
}

// fastICAStep is one symmetric fixed-point update with g = tanh.
func fastICAStep(w, z *mat.Dense) (*mat.Dense, error) {
	k, n := z.Dims()
	var wz mat.Dense
	wz.Mul(w, z)

	g := mat.NewDense(k, n, nil)
	gp := make([]float64, k)
	for i := 0; i < k; i++ {
		src := wz.RawRowView(i)
		dst := g.RawRowView(i)
		for j, u := range src {
			t := math.Tanh(u)
			dst[j] = t
			gp[i] += 1 - t*t
		}
		gp[i] /= float64(n)
	}

	var next mat.Dense
	next.Mul(g, z.T())
	next.Scale(1/float64(n), &next)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			next.Set(i, j, next.At(i, j)-gp[i]*w.At(i, j))
		}
	}
	return symDecorrelate(&next)
}

// symDecorrelate returns (W W^T)^(-1/2) W.
func symDecorrelate(w *mat.Dense) (*mat.Dense, error) {
	k, _ := w.Dims()
	var wwt mat.SymDense
	wwt.SymOuterK(1, w)

	var eig mat.EigenSym
	if !eig.Factorize(&wwt, true) {
		return nil, fmt.Errorf("%w: decorrelation failed", ErrRankDeficient)
	}
	vals := eig.Values(nil)
	var u mat.Dense
	eig.VectorsTo(&u)

	d := mat.NewDiagDense(k, nil)
	for i, v := range vals {
		if !(v > 0) {
			return nil, fmt.Errorf("%w: singular unmixing matrix", ErrRankDeficient)
		}
		d.SetDiag(i, 1/math.Sqrt(v))
	}
	var ud, inv, out mat.Dense
	ud.Mul(&u, d)
	inv.Mul(&ud, u.T())
	out.Mul(&inv, w)
	return &out, nil
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = append([]float64(nil), m.RawRowView(i)...)
	}
	return out
}
