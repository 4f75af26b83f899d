package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/internal/testutil"
)

type region struct{ f0, f1, k0, k1 int }

func (r region) has(f, k int) bool { return f >= r.f0 && f <= r.f1 && k >= r.k0 && k <= r.k1 }

func (r region) mask(nF, nT int) Mask {
	m := NewMask(nF, nT)
	for f := r.f0; f <= r.f1; f++ {
		for k := r.k0; k <= r.k1; k++ {
			m[f][k] = true
		}
	}
	return m
}

// effectData returns n observations of uniform noise in [-1, 1] with
// mean shifts of +5 inside up and -5 inside down.
func effectData(n, nF, nT int, up, down *region) [][][]float64 {
	out := make([][][]float64, n)
	for o := range out {
		noise := testutil.DeterministicNoise(int64(o+1), 1, nF*nT)
		out[o] = make([][]float64, nF)
		for f := range out[o] {
			out[o][f] = make([]float64, nT)
			for k := range out[o][f] {
				v := noise[f*nT+k]
				switch {
				case up != nil && up.has(f, k):
					v = 5 + 0.5*v
				case down != nil && down.has(f, k):
					v = -5 + 0.5*v
				}
				out[o][f][k] = v
			}
		}
	}
	return out
}

func TestOneSampleFindsPositiveCluster(t *testing.T) {
	r := region{1, 2, 2, 4}
	data := effectData(10, 5, 8, &r, nil)

	res, err := OneSample(data, WithTail(1), WithPermutations(1024))
	require.NoError(t, err)
	assert.Len(t, res.Null, 1024)

	mask := res.Mask(0.05)
	assert.True(t, mask.Contains(r.mask(5, 8)))
	for _, c := range res.Clusters {
		assert.Equal(t, 1, c.Sign)
		assert.Greater(t, c.Stat, 0.0)
		if c.Mask.Contains(r.mask(5, 8)) {
			assert.InDelta(t, 1.0/1024, c.P, 1e-12)
		}
	}
}

func TestOneSampleZeroVariance(t *testing.T) {
	data := make([][][]float64, 4)
	for o := range data {
		data[o] = [][]float64{{1, 1, 1}, {2, 2, 2}}
	}
	res, err := OneSample(data)
	require.NoError(t, err)
	for _, row := range res.T {
		for _, v := range row {
			assert.Zero(t, v)
		}
	}
	assert.Empty(t, res.Clusters)
	assert.Zero(t, res.Mask(1).Count())
}

func TestDefaultThreshold(t *testing.T) {
	data := effectData(10, 2, 3, nil, nil)
	tests := []struct {
		tail int
		want float64
	}{
		{1, 1.833},
		{-1, 1.833},
		{0, 2.262},
	}
	for _, tt := range tests {
		res, err := OneSample(data, WithTail(tt.tail))
		require.NoError(t, err)
		assert.InDelta(t, tt.want, res.Threshold, 1e-3, "tail %d", tt.tail)
	}

	res, err := OneSample(data, WithThreshold(-3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Threshold)
}

func TestMaskMonotoneInAlpha(t *testing.T) {
	r := region{0, 1, 1, 2}
	data := effectData(8, 4, 6, &r, nil)
	// Weaken the effect so p values spread out.
	for o := range data {
		for f := range data[o] {
			for k := range data[o][f] {
				if r.has(f, k) {
					data[o][f][k] -= 4.6
				}
			}
		}
	}
	res, err := OneSample(data, WithPermutations(200))
	require.NoError(t, err)

	alphas := []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1}
	for i := 1; i < len(alphas); i++ {
		lo, hi := res.Mask(alphas[i-1]), res.Mask(alphas[i])
		assert.True(t, hi.Contains(lo), "alpha %v vs %v", alphas[i-1], alphas[i])
	}
	assert.Equal(t, 0, res.Mask(0).Count())
}

func TestObservedIsFirstNullSample(t *testing.T) {
	r := region{0, 0, 0, 1}
	data := effectData(5, 2, 4, &r, nil)
	res, err := OneSample(data, WithTail(1), WithStepDown(0))
	require.NoError(t, err)
	// 2^5 <= 100: exact enumeration.
	require.Len(t, res.Null, 32)

	best := 0.0
	for _, c := range res.Clusters {
		best = max(best, c.Stat)
	}
	assert.Equal(t, best, res.Null[0])
	for _, c := range res.Clusters {
		assert.GreaterOrEqual(t, c.P, 1.0/32)
	}
}

func TestSeedDeterminism(t *testing.T) {
	r := region{1, 1, 1, 3}
	data := effectData(12, 3, 5, &r, nil)

	a, err := OneSample(data, WithSeed(7), WithPermutations(50))
	require.NoError(t, err)
	b, err := OneSample(data, WithSeed(7), WithPermutations(50))
	require.NoError(t, err)
	assert.Equal(t, a.Null, b.Null)
	assert.Equal(t, a.Clusters, b.Clusters)
	assert.Len(t, a.Null, 50)
}

func TestStepDownNeverRaisesP(t *testing.T) {
	strong := region{0, 1, 0, 2}
	data := effectData(10, 6, 8, &strong, nil)
	for o := range data {
		data[o][4][5] += 1.2
		data[o][4][6] += 1.2
	}

	plain, err := OneSample(data, WithTail(1), WithStepDown(0), WithPermutations(300))
	require.NoError(t, err)
	stepped, err := OneSample(data, WithTail(1), WithPermutations(300))
	require.NoError(t, err)

	require.Len(t, stepped.Clusters, len(plain.Clusters))
	for i := range plain.Clusters {
		assert.LessOrEqual(t, stepped.Clusters[i].P, plain.Clusters[i].P)
	}
}

func TestTwoTailedMask(t *testing.T) {
	up := region{0, 1, 0, 1}
	down := region{3, 4, 5, 6}
	data := effectData(10, 5, 8, &up, &down)

	mask, err := TwoTailedMask(data, 0.05, WithPermutations(1024))
	require.NoError(t, err)
	assert.True(t, mask.Contains(up.mask(5, 8)))
	assert.True(t, mask.Contains(down.mask(5, 8)))

	onlyUp, err := OneSample(data, WithTail(1), WithPermutations(1024))
	require.NoError(t, err)
	assert.False(t, onlyUp.Mask(0.05).Contains(down.mask(5, 8)))
}

func TestOneSampleErrors(t *testing.T) {
	good := effectData(3, 2, 2, nil, nil)

	_, err := OneSample(good[:1])
	assert.ErrorIs(t, err, ErrTooFewObservations)

	ragged := effectData(3, 2, 2, nil, nil)
	ragged[2][1] = ragged[2][1][:1]
	_, err = OneSample(ragged)
	assert.ErrorIs(t, err, ErrShape)

	_, err = OneSample([][][]float64{{}, {}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = OneSample(good, WithTail(2))
	assert.ErrorIs(t, err, ErrTail)

	_, err = OneSample(good, WithPermutations(0))
	assert.ErrorIs(t, err, ErrPermutations)
}

func TestComponentsFourConnected(t *testing.T) {
	// Diagonal neighbours are separate clusters.
	tv := []float64{
		3, 0, 0,
		0, 3, 0,
		0, 0, -3,
	}
	assert.Len(t, components(tv, 3, 3, 1, 2, nil), 2)
	assert.Len(t, components(tv, 3, 3, -1, 2, nil), 1)

	tv = []float64{
		3, 3, 0,
		0, 3, 0,
		0, 3, 3,
	}
	comps := components(tv, 3, 3, 1, 2, nil)
	require.Len(t, comps, 1)
	assert.Len(t, comps[0], 5)

	exclude := []bool{false, false, false, false, true, false, false, false, false}
	assert.Len(t, components(tv, 3, 3, 1, 2, exclude), 2)
}

func TestMaskUnion(t *testing.T) {
	a := Mask{{true, false}, {false, false}}
	b := Mask{{false, false}, {false, true}}
	u := a.Union(b)
	assert.Equal(t, Mask{{true, false}, {false, true}}, u)
	assert.Equal(t, 2, u.Count())
	assert.True(t, u.Contains(a))
	assert.False(t, a.Contains(u))
}
