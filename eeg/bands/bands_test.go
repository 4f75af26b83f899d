package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLabel(t *testing.T) {
	tbl := Default()
	require.NoError(t, tbl.Validate())

	tests := []struct {
		freq float64
		want string
		ok   bool
	}{
		{2, "delta", true},
		{3, "delta", true},
		{3.0001, "theta", true},
		{10, "alpha", true},
		{13, "alpha", true},
		{13.5, "beta", true},
		{36, "gamma", true},
		{140, "gamma", true},
		{0, "", false},
		{-1, "", false},
		{141, "", false},
	}
	for _, tt := range tests {
		got, ok := tbl.Label(tt.freq)
		assert.Equal(t, tt.ok, ok, "freq %v", tt.freq)
		assert.Equal(t, tt.want, got, "freq %v", tt.freq)
	}
}

func TestDefaultIsFresh(t *testing.T) {
	a := Default()
	a.Bands[0].Name = "changed"
	assert.Equal(t, "delta", Default().Bands[0].Name)
}

func TestValidate(t *testing.T) {
	bad := []Table{
		{},
		{Bands: []Band{{Name: "a", Upper: 3}, {Name: "b", Upper: 3}}},
		{Lower: 5, Bands: []Band{{Name: "a", Upper: 3}}},
		{Bands: []Band{{Name: "a", Upper: 3}, {Name: "a", Upper: 4}}},
		{Bands: []Band{{Upper: 3}}},
	}
	for i, tbl := range bad {
		assert.ErrorIs(t, tbl.Validate(), ErrTable, "table %d", i)
	}
}

func TestKeep(t *testing.T) {
	sub, err := Default().Keep("beta", "alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, sub.Names())

	name, ok := sub.Label(10)
	assert.True(t, ok)
	assert.Equal(t, "alpha", name)

	_, ok = sub.Label(5)
	assert.False(t, ok)

	_, err = Default().Keep("mu")
	assert.ErrorIs(t, err, ErrTable)
}
