package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-erds/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 1); !errors.Is(err, ErrRatio) {
		t.Fatalf("up=0: err = %v, want ErrRatio", err)
	}
	if _, err := New(1, -2); !errors.Is(err, ErrRatio) {
		t.Fatalf("down<0: err = %v, want ErrRatio", err)
	}
	if _, err := New(1, 2, WithCutoffScale(1.5)); !errors.Is(err, ErrConfig) {
		t.Fatalf("cutoff: err = %v, want ErrConfig", err)
	}
	if _, err := NewForRates(0, 128); !errors.Is(err, ErrRate) {
		t.Fatalf("rate: err = %v, want ErrRate", err)
	}
}

func TestRatioReduction(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{512, 128, 1, 4},
		{500, 128, 32, 125},
		{44100, 48000, 160, 147},
		{256, 256, 1, 1},
	}
	for _, tt := range tests {
		r, err := NewForRates(tt.in, tt.out)
		if err != nil {
			t.Fatalf("NewForRates(%v, %v): %v", tt.in, tt.out, err)
		}
		up, down := r.Ratio()
		if up != tt.up || down != tt.down {
			t.Errorf("%v -> %v: ratio %d/%d, want %d/%d", tt.in, tt.out, up, down, tt.up, tt.down)
		}
	}

	r, err := New(6, 24)
	if err != nil {
		t.Fatal(err)
	}
	if up, down := r.Ratio(); up != 1 || down != 4 {
		t.Errorf("New(6, 24) ratio %d/%d, want 1/4", up, down)
	}
}

func TestOutputLen(t *testing.T) {
	r, _ := New(1, 4)
	for n, want := range map[int]int{0: 0, 1: 1, 1000: 250, 1001: 251} {
		if got := r.OutputLen(n); got != want {
			t.Errorf("OutputLen(%d) = %d, want %d", n, got, want)
		}
		if got := len(r.Apply(make([]float64, n))); got != want {
			t.Errorf("len(Apply(%d)) = %d, want %d", n, got, want)
		}
	}
}

func TestPrototypeSymmetricWithUnitGain(t *testing.T) {
	r, _ := New(2, 3)
	taps := r.Taps()
	if len(taps)%2 != 1 {
		t.Fatalf("even tap count %d", len(taps))
	}
	sum := 0.0
	for i, v := range taps {
		sum += v
		if math.Abs(v-taps[len(taps)-1-i]) > 1e-15 {
			t.Fatalf("asymmetric at %d", i)
		}
	}
	if math.Abs(sum-2) > 1e-12 {
		t.Errorf("sum = %v, want up = 2", sum)
	}
}

// interior skips the zero-padded edges.
func interior(n, margin int) (int, int) { return margin, n - margin }

func TestDownsamplePreservesTiming(t *testing.T) {
	const sfreq = 512.0
	in := testutil.DeterministicSine(5, sfreq, 1, 4096)
	out, err := Resample(in, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := testutil.DeterministicSine(5, sfreq/4, 1, len(out))
	lo, hi := interior(len(out), 40)
	for i := lo; i < hi; i++ {
		if math.Abs(out[i]-want[i]) > 5e-3 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestUpsamplePreservesTiming(t *testing.T) {
	const sfreq = 128.0
	in := testutil.DeterministicSine(5, sfreq, 1, 1024)
	out, err := Resample(in, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2048 {
		t.Fatalf("len = %d", len(out))
	}
	want := testutil.DeterministicSine(5, 2*sfreq, 1, len(out))
	lo, hi := interior(len(out), 80)
	for i := lo; i < hi; i++ {
		if math.Abs(out[i]-want[i]) > 5e-3 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestDownsampleRejectsAliases(t *testing.T) {
	in := testutil.DeterministicSine(100, 512, 1, 4096)
	out, err := Resample(in, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := interior(len(out), 40)
	energy := 0.0
	for _, v := range out[lo:hi] {
		energy += v * v
	}
	if rms := math.Sqrt(energy / float64(hi-lo)); rms > 0.01 {
		t.Errorf("alias rms = %v, want < 0.01", rms)
	}
}

func TestApplyRows(t *testing.T) {
	r, _ := New(1, 2)
	rows := [][]float64{testutil.DC(1, 200), testutil.DC(-2, 200)}
	out := r.ApplyRows(rows)
	if len(out) != 2 || len(out[0]) != 100 {
		t.Fatalf("shape %dx%d", len(out), len(out[0]))
	}
	for i := 40; i < 60; i++ {
		if math.Abs(out[0][i]-1) > 1e-9 || math.Abs(out[1][i]+2) > 1e-9 {
			t.Fatalf("dc at %d: %v %v", i, out[0][i], out[1][i])
		}
	}
}
