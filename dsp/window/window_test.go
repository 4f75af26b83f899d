package window

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-erds/internal/testutil"
)

func TestGaussian(t *testing.T) {
	w, err := Gaussian(11, 2)
	if err != nil {
		t.Fatal(err)
	}
	if w[5] != 1 {
		t.Fatalf("centre = %v, want 1", w[5])
	}
	if math.Abs(w[7]-math.Exp(-0.5)) > 1e-12 {
		t.Fatalf("w[centre+sigma] = %v, want exp(-1/2)", w[7])
	}
	if _, err := Gaussian(11, 0); err == nil {
		t.Fatal("expected error for zero sigma")
	}
}

func TestDPSSOrthonormal(t *testing.T) {
	tapers, err := DPSS(128, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range tapers.Windows {
		if len(a) != 128 {
			t.Fatalf("taper %d len = %d", i, len(a))
		}
		for j, b := range tapers.Windows {
			dot := 0.0
			for n := range a {
				dot += a[n] * b[n]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > 1e-8 {
				t.Fatalf("<w%d, w%d> = %v, want %v", i, j, dot, want)
			}
		}
	}
}

func TestDPSSSymmetryAndSign(t *testing.T) {
	tapers, err := DPSS(101, 2.5, 4)
	if err != nil {
		t.Fatal(err)
	}
	for k, w := range tapers.Windows {
		n := len(w)
		sign := 1.0
		if k%2 == 1 {
			sign = -1
		}
		for i := 0; i < n/2; i++ {
			if math.Abs(w[i]-sign*w[n-1-i]) > 1e-8 {
				t.Fatalf("taper %d: parity broken at %d", k, i)
			}
		}
	}
	sum := 0.0
	for _, v := range tapers.Windows[0] {
		sum += v
		if v <= 0 {
			t.Fatalf("first taper should be positive, got %v", v)
		}
	}
	if sum <= 0 {
		t.Fatal("first taper sum not positive")
	}
}

func TestDPSSConcentrationsDecrease(t *testing.T) {
	tapers, err := DPSS(512, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	c := tapers.Concentrations
	if c[0] < 0.999 {
		t.Fatalf("first concentration = %v", c[0])
	}
	for k := 1; k < len(c); k++ {
		if !(c[k] < c[k-1]) {
			t.Fatalf("concentration %d (%v) not below %d (%v)", k, c[k], k-1, c[k-1])
		}
	}
}

func TestDPSSPeriodicLength(t *testing.T) {
	tapers, err := DPSS(64, 2, 3, WithPeriodic())
	if err != nil {
		t.Fatal(err)
	}
	if len(tapers.Windows[2]) != 64 {
		t.Fatalf("len = %d, want 64", len(tapers.Windows[2]))
	}
}

func TestDPSSValidation(t *testing.T) {
	if _, err := DPSS(0, 2, 1); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := DPSS(16, 0, 1); err == nil {
		t.Fatal("expected error for zero bandwidth")
	}
	if _, err := DPSS(16, 2, 17); !errors.Is(err, ErrTaperCount) {
		t.Fatalf("err = %v, want ErrTaperCount", err)
	}
}

func TestSolveTridiagonal(t *testing.T) {
	// [2 1 0; 1 3 1; 0 1 4] x = [4 10 14] -> x = [1 2 3]
	lo := []float64{1, 1}
	d := []float64{2, 3, 4}
	up := []float64{1, 1}
	b := []float64{4, 10, 14}
	solveTridiagonal(lo, d, up, b)
	testutil.RequireSliceNearlyEqual(t, b, []float64{1, 2, 3}, 1e-12)
}

func TestSolveTridiagonalPivoting(t *testing.T) {
	// Leading zero forces a row interchange.
	// [0 1 0; 2 1 1; 0 3 1] x = [2 7 9] -> x = [1 2 3]
	lo := []float64{2, 3}
	d := []float64{0, 1, 1}
	up := []float64{1, 1}
	b := []float64{2, 7, 9}
	solveTridiagonal(lo, d, up, b)
	testutil.RequireSliceNearlyEqual(t, b, []float64{1, 2, 3}, 1e-12)
}

func TestAnalyzeHann(t *testing.T) {
	hann := make([]float64, 256)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/256)
	}
	a := Analyze(hann)
	if math.Abs(a.ENBW-1.5) > 1e-2 {
		t.Fatalf("ENBW = %v", a.ENBW)
	}
	if a.HighestSidelobedB > -30 || a.HighestSidelobedB < -33 {
		t.Fatalf("sidelobe = %v dB, want about -31.5", a.HighestSidelobedB)
	}
	if a.Bandwidth3dB < 1.3 || a.Bandwidth3dB > 1.6 {
		t.Fatalf("3 dB bandwidth = %v bins", a.Bandwidth3dB)
	}
}

func TestKaiser(t *testing.T) {
	w, err := Kaiser(9, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range w {
		if v != 1 {
			t.Fatalf("beta 0: w[%d] = %v, want 1", i, v)
		}
	}

	w, err = Kaiser(11, 8.6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w[5]-1) > 1e-12 {
		t.Errorf("centre = %v, want 1", w[5])
	}
	for i := 0; i < 5; i++ {
		if math.Abs(w[i]-w[10-i]) > 1e-12 {
			t.Errorf("asymmetric at %d: %v vs %v", i, w[i], w[10-i])
		}
		if w[i] >= w[i+1] {
			t.Errorf("not increasing towards the centre at %d", i)
		}
	}
	if math.Abs(w[0]-1/besselI0(8.6)) > 1e-15 {
		t.Errorf("edge = %v", w[0])
	}

	// The power series matches I0(1) = 1.2660658777520082.
	if math.Abs(besselI0(1)-1.2660658777520082) > 1e-14 {
		t.Errorf("I0(1) = %v", besselI0(1))
	}

	if _, err := Kaiser(0, 1); err == nil {
		t.Error("expected error for size 0")
	}
	if _, err := Kaiser(4, -1); err == nil {
		t.Error("expected error for negative beta")
	}
}
