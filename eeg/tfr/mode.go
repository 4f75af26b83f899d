package tfr

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how values are expressed relative to the baseline mean m
// and the baseline standard deviation s.
type Mode int

const (
	// ModePercent is (x - m) / m.
	ModePercent Mode = iota
	// ModeMean is x - m.
	ModeMean
	// ModeRatio is x / m.
	ModeRatio
	// ModeLogRatio is log10(x / m).
	ModeLogRatio
	// ModeZScore is (x - m) / s.
	ModeZScore
	// ModeZLogRatio is log10(x / m) / s, with s the std of log10 baseline ratios.
	ModeZLogRatio
)

var modeNames = map[Mode]string{
	ModePercent:   "percent",
	ModeMean:      "mean",
	ModeRatio:     "ratio",
	ModeLogRatio:  "logratio",
	ModeZScore:    "zscore",
	ModeZLogRatio: "zlogratio",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMode, s)
}

// rescaleSeries rewrites x in place against the baseline span x[lo:hi].
func rescaleSeries(x []float64, lo, hi int, mode Mode) {
	base := x[lo:hi]
	n := float64(len(base))
	mean := 0.0
	for _, v := range base {
		mean += v
	}
	mean /= n

	switch mode {
	case ModeMean:
		for i := range x {
			x[i] -= mean
		}
	case ModeRatio:
		for i := range x {
			x[i] /= mean
		}
	case ModeLogRatio:
		for i := range x {
			x[i] = math.Log10(x[i] / mean)
		}
	case ModePercent:
		for i := range x {
			x[i] = (x[i] - mean) / mean
		}
	case ModeZScore:
		s := popStd(base, mean)
		for i := range x {
			x[i] = (x[i] - mean) / s
		}
	case ModeZLogRatio:
		for i := range x {
			x[i] = math.Log10(x[i] / mean)
		}
		logBase := x[lo:hi]
		lm := 0.0
		for _, v := range logBase {
			lm += v
		}
		s := popStd(logBase, lm/n)
		for i := range x {
			x[i] /= s
		}
	}
}

func popStd(x []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)))
}
