package viz

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-erds/eeg/bands"
	"github.com/cwbudde/algo-erds/eeg/tfr"
)

// AggregateConfig controls the confidence bands of [Aggregate].
type AggregateConfig struct {
	// Boot is the number of bootstrap resamples; 0 collapses the band onto
	// the mean.
	Boot int
	// CI is the confidence level of the percentile interval.
	CI   float64
	Seed uint64
}

// Curve is the mean value over time of one condition with its
// bootstrapped confidence band.
type Curve struct {
	Condition string
	Times     []float64
	Mean      []float64
	Lo, Hi    []float64
}

// Panel is one band x channel cell of the line-plot grid.
type Panel struct {
	Band     string
	Channel  string
	Row, Col int
	Curves   []Curve
}

type groupKey struct {
	band, channel, condition string
}

// Aggregate labels rows with kept bands, averages them per band, channel,
// condition and time, and lays the panels out with one row per band that
// has data and one column per channel of channelOrder. Rows of channels
// missing from channelOrder are dropped; a channelOrder entry with no rows
// is an error. Panel values do not depend on channelOrder.
func Aggregate(rows []tfr.Row, keep bands.Subset, channelOrder []string, cfg AggregateConfig) ([]Panel, error) {
	col := make(map[string]int, len(channelOrder))
	for i, ch := range channelOrder {
		col[ch] = i
	}
	present := make(map[string]bool, len(channelOrder))

	var (
		conds  []string
		groups = map[groupKey]map[float64][]float64{}
		bandOK = map[string]bool{}
	)
	for _, r := range rows {
		present[r.Channel] = true
		band, ok := keep.Label(r.Freq)
		if !ok {
			continue
		}
		if _, ok := col[r.Channel]; !ok {
			continue
		}
		if !slices.Contains(conds, r.Condition) {
			conds = append(conds, r.Condition)
		}
		k := groupKey{band, r.Channel, r.Condition}
		byTime := groups[k]
		if byTime == nil {
			byTime = map[float64][]float64{}
			groups[k] = byTime
		}
		byTime[r.Time] = append(byTime[r.Time], r.Value)
		bandOK[band] = true
	}
	for _, ch := range channelOrder {
		if !present[ch] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
		}
	}

	var panels []Panel
	row := 0
	for _, band := range keep.Names() {
		if !bandOK[band] {
			continue
		}
		for c, ch := range channelOrder {
			p := Panel{Band: band, Channel: ch, Row: row, Col: c}
			for _, cond := range conds {
				byTime, ok := groups[groupKey{band, ch, cond}]
				if !ok {
					continue
				}
				curve, err := aggregateCurve(cond, byTime, cfg, seedFor(cfg.Seed, band, ch, cond))
				if err != nil {
					return nil, err
				}
				p.Curves = append(p.Curves, curve)
			}
			panels = append(panels, p)
		}
		row++
	}
	if len(panels) == 0 {
		return nil, ErrNoData
	}
	return panels, nil
}

func aggregateCurve(cond string, byTime map[float64][]float64, cfg AggregateConfig, seed uint64) (Curve, error) {
	times := make([]float64, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	slices.Sort(times)

	rng := rand.New(rand.NewPCG(seed, 0))
	c := Curve{
		Condition: cond,
		Times:     times,
		Mean:      make([]float64, len(times)),
		Lo:        make([]float64, len(times)),
		Hi:        make([]float64, len(times)),
	}
	boot := make(stats.Float64Data, cfg.Boot)
	for i, t := range times {
		vals := stats.Float64Data(byTime[t])
		m, err := stats.Mean(vals)
		if err != nil {
			return Curve{}, fmt.Errorf("viz: mean of %s at %v: %w", cond, t, err)
		}
		c.Mean[i], c.Lo[i], c.Hi[i] = m, m, m
		if cfg.Boot <= 0 {
			continue
		}
		for b := range boot {
			sum := 0.0
			for range vals {
				sum += vals[rng.IntN(len(vals))]
			}
			boot[b] = sum / float64(len(vals))
		}
		tail := 100 * (1 - cfg.CI) / 2
		if c.Lo[i], err = stats.PercentileNearestRank(boot, tail); err != nil {
			return Curve{}, fmt.Errorf("viz: interval of %s at %v: %w", cond, t, err)
		}
		if c.Hi[i], err = stats.PercentileNearestRank(boot, 100-tail); err != nil {
			return Curve{}, fmt.Errorf("viz: interval of %s at %v: %w", cond, t, err)
		}
	}
	return c, nil
}

// seedFor derives a per-curve seed so resampling does not depend on the
// order curves are computed in.
func seedFor(seed uint64, parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return seed ^ h.Sum64()
}
