package sim

import (
	"math"
	"sort"
)

// Point is one checkpoint of a BER curve: the cumulative fraction of the
// cell population already failed after Cycle P/E cycles.
type Point struct {
	Cycle int     `json:"cycle"`
	BER   float64 `json:"ber"`
}

// Curve is an ordered BER series, non-decreasing in BER as Cycle increases.
// A failed cell stays failed, so the curve is a cumulative distribution.
type Curve []Point

// Final returns the BER at the last checkpoint, or 0 for an empty curve.
func (c Curve) Final() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].BER
}

// Checkpoints builds the ordered sequence of integer cycle counts at which
// the sweep evaluates BER, from 1 to maxCycles inclusive. Log spacing
// collapses duplicate low-end points, so the result may hold fewer than n
// entries; both endpoints are always present.
func Checkpoints(maxCycles, n int, spacing Spacing) ([]int, error) {
	if maxCycles <= 0 {
		return nil, configErrorf("", "max_cycles", "must be > 0, got %d", maxCycles)
	}
	if n < 2 {
		return nil, configErrorf("", "num_checkpoints", "must be >= 2, got %d", n)
	}
	if spacing == "" {
		spacing = SpacingLog
	}
	if !spacing.Valid() {
		return nil, configErrorf("", "spacing", "must be %q or %q, got %q", SpacingLog, SpacingLinear, spacing)
	}

	pts := make([]int, 0, n)
	switch spacing {
	case SpacingLinear:
		step := float64(maxCycles-1) / float64(n-1)
		for i := 0; i < n; i++ {
			pts = append(pts, 1+int(math.Round(float64(i)*step)))
		}
	case SpacingLog:
		// Geometric progression from 1 to maxCycles. Rounding collapses
		// neighbors below ~n/log(max); dedup keeps the sequence strictly
		// increasing.
		logMax := math.Log(float64(maxCycles))
		for i := 0; i < n; i++ {
			c := int(math.Round(math.Exp(logMax * float64(i) / float64(n-1))))
			if c < 1 {
				c = 1
			}
			if c > maxCycles {
				c = maxCycles
			}
			pts = append(pts, c)
		}
	}

	out := pts[:0]
	prev := 0
	for _, c := range pts {
		if c != prev {
			out = append(out, c)
			prev = c
		}
	}
	// Rounding can undershoot the final point.
	if out[len(out)-1] != maxCycles {
		out = append(out, maxCycles)
	}
	return out, nil
}

// Evaluate computes the BER curve of a population over a cycle sweep.
// BER at checkpoint c is the fraction of cells whose endurance is <= c,
// under the no-ECC assumption that every failed cell contributes
// permanently. The population is sorted once and each checkpoint resolved
// by binary search, so the sweep costs O(N log N + K log N) instead of a
// full population scan per checkpoint.
//
// Evaluate is a pure function: it never mutates the population and repeated
// calls yield identical curves.
func Evaluate(pop Population, maxCycles, numCheckpoints int, spacing Spacing) (Curve, error) {
	if len(pop) == 0 {
		return nil, configErrorf("", "population", "must not be empty")
	}
	checkpoints, err := Checkpoints(maxCycles, numCheckpoints, spacing)
	if err != nil {
		return nil, err
	}

	sorted := make([]float64, len(pop))
	copy(sorted, pop)
	sort.Float64s(sorted)

	total := float64(len(sorted))
	curve := make(Curve, len(checkpoints))
	for i, c := range checkpoints {
		// Count of endurance values <= c.
		failed := sort.Search(len(sorted), func(j int) bool {
			return sorted[j] > float64(c)
		})
		curve[i] = Point{Cycle: c, BER: float64(failed) / total}
	}
	return curve, nil
}
