// Package distr implements the opt-in distributional measure: instead of
// collapsing each state to a single expected-score float32, a layer in
// this mode stores a histogram of the remaining-score distribution, and a
// Measure collapses that histogram to the scalar used to pick the best
// action. The scalar-EV solver in package solver is unaffected; this
// package is a parallel, additive path. driver.Run does not call it: a
// yatzy.Variant with a non-empty Measure is still solved by package solver,
// and Measure only changes the cache directory name (Variant.ID).
package distr

import (
	"fmt"
	"strconv"
	"strings"
)

// Histogram is a probability distribution over total game score, bucketed
// by integer score value: Histogram[i] is the probability mass at score i.
type Histogram []float64

// NewHistogram returns a zeroed histogram with the given number of
// buckets.
func NewHistogram(buckets int) Histogram {
	return make(Histogram, buckets)
}

// ShiftAdd returns the histogram obtained by adding delta to every
// bucket's score. Mass that would land at or past the last bucket
// collects in the last bucket instead (a saturating clip): every variant
// bounds its maximum reachable score, so callers size buckets generously
// enough that this only ever folds in genuinely unreachable overflow.
func (h Histogram) ShiftAdd(delta int) Histogram {
	out := make(Histogram, len(h))
	for i, p := range h {
		if p == 0 {
			continue
		}
		j := i + delta
		if j >= len(out) {
			j = len(out) - 1
		}
		if j < 0 {
			j = 0
		}
		out[j] += p
	}
	return out
}

// AddWeighted accumulates src into h in place, scaled by weight.
func (h Histogram) AddWeighted(src Histogram, weight float64) {
	for i, p := range src {
		h[i] += p * weight
	}
}

// Total returns the histogram's total probability mass (1 for a
// well-formed terminal-reachable histogram, 0 for an as-yet-unfilled
// terminal cell).
func (h Histogram) Total() float64 {
	sum := 0.0
	for _, p := range h {
		sum += p
	}
	return sum
}

// Measure collapses a histogram to the scalar used for strategy
// comparisons, mirroring the original solver's Measure trait.
type Measure interface {
	Collapse(h Histogram) float64
}

type meanMeasure struct{}

func (meanMeasure) Collapse(h Histogram) float64 {
	sum, total := 0.0, 0.0
	for score, p := range h {
		sum += float64(score) * p
		total += p
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// Mean reports the distribution's expectation; a histogram-mode solve
// using Mean should agree with the scalar-EV solver up to float rounding,
// since both compute the same quantity by different routes.
var Mean Measure = meanMeasure{}

type quantileMeasure struct{ q float64 }

// Collapse returns the score at which the cumulative distribution first
// reaches q * h.Total().
func (m quantileMeasure) Collapse(h Histogram) float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	target := m.q * total
	cum := 0.0
	for score, p := range h {
		cum += p
		if cum >= target {
			return float64(score)
		}
	}
	return float64(len(h) - 1)
}

// Quantile returns the measure reporting the score at which the
// cumulative distribution first reaches the given quantile, q in (0, 1].
func Quantile(q float64) Measure { return quantileMeasure{q: q} }

// Median is Quantile(0.5).
var Median Measure = Quantile(0.5)

// ForName resolves a yatzy.Variant.Measure string to a Measure: "" or
// "mean" for the expectation, "median", or "quantile<NN>" for the NN%
// quantile (e.g. "quantile90").
func ForName(name string) (Measure, error) {
	switch {
	case name == "" || name == "mean":
		return Mean, nil
	case name == "median":
		return Median, nil
	case strings.HasPrefix(name, "quantile"):
		pct, err := strconv.Atoi(strings.TrimPrefix(name, "quantile"))
		if err != nil || pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("distr: invalid quantile measure %q", name)
		}
		return Quantile(float64(pct) / 100), nil
	default:
		return nil, fmt.Errorf("distr: unknown measure %q", name)
	}
}
