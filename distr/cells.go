package distr

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/state"
	"github.com/yatzygo/yatzygo/yatzy"
)

// View is a read-only reference to one histogram-mode layer's tensor,
// addressed in row-major (upperIdx, lowerIdx, handIdx, bucket) order,
// mirroring solver.View's scalar layout with an extra trailing axis.
type View struct {
	Data             []float64
	A, B, T, Buckets int
}

// At returns the histogram at (upperIdx, lowerIdx, handIdx), as a slice
// directly into v.Data (mutating it mutates the view).
func (v View) At(upperIdx, lowerIdx, handIdx int) Histogram {
	base := ((upperIdx*v.B+lowerIdx)*v.T + handIdx) * v.Buckets
	return Histogram(v.Data[base : base+v.Buckets])
}

// ExpectedOverHand returns the hand-probability-weighted histogram at
// (upperIdx, lowerIdx), summing every possible resulting hand's
// histogram, the distributional analog of solver.View.ExpectedOverHand.
func (v View) ExpectedOverHand(upperIdx, lowerIdx, diceCount int) Histogram {
	out := NewHistogram(v.Buckets)
	for h := 0; h < v.T; h++ {
		out.AddWeighted(v.At(upperIdx, lowerIdx, h), dice.Probability(diceCount, h))
	}
	return out
}

func bonusDelta(before, after state.State) int {
	b0, b1 := 0, 0
	if before.BonusEarned() {
		b0 = before.Variant.Bonus()
	}
	if after.BonusEarned() {
		b1 = after.Variant.Bonus()
	}
	return b1 - b0
}

// SolveCells computes the histogram-mode nt=0 layer for (na, nb): for
// every state and hand, the best category to fill under measure and the
// resulting histogram, given the already-solved successor layers. It is
// the distributional counterpart of solver.SolveCells; see that package
// for the concurrency model and the meaning of upperNext/lowerNext.
func SolveCells(v yatzy.Variant, na, nb, buckets int, measure Measure, upperNext, lowerNext View) (data []float64, strats []byte) {
	diceCount := v.Dice
	a := levels.UpperLen(diceCount, na)
	b := levels.LowerLen(diceCount, nb)
	t := dice.HandCount(diceCount)

	data = make([]float64, a*b*t*buckets)
	strats = make([]byte, a*b*t)

	g := new(errgroup.Group)
	workers := runtime.GOMAXPROCS(0)
	if workers > a {
		workers = a
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (a + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > a {
			hi = a
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			solveCellsSlab(v, na, nb, lo, hi, b, t, buckets, measure, upperNext, lowerNext, data, strats)
			return nil
		})
	}
	_ = g.Wait()
	return data, strats
}

func solveCellsSlab(v yatzy.Variant, na, nb, lo, hi, b, t, buckets int, measure Measure, upperNext, lowerNext View, data []float64, strats []byte) {
	diceCount := v.Dice
	catCount := v.CategoryCount()
	for upperIdx := lo; upperIdx < hi; upperIdx++ {
		for lowerIdx := 0; lowerIdx < b; lowerIdx++ {
			base := state.FromIndex(v, na, nb, upperIdx, lowerIdx, 0)
			for handIdx := 0; handIdx < t; handIdx++ {
				hand := dice.HandAt(diceCount, handIdx)
				var best Histogram
				bestScore := 0.0
				bestCat := -1
				for c := 0; c < catCount; c++ {
					cat := score.Category(c)
					if base.Filled(cat) {
						continue
					}
					next, points, err := base.Fill(cat, hand)
					if err != nil {
						panic(err)
					}
					delta := int(points) + bonusDelta(base, next)
					var tail Histogram
					if base.IsUpper(cat) {
						nua, _ := next.Index()
						tail = upperNext.ExpectedOverHand(nua, lowerIdx, diceCount)
					} else {
						_, nlb := next.Index()
						tail = lowerNext.ExpectedOverHand(upperIdx, nlb, diceCount)
					}
					if tail.Total() == 0 {
						// A successor with no mass is a terminal cell (see
						// Histogram.Total): the remaining score after this
						// fill is exactly delta.
						tail[0] = 1
					}
					candidate := tail.ShiftAdd(delta)
					m := measure.Collapse(candidate)
					if bestCat < 0 || m > bestScore {
						bestScore = m
						bestCat = c
						best = candidate
					}
				}
				cellBase := ((upperIdx*b+lowerIdx)*t + handIdx) * buckets
				if bestCat >= 0 {
					copy(data[cellBase:cellBase+buckets], best)
					strats[(upperIdx*b+lowerIdx)*t+handIdx] = byte(bestCat)
				}
			}
		}
	}
}
