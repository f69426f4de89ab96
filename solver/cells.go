// Package solver implements the backward dynamic-programming update rules
// that turn one layer's predecessors into its scores and strategy bytes.
// Functions here take plain slices and shape metadata, never a
// *layer.Store, so the DP math stays decoupled from disk lifecycle.
package solver

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/state"
	"github.com/yatzygo/yatzygo/yatzy"
)

// sentinel marks "no category chosen" in the strategy byte, matching the
// spec's "no writes distinguishable from zero-init" terminal condition.
const sentinel = 0

// View is a read-only reference to one layer's score tensor, addressed in
// row-major (upperIdx, lowerIdx, handIdx) order.
type View struct {
	Scores  []float32
	A, B, T int
}

// At returns the score for (upperIdx, lowerIdx, handIdx).
func (v View) At(upperIdx, lowerIdx, handIdx int) float64 {
	return float64(v.Scores[(upperIdx*v.B+lowerIdx)*v.T+handIdx])
}

// ExpectedOverHand returns the hand-probability-weighted expected score at
// (upperIdx, lowerIdx), summing over every possible resulting hand.
func (v View) ExpectedOverHand(upperIdx, lowerIdx, diceCount int) float64 {
	sum := 0.0
	for h := 0; h < v.T; h++ {
		sum += dice.Probability(diceCount, h) * v.At(upperIdx, lowerIdx, h)
	}
	return sum
}

// bonusDelta returns the change in awarded bonus between before and after,
// the "change in (filled-bonus - prior-bonus)" the spec requires be folded
// into the immediate reward of a category fill.
func bonusDelta(before, after state.State) float64 {
	b0, b1 := 0.0, 0.0
	if before.BonusEarned() {
		b0 = float64(before.Variant.Bonus())
	}
	if after.BonusEarned() {
		b1 = float64(after.Variant.Bonus())
	}
	return b1 - b0
}

// SolveCells computes the nt=0 layer for (na, nb): for every state and
// every hand, the best category to fill and the expected score of doing
// so, given the already-solved nt=2 successor layers reached by filling an
// upper category (upperNext, shape [UpperLen(na+1), LowerLen(nb)]) or a
// lower category (lowerNext, shape [UpperLen(na), LowerLen(nb+1)]). Either
// view may be the zero View when na==6 (no upper category left to fill) or
// nb==LowerCount (no lower category left), since those transitions are
// never taken from such states.
func SolveCells(v yatzy.Variant, na, nb int, upperNext, lowerNext View) (scores []float32, strats []byte) {
	diceCount := v.Dice
	a := levels.UpperLen(diceCount, na)
	b := levels.LowerLen(diceCount, nb)
	t := dice.HandCount(diceCount)

	scores = make([]float32, a*b*t)
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
			solveCellsSlab(v, na, nb, lo, hi, b, t, upperNext, lowerNext, scores, strats)
			return nil
		})
	}
	_ = g.Wait()
	return scores, strats
}

func solveCellsSlab(v yatzy.Variant, na, nb, lo, hi, b, t int, upperNext, lowerNext View, scores []float32, strats []byte) {
	diceCount := v.Dice
	catCount := v.CategoryCount()
	for upperIdx := lo; upperIdx < hi; upperIdx++ {
		for lowerIdx := 0; lowerIdx < b; lowerIdx++ {
			base := state.FromIndex(v, na, nb, upperIdx, lowerIdx, 0)
			for handIdx := 0; handIdx < t; handIdx++ {
				hand := dice.HandAt(diceCount, handIdx)
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
					delta := float64(points) + bonusDelta(base, next)
					var tail float64
					if base.IsUpper(cat) {
						nua, _ := next.Index()
						tail = upperNext.ExpectedOverHand(nua, lowerIdx, diceCount)
					} else {
						_, nlb := next.Index()
						tail = lowerNext.ExpectedOverHand(upperIdx, nlb, diceCount)
					}
					ev := delta + tail
					if bestCat < 0 || ev > bestScore {
						bestScore = ev
						bestCat = c
					}
				}
				cell := (upperIdx*b+lowerIdx)*t + handIdx
				scores[cell] = float32(bestScore)
				if bestCat >= 0 {
					strats[cell] = byte(bestCat)
				} else {
					strats[cell] = sentinel
				}
			}
		}
	}
}
