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

// MaxRollsLeftX bounds the rolls-left axis for the "x" rule variant
// (filling resets rolls-left to nt+2 instead of always 2, so the axis is
// not naturally bounded at 2 the way the ordinary game is). A fill that
// would reset past this bound is clamped to it: the marginal value of an
// (nt+1)-th reroll is already small at nt=2 in the ordinary game, and
// vanishes further as nt grows, so truncating the axis here trades an
// immeasurably small amount of accuracy for a tensor that stays bounded.
const MaxRollsLeftX = 6

// SolveCellsX computes the "fill now" candidate for every state at a given
// rolls-left nt in the "x" variant: the same category-choice logic as
// SolveCells, but usable at any nt (not just nt=0), and targeting the
// successor layer at the reset rolls-left state.NextRollsLeft(nt) produces
// (clamped to MaxRollsLeftX) instead of always 2.
func SolveCellsX(v yatzy.Variant, na, nb, nt int, upperNext, lowerNext View) (scores []float32, strats []byte) {
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
			solveCellsXSlab(v, na, nb, nt, lo, hi, b, t, upperNext, lowerNext, scores, strats)
			return nil
		})
	}
	_ = g.Wait()
	return scores, strats
}

func solveCellsXSlab(v yatzy.Variant, na, nb, nt, lo, hi, b, t int, upperNext, lowerNext View, scores []float32, strats []byte) {
	diceCount := v.Dice
	catCount := v.CategoryCount()
	for upperIdx := lo; upperIdx < hi; upperIdx++ {
		for lowerIdx := 0; lowerIdx < b; lowerIdx++ {
			base := state.FromIndex(v, na, nb, upperIdx, lowerIdx, nt)
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

// ResetRollsLeft returns the "x" variant's reset rolls-left after filling
// a category at nt rolls remaining, clamped to MaxRollsLeftX.
func ResetRollsLeft(nt int) int {
	r := nt + 2
	if r > MaxRollsLeftX {
		return MaxRollsLeftX
	}
	return r
}

// MergeFillAndReroll combines a "fill now" candidate (fillScores/fillStrats,
// category strategy bytes) with a "keep rerolling" candidate
// (rerollScores/rerollStrats, the ordinary SolveRerolls output at the same
// shape) into the final layer for one rolls-left level of the "x" variant.
// The reroll chain is treated as the default (it already resolves its own
// optimal fill-or-reroll decision at lower rolls-left) and is overridden
// only by a strictly better immediate fill, matching the module's
// first-seen/strict-improvement tie-break convention used everywhere else
// in the solver.
//
// Unlike a plain rerolls layer, this merged layer's byte space holds real
// category indices alongside reroll decisions, so solver.SolveRerolls's
// literal-0 "decline" default — unambiguous on its own, since a plain
// rerolls layer never stores a fill — would collide with category index 0
// here. Every rerollStrats entry is renormalized into the reroll tag space
// (RerollFlag|0 for decline) before the comparison so the merged byte
// stays a clean tagged union: high bit clear is always a fill, high bit
// set is always a reroll (mask 0 included).
func MergeFillAndReroll(fillScores, rerollScores []float32, fillStrats, rerollStrats []byte) (scores []float32, strats []byte) {
	scores = make([]float32, len(rerollScores))
	strats = make([]byte, len(rerollStrats))
	for i := range scores {
		rerollStrat := rerollStrats[i]
		if rerollStrat&RerollFlag == 0 {
			rerollStrat = RerollFlag
		}
		scores[i] = rerollScores[i]
		strats[i] = rerollStrat
		if fillScores[i] > scores[i] {
			scores[i] = fillScores[i]
			strats[i] = fillStrats[i]
		}
	}
	return scores, strats
}
