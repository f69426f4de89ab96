package solver

import (
	"testing"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/yatzy"
)

func zeroView(diceCount, a, b int) View {
	t := dice.HandCount(diceCount)
	return View{Scores: make([]float32, a*b*t), A: a, B: b, T: t}
}

func TestTerminalLayerIsAllZero(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	na, nb := 6, v.LowerCount()
	upperNext := zeroView(5, 1, 1) // never touched: na==6 means every upper category is filled
	lowerNext := zeroView(5, levels.UpperLen(5, na), 1)
	scores, strats := SolveCells(v, na, nb, upperNext, lowerNext)
	for i, s := range scores {
		if s != 0 {
			t.Fatalf("scores[%d] = %v, want 0 (terminal layer)", i, s)
		}
	}
	for i, s := range strats {
		if s != 0 {
			t.Fatalf("strats[%d] = %#x, want 0 (terminal layer)", i, s)
		}
	}
}

func TestSingleCategoryResidual(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	// All upper categories filled, all lower categories filled except
	// yatzy (local lower bit 8, the 9th of 9 lower categories).
	na, nb := 6, v.LowerCount()-1
	terminalA := levels.UpperLen(5, 6)
	upperNextUnused := zeroView(5, 1, 1) // never touched: na==6
	terminalLowerNext := zeroView(5, terminalA, 1) // (6, 9) is the terminal layer

	scores, strats := SolveCells(v, na, nb, upperNextUnused, terminalLowerNext)

	b := levels.LowerLen(5, nb)
	tCount := dice.HandCount(5)
	lowerIdx := levels.LowerIndex(5, 0xFF) // bits 0..7 set, bit 8 (yatzy) clear
	handIdx := dice.IndexOf(dice.Hand{0, 0, 0, 0, 0, 5})

	upperIdx := 0 // bonus delta is 0 regardless of which na=6 upper points we pick
	cell := (upperIdx*b+lowerIdx)*tCount + handIdx
	if got, want := scores[cell], float32(50); got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
	if got, want := strats[cell], byte(14); got != want { // yatzy is category index 14
		t.Errorf("strat = %d, want %d (yatzy)", got, want)
	}
}

func TestRerollDecisionPrefersRerollingOffCategoryDice(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	// Only "ones" unfilled: na=5 (twos..sixes filled), nb=9 (all lower filled).
	na, nb := 5, v.LowerCount()
	terminalA := levels.UpperLen(5, 6)
	terminalView := zeroView(5, terminalA, 1)
	unused := zeroView(5, terminalA, 1)

	cellsScores, _ := SolveCells(v, na, nb, terminalView, unused)
	b := levels.LowerLen(5, nb)
	tCount := dice.HandCount(5)
	prev := View{Scores: cellsScores, A: levels.UpperLen(5, na), B: b, T: tCount}

	rerollScores, rerollStrats := SolveRerolls(5, prev)

	upperIdx := -1
	for i, e := range levels.UpperLevels(5)[na] {
		if e.Mask == 0b111110 { // ones (bit 0) unfilled, twos..sixes filled
			upperIdx = i
			break
		}
	}
	if upperIdx < 0 {
		t.Fatal("no reachable upper entry with only ones unfilled")
	}
	lowerIdx := 0 // LowerLen(5, 9) == 1: the single all-filled lower mask
	handIdx := dice.IndexOf(dice.Hand{3, 0, 0, 0, 0, 2})
	cell := (upperIdx*b+lowerIdx)*tCount + handIdx

	if rerollStrats[cell]&RerollFlag == 0 {
		t.Fatalf("strat = %#x, want high bit set (reroll)", rerollStrats[cell])
	}
	mask := rerollStrats[cell] &^ RerollFlag
	if want := byte(0b11000); mask != want { // ordered expansion positions 3,4 are the two 6s
		t.Errorf("mask = %b, want %b", mask, want)
	}
	if rerollScores[cell] <= prev.At(upperIdx, lowerIdx, handIdx) {
		t.Error("reroll score did not strictly improve over the no-reroll score")
	}
}

func TestRerollDeclineIsLiteralZero(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	// Only "yatzy" unfilled, hand already five of a kind: no reroll can
	// beat the 50 points already on offer, so the default ("don't
	// reroll") must win and be recorded as the literal byte 0, never
	// RerollFlag|0.
	na, nb := 6, v.LowerCount()-1
	terminalA := levels.UpperLen(5, 6)
	upperNextUnused := zeroView(5, 1, 1)
	terminalLowerNext := zeroView(5, terminalA, 1)

	cellsScores, _ := SolveCells(v, na, nb, upperNextUnused, terminalLowerNext)
	b := levels.LowerLen(5, nb)
	tCount := dice.HandCount(5)
	prev := View{Scores: cellsScores, A: levels.UpperLen(5, na), B: b, T: tCount}

	_, rerollStrats := SolveRerolls(5, prev)

	lowerIdx := levels.LowerIndex(5, 0xFF)
	handIdx := dice.IndexOf(dice.Hand{0, 0, 0, 0, 0, 5}) // five sixes
	upperIdx := 0
	cell := (upperIdx*b+lowerIdx)*tCount + handIdx

	if got := rerollStrats[cell]; got != 0 {
		t.Errorf("strat = %#x, want literal 0 (decline to reroll)", got)
	}
}

func TestRerollNeverWorseThanNotRerolling(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	na, nb := 5, v.LowerCount()
	terminalA := levels.UpperLen(5, 6)
	terminalView := zeroView(5, terminalA, 1)
	unused := zeroView(5, terminalA, 1)
	cellsScores, _ := SolveCells(v, na, nb, terminalView, unused)
	prev := View{Scores: cellsScores, A: levels.UpperLen(5, na), B: levels.LowerLen(5, nb), T: dice.HandCount(5)}

	rerollScores, _ := SolveRerolls(5, prev)
	for i, s := range rerollScores {
		if float64(s) < float64(prev.Scores[i])-1e-6 {
			t.Fatalf("rerollScores[%d] = %v < prev %v", i, s, prev.Scores[i])
		}
	}
}
