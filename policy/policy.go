// Package policy is the read path over a completed solve: given a live
// game state and the hand on the table, look up the precomputed optimal
// action from the strategy tensor on disk.
package policy

import (
	"fmt"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/layer"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/solver"
	"github.com/yatzygo/yatzygo/state"
	"github.com/yatzygo/yatzygo/yatzy"
)

// Action is a decoded strategy: either "fill this category" or "reroll
// these dice", never both.
type Action struct {
	// Fill is true when the action is to score the hand into Category.
	Fill     bool
	Category score.Category
	// RerollMask is the ordered-expansion keep-mask to reroll when Fill is
	// false: bit i set means reroll the die at dice.Hand.Expand index i.
	RerollMask uint32
}

// String renders a as "fill <category index>" or "reroll <mask>".
func (a Action) String() string {
	if a.Fill {
		return fmt.Sprintf("fill %d", a.Category)
	}
	return fmt.Sprintf("reroll %#x", a.RerollMask)
}

// Policy reads recommended actions out of one variant's completed solve.
type Policy struct {
	Store   *layer.Store
	Variant yatzy.Variant
}

// New returns a Policy reading from <cacheDir>/<variant.ID()>.
func New(cacheDir string, v yatzy.Variant) *Policy {
	return &Policy{Store: layer.NewStore(cacheDir, v), Variant: v}
}

// Lookup returns the optimal action for s holding hand h, reading the
// (na, nb, nt) layer's strategy byte addressed by s and h. It returns an
// error wrapping yatzy.ErrMissingLayerFile if the layer has not been
// solved, or yatzy.ErrInvalidStrategyByte if the stored byte does not
// decode to a legal action for s.
func (p *Policy) Lookup(s state.State, h dice.Hand) (Action, error) {
	if s.Done() {
		return Action{}, fmt.Errorf("policy: lookup on a completed scorecard: %w", yatzy.ErrCategoryFilled)
	}
	na, nb := s.UpperFilledCount(), s.LowerFilledCount()
	upperIdx, lowerIdx := s.Index()
	k := layer.Key{Na: na, Nb: nb, Nt: s.RollsLeft}

	a := levels.UpperLen(p.Variant.Dice, na)
	b := levels.LowerLen(p.Variant.Dice, nb)
	t := dice.HandCount(p.Variant.Dice)
	cells := a * b * t

	strats, err := p.Store.LoadStrats(k, cells)
	if err != nil {
		return Action{}, fmt.Errorf("policy: %w", err)
	}
	handIdx := dice.IndexOf(h)
	cell := (upperIdx*b+lowerIdx)*t + handIdx
	return decode(strats[cell], s)
}

func decode(strat byte, s state.State) (Action, error) {
	diceCount := s.Variant.Dice
	if strat&solver.RerollFlag != 0 {
		mask := uint32(strat &^ solver.RerollFlag)
		if mask >= uint32(1<<uint(diceCount)) {
			return Action{}, fmt.Errorf("policy: mask %#x: %w", mask, yatzy.ErrInvalidStrategyByte)
		}
		if s.RollsLeft == 0 {
			return Action{}, fmt.Errorf("policy: reroll with no rolls left: %w", yatzy.ErrInvalidStrategyByte)
		}
		// Mask 0 is a legal reroll: it rerolls no dice, the tensor's way
		// of saying "keep this hand and move to the next rolls-left step"
		// (see solver.solveRerollsSlab).
		return Action{RerollMask: mask}, nil
	}
	// High bit clear. In the ordinary game a rerolls-step layer (rolls
	// left > 0) never stores a category fill — solver.solveRerollsSlab's
	// only high-bit-clear output is the literal byte 0, its "decline to
	// reroll" default. Only the nt=0 cells layer, and the "x" variant's
	// merged layers (solver.MergeFillAndReroll normalizes its own
	// decline bytes into the reroll tag space precisely so this branch
	// stays unambiguous), ever store a real category index here.
	if s.RollsLeft > 0 && !s.Variant.Reset {
		if strat != 0 {
			return Action{}, fmt.Errorf("policy: category byte %d with rolls left: %w", strat, yatzy.ErrInvalidStrategyByte)
		}
		return Action{RerollMask: 0}, nil
	}
	cat := score.Category(strat)
	if int(cat) >= s.Variant.CategoryCount() {
		return Action{}, fmt.Errorf("policy: category %d: %w", cat, yatzy.ErrInvalidStrategyByte)
	}
	if s.Filled(cat) {
		return Action{}, fmt.Errorf("policy: category %d already filled: %w", cat, yatzy.ErrInvalidStrategyByte)
	}
	return Action{Fill: true, Category: cat}, nil
}
