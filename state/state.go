// Package state represents one point in the game's decision tree: which
// categories are filled, the upper section's running (clipped) total, and
// how many rerolls remain this turn. It is the bridge between the dense
// tensor indices the solver operates on and the category-filling
// transitions that drive the game forward.
package state

import (
	"math/bits"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/yatzy"
)

// State is a scorecard in progress for one Variant: which upper and lower
// categories are filled, the upper section's points-so-far (clipped to
// the bonus threshold), and the rolls remaining in the current turn.
type State struct {
	Variant     yatzy.Variant
	UpperMask   uint8
	UpperPoints int
	LowerMask   uint32
	RollsLeft   int
}

// New returns the empty scorecard for v, with a fresh turn's two rerolls
// available.
func New(v yatzy.Variant) State {
	return State{Variant: v, RollsLeft: 2}
}

// UpperFilledCount returns how many of the 6 upper categories are filled.
func (s State) UpperFilledCount() int { return bits.OnesCount8(s.UpperMask) }

// LowerFilledCount returns how many lower categories are filled.
func (s State) LowerFilledCount() int { return bits.OnesCount32(s.LowerMask) }

// Done reports whether every category is filled.
func (s State) Done() bool {
	return s.UpperFilledCount() == s.Variant.UpperCount() && s.LowerFilledCount() == s.Variant.LowerCount()
}

// IsUpper reports whether cat belongs to the upper section.
func (s State) IsUpper(cat score.Category) bool {
	return int(cat) < s.Variant.UpperCount()
}

// Filled reports whether cat is already filled in.
func (s State) Filled(cat score.Category) bool {
	if s.IsUpper(cat) {
		return s.UpperMask&(1<<uint(cat)) != 0
	}
	return s.LowerMask&(1<<uint(int(cat)-s.Variant.UpperCount())) != 0
}

// Index returns the (na, nb) dense level indices addressing this state's
// upper and lower configuration, via the levels package.
func (s State) Index() (na, nb int) {
	na = levels.UpperIndex(s.Variant.Dice, s.UpperMask, s.UpperPoints)
	nb = levels.LowerIndex(s.Variant.Dice, s.LowerMask)
	return na, nb
}

// FromIndex is the inverse of Index combined with the na/nb group sizes:
// it reconstructs the State addressed by upperIdx within the na-filled
// upper group and lowerIdx within the nb-filled lower group, at the given
// rolls-left. It panics if upperIdx/lowerIdx are out of range for their
// group, matching the package's contract that an invalid state encoding
// is a programming error.
func FromIndex(v yatzy.Variant, na, nb, upperIdx, lowerIdx, rollsLeft int) State {
	upper := levels.UpperLevels(v.Dice)[na][upperIdx]
	lowerMask := levels.LowerLevels(v.Dice)[nb][lowerIdx]
	return State{
		Variant:     v,
		UpperMask:   upper.Mask,
		UpperPoints: upper.Points,
		LowerMask:   lowerMask,
		RollsLeft:   rollsLeft,
	}
}

// NextRollsLeft returns the rolls-left value a turn starts with after
// filling a category, honoring the variant's "x" reset rule: ordinarily
// always 2, but nt+2 when Variant.Reset is set. The result is not clamped;
// solver.ResetRollsLeft computes the same value capped at
// solver.MaxRollsLeftX.
func (s State) NextRollsLeft(filledAtRollsLeft int) int {
	if s.Variant.Reset {
		return filledAtRollsLeft + 2
	}
	return 2
}

// Fill returns the state obtained by scoring hand h into category cat
// (which must not already be filled), along with the raw points earned
// (the bonus, if any, is not included: callers add it on the fill that
// turns BonusEarned from false to true).
func (s State) Fill(cat score.Category, h dice.Hand) (State, uint32, error) {
	if s.Filled(cat) {
		return s, 0, yatzy.ErrCategoryFilled
	}
	points := score.Score(h, cat, s.Variant.Dice)
	next := s
	if s.IsUpper(cat) {
		next.UpperMask |= 1 << uint(cat)
		next.UpperPoints = levels.ClipPoints(s.Variant.Dice, s.UpperPoints+int(points))
	} else {
		next.LowerMask |= 1 << uint(int(cat)-s.Variant.UpperCount())
	}
	return next, points, nil
}

// BonusEarned reports whether the upper section's clipped points have
// reached the bonus threshold. Points never decrease, so once this is true
// the bonus is certain, whether or not every upper category is filled yet.
func (s State) BonusEarned() bool {
	return s.UpperPoints >= s.Variant.Threshold()
}
