// Package yatzy defines the domain types shared by every stage of the
// strategy solver pipeline: the game variants (5- and 6-dice, with the
// optional "x" throws-reset rule and an optional distributional measure),
// and the small set of sentinel errors returned by the lower layers.
package yatzy

import "fmt"

// Error is a sentinel error, following the same pattern as the package this
// module's solver pipeline is modeled on: a string type satisfying [error]
// so that errors can be declared as untyped constants and compared with ==.
type Error string

// Error satisfies the [error] interface.
func (err Error) Error() string {
	return string(err)
}

// Error values returned by this module's packages. See SPEC_FULL.md section
// 7 for the taxonomy these correspond to.
const (
	// ErrUnsupportedDiceCount is returned when a Variant names a dice count
	// other than 5 or 6.
	ErrUnsupportedDiceCount Error = "unsupported dice count"
	// ErrMissingLayerFile is returned (wrapped) when a predecessor layer's
	// score or strategy file does not exist on disk.
	ErrMissingLayerFile Error = "missing layer file"
	// ErrShortLayerFile is returned (wrapped) when a layer file exists but
	// is not the expected byte length; the file is corrupt and must be
	// deleted and recomputed.
	ErrShortLayerFile Error = "short layer file"
	// ErrInvalidStrategyByte is returned when a strategy byte decodes to a
	// reroll mask with more bits set than there are dice, or to a category
	// index outside the variant's category count.
	ErrInvalidStrategyByte Error = "invalid strategy byte"
	// ErrCategoryFilled is returned when an operation tries to fill a
	// category that is already filled in the given state.
	ErrCategoryFilled Error = "category already filled"
)

// Variant identifies one playable ruleset: the dice count, whether filling
// a category resets rolls-left to nt+2 instead of always to 2 (the "x"
// rule), and an optional distributional measure.
type Variant struct {
	// Dice is the number of dice thrown per turn: 5 or 6.
	Dice int
	// Reset selects the "x" rule: filling a category resets rolls-left to
	// nt+2 rather than unconditionally to 2.
	Reset bool
	// Measure names a distributional measure ("", "mean", "median", ...).
	// It is part of ID, and so of the cache directory name; driver.Run
	// solves every variant with the scalar expected-value solver whatever
	// Measure holds.
	Measure string
}

// Validate reports whether v names a supported dice count.
func (v Variant) Validate() error {
	if v.Dice != 5 && v.Dice != 6 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDiceCount, v.Dice)
	}
	return nil
}

// UpperCount is the number of upper-section categories, always 6.
func (v Variant) UpperCount() int { return 6 }

// LowerCount is the number of lower-section categories for v.Dice.
func (v Variant) LowerCount() int {
	if v.Dice == 6 {
		return 14
	}
	return 9
}

// CategoryCount is the total number of scoring categories for v.
func (v Variant) CategoryCount() int {
	return v.UpperCount() + v.LowerCount()
}

// Threshold is the upper-section bonus threshold: 63 for 5-dice, 84 for
// 6-dice.
func (v Variant) Threshold() int {
	if v.Dice == 6 {
		return 84
	}
	return 63
}

// Bonus is the flat bonus awarded once the upper section reaches
// v.Threshold(): 50 for 5-dice, 100 for 6-dice.
func (v Variant) Bonus() int {
	if v.Dice == 6 {
		return 100
	}
	return 50
}

// YatzyScore is the score awarded by the yatzy category: 50 for 5-dice, 100
// for 6-dice.
func (v Variant) YatzyScore() int {
	return v.Bonus()
}

// ID is the short cache-path discriminator for v: "5", "6", "5x", "6x",
// "mean5", "median5x", and so on.
func (v Variant) ID() string {
	s := v.Measure
	s += fmt.Sprintf("%d", v.Dice)
	if v.Reset {
		s += "x"
	}
	return s
}

// String satisfies [fmt.Stringer].
func (v Variant) String() string {
	return v.ID()
}
