package state

import (
	"testing"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/yatzy"
)

func TestFillUpperAccumulatesClippedPoints(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	s := New(v)
	fives := dice.Hand{0, 0, 0, 0, 5, 0} // five 5s: scores 25 in "fives"
	next, points, err := s.Fill(4, fives)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if points != 25 {
		t.Errorf("points = %d, want 25", points)
	}
	if next.UpperPoints != 25 {
		t.Errorf("UpperPoints = %d, want 25", next.UpperPoints)
	}
	if next.UpperFilledCount() != 1 {
		t.Errorf("UpperFilledCount = %d, want 1", next.UpperFilledCount())
	}
}

func TestFillClipsAtThreshold(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	s := State{Variant: v, UpperPoints: 60}
	sixes := dice.Hand{0, 0, 0, 0, 0, 5} // 30 points, would bring total to 90
	next, _, err := s.Fill(5, sixes)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if next.UpperPoints != v.Threshold() {
		t.Errorf("UpperPoints = %d, want clipped to %d", next.UpperPoints, v.Threshold())
	}
	if !next.BonusEarned() {
		t.Error("BonusEarned() = false, want true")
	}
}

func TestFillRejectsAlreadyFilled(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	s := State{Variant: v, UpperMask: 1} // category 0 filled
	if _, _, err := s.Fill(0, dice.Hand{}); err != yatzy.ErrCategoryFilled {
		t.Errorf("err = %v, want ErrCategoryFilled", err)
	}
}

func TestFillLowerSetsMaskNotPoints(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	s := New(v)
	straight := dice.Hand{1, 1, 1, 1, 1, 0}
	next, points, err := s.Fill(score.Category(10), straight) // small_straight
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if points != 15 {
		t.Errorf("points = %d, want 15", points)
	}
	if next.UpperPoints != 0 {
		t.Errorf("UpperPoints changed on a lower fill: %d", next.UpperPoints)
	}
	if next.LowerFilledCount() != 1 {
		t.Errorf("LowerFilledCount = %d, want 1", next.LowerFilledCount())
	}
}

func TestIndexRoundTripsThroughLevels(t *testing.T) {
	v := yatzy.Variant{Dice: 6}
	s := New(v)
	h := dice.Hand{0, 0, 0, 0, 0, 4}
	s, _, err := s.Fill(5, h) // sixes
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	na, nb := s.Index()
	if na < 0 || nb < 0 {
		t.Errorf("Index() = (%d, %d), want non-negative", na, nb)
	}
	back := FromIndex(v, s.UpperFilledCount(), s.LowerFilledCount(), na, nb, s.RollsLeft)
	if back != s {
		t.Errorf("FromIndex(Index()) = %+v, want %+v", back, s)
	}
}

func TestDoneRequiresAllCategories(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	s := New(v)
	if s.Done() {
		t.Error("Done() on a fresh scorecard, want false")
	}
	full := State{
		Variant:   v,
		UpperMask: 0b111111,
		LowerMask: (1 << uint(v.LowerCount())) - 1,
	}
	if !full.Done() {
		t.Error("Done() with every category filled, want true")
	}
}

func TestNextRollsLeftResetRule(t *testing.T) {
	plain := yatzy.Variant{Dice: 5}
	s := New(plain)
	if got := s.NextRollsLeft(1); got != 2 {
		t.Errorf("plain variant NextRollsLeft = %d, want 2", got)
	}
	reset := yatzy.Variant{Dice: 5, Reset: true}
	s2 := New(reset)
	if got := s2.NextRollsLeft(1); got != 3 {
		t.Errorf("reset variant NextRollsLeft(1) = %d, want 3", got)
	}
}
