// Package score implements the scoring rules for every category in both
// the 5-dice and 6-dice variants, dispatched by a dense category index in
// the same order the solver's layer tensors use.
package score

import (
	"fmt"

	"github.com/yatzygo/yatzygo/dice"
)

// Category is a dense index into a variant's ordered list of scoring
// categories: 0..5 are the upper section (ones..sixes), the rest are the
// lower section, in the order cataloged below.
type Category int

// Names returns the ordered category names for the given dice count,
// matching the index each Score(h, Category(i), dice) call addresses.
func Names(diceCount int) []string {
	switch diceCount {
	case 5:
		return []string{
			"ones", "twos", "threes", "fours", "fives", "sixes",
			"one_pair", "two_pairs", "three_of_a_kind", "four_of_a_kind",
			"small_straight", "large_straight", "house", "chance", "yatzy",
		}
	case 6:
		return []string{
			"ones", "twos", "threes", "fours", "fives", "sixes",
			"one_pair", "two_pairs", "three_pairs",
			"three_of_a_kind", "four_of_a_kind", "five_of_a_kind",
			"small_straight", "large_straight", "full_straight",
			"hut", "house", "tower", "chance", "yatzy",
		}
	default:
		panic(fmt.Sprintf("score: unsupported dice count %d", diceCount))
	}
}

// Score computes the points a hand earns in the given category, following
// the same dispatch order as the original solver's cell_score function.
func Score(h dice.Hand, cat Category, diceCount int) uint32 {
	switch diceCount {
	case 5:
		return score5(h, int(cat))
	case 6:
		return score6(h, int(cat))
	default:
		panic(fmt.Sprintf("score: unsupported dice count %d", diceCount))
	}
}

func score5(h dice.Hand, cat int) uint32 {
	switch cat {
	case 0, 1, 2, 3, 4, 5:
		return amountOf(h, cat+1)
	case 6:
		return pairs(h, 1)
	case 7:
		return pairs(h, 2)
	case 8:
		return nOfAKind(h, 3)
	case 9:
		return nOfAKind(h, 4)
	case 10:
		return straight(h, 1, 5)
	case 11:
		return straight(h, 2, 6)
	case 12:
		return building(h, 3, 2)
	case 13:
		return chance(h)
	case 14:
		return yatzy(h)
	default:
		panic(fmt.Sprintf("score: invalid 5-dice category %d", cat))
	}
}

func score6(h dice.Hand, cat int) uint32 {
	switch cat {
	case 0, 1, 2, 3, 4, 5:
		return amountOf(h, cat+1)
	case 6:
		return pairs(h, 1)
	case 7:
		return pairs(h, 2)
	case 8:
		return pairs(h, 3)
	case 9:
		return nOfAKind(h, 3)
	case 10:
		return nOfAKind(h, 4)
	case 11:
		return nOfAKind(h, 5)
	case 12:
		return straight(h, 1, 5)
	case 13:
		return straight(h, 2, 6)
	case 14:
		return straight(h, 1, 6)
	case 15:
		return building(h, 3, 2)
	case 16:
		return building(h, 3, 3)
	case 17:
		return building(h, 4, 2)
	case 18:
		return chance(h)
	case 19:
		return yatzy(h)
	default:
		panic(fmt.Sprintf("score: invalid 6-dice category %d", cat))
	}
}

func amountOf(h dice.Hand, face int) uint32 {
	return uint32(h.Count(face) * face)
}

// pairs scores the top n disjoint pairs, highest faces first. It returns 0
// unless n distinct pairs are all present (matching the original's
// all-or-nothing fold).
func pairs(h dice.Hand, n int) uint32 {
	var total, found uint32
	for face := 6; face >= 1 && int(found) < n; face-- {
		if h.Count(face) >= 2 {
			total += uint32(face * 2)
			found++
		}
	}
	if int(found) != n {
		return 0
	}
	return total
}

func nOfAKind(h dice.Hand, n int) uint32 {
	for face := 6; face >= 1; face-- {
		if h.Count(face) >= n {
			return uint32(face * n)
		}
	}
	return 0
}

func straight(h dice.Hand, a, b int) uint32 {
	sum := uint32(0)
	for f := a; f <= b; f++ {
		if h.Count(f) < 1 {
			return 0
		}
		sum += uint32(f)
	}
	return sum
}

// building scores A-of-a-kind plus B-of-a-kind of a different face: the
// highest face with at least a dice, then the highest other face (higher
// or lower) with at least b dice.
func building(h dice.Hand, a, b int) uint32 {
	faceA := -1
	for f := 6; f >= 1; f-- {
		if h.Count(f) >= a {
			faceA = f
			break
		}
	}
	if faceA < 0 {
		return 0
	}
	faceB := -1
	for f := 6; f >= 1; f-- {
		if f == faceA {
			continue
		}
		if h.Count(f) >= b {
			faceB = f
			break
		}
	}
	if faceB < 0 {
		return 0
	}
	return uint32(a*faceA + b*faceB)
}

func chance(h dice.Hand) uint32 {
	sum := uint32(0)
	for f := 1; f <= 6; f++ {
		sum += uint32(h.Count(f) * f)
	}
	return sum
}

func yatzy(h dice.Hand) uint32 {
	n := h.Dice()
	for f := 1; f <= 6; f++ {
		if h.Count(f) == n {
			if n == 6 {
				return 100
			}
			return 50
		}
	}
	return 0
}

// Max returns the highest score attainable in cat across every hand of
// diceCount dice, used by callers that need a static upper bound rather
// than an exhaustive search.
func Max(cat Category, diceCount int) uint32 {
	max := uint32(0)
	for i := 0; i < dice.HandCount(diceCount); i++ {
		if s := Score(dice.HandAt(diceCount, i), cat, diceCount); s > max {
			max = s
		}
	}
	return max
}
