// Package dice enumerates multisets of dice ("hands") for a given dice
// count, assigns each a dense canonical index, and computes the
// probability of rolling it under fair dice. It is the leaf of the solver
// pipeline: every other package addresses tensors using the indices this
// package hands out.
package dice

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat/combin"
)

// Hand is a multiset of dice values in 1..=6, represented as per-face
// counts: Hand[i] is the number of dice currently showing face i+1.
type Hand [6]uint8

// Dice returns the number of dice making up the hand.
func (h Hand) Dice() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

// Sum returns the total pip count shown by the hand.
func (h Hand) Sum() int {
	s := 0
	for i, c := range h {
		s += (i + 1) * int(c)
	}
	return s
}

// Count returns the number of dice showing face (1..=6).
func (h Hand) Count(face int) int {
	return int(h[face-1])
}

// Expand returns the ordered-dice expansion of h: one entry per die, face
// values in non-decreasing order. Keep-masks throughout this module are
// bitmasks over this ordering, with ordered-expansion index 0 at the LSB.
func (h Hand) Expand() []uint8 {
	out := make([]uint8, 0, h.Dice())
	for face, c := range h {
		for k := uint8(0); k < c; k++ {
			out = append(out, uint8(face+1))
		}
	}
	return out
}

// ApplyReroll returns the hand obtained from h by discarding the dice whose
// ordered-expansion position has its bit set in mask and replacing them
// with the faces in sub. sub.Dice() must equal the population count of
// mask.
func (h Hand) ApplyReroll(mask uint32, sub Hand) Hand {
	kept := h
	for i, face := range h.Expand() {
		if mask&(1<<uint(i)) != 0 {
			kept[face-1]--
		}
	}
	for face, c := range sub {
		kept[face] += c
	}
	return kept
}

// String renders h as a sorted list of face values, e.g. "1 1 3 5 6".
func (h Hand) String() string {
	s := ""
	for _, f := range h.Expand() {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%d", f)
	}
	return s
}

// table holds the canonical enumeration of all hands of a fixed dice count:
// hands in enumeration order, and the inverse (hand -> index) map.
type table struct {
	hands []Hand
	index map[Hand]int
}

var (
	tables  [7]*table // tables[n] is built lazily for n in 1..6
	onceByN [7]sync.Once
)

// build enumerates all multisets of n dice values in 1..=6, in lexicographic
// order of the count vector (Hand[0] varies slowest).
func build(n int) *table {
	hands := make([]Hand, 0, combin.Binomial(n+5, 5))
	var rec func(face, remaining int, cur Hand)
	rec = func(face, remaining int, cur Hand) {
		if face == 5 {
			cur[5] = uint8(remaining)
			hands = append(hands, cur)
			return
		}
		for c := 0; c <= remaining; c++ {
			cur[face] = uint8(c)
			rec(face+1, remaining-c, cur)
		}
	}
	rec(0, n, Hand{})
	index := make(map[Hand]int, len(hands))
	for i, h := range hands {
		index[h] = i
	}
	return &table{hands: hands, index: index}
}

func get(n int) *table {
	if n < 1 || n > 6 {
		panic(fmt.Sprintf("dice: unsupported dice count %d", n))
	}
	onceByN[n].Do(func() {
		tables[n] = build(n)
	})
	return tables[n]
}

// HandCount returns the number of distinct hands of n dice: C(n+5, 5).
func HandCount(n int) int {
	return len(get(n).hands)
}

// HandAt returns the hand at canonical index idx among hands of n dice.
func HandAt(n, idx int) Hand {
	return get(n).hands[idx]
}

// IndexOf returns h's canonical index among hands of h.Dice() dice. It
// panics if h is not a valid hand, matching the spec's contract that an
// unreachable state encoding is a programming error.
func IndexOf(h Hand) int {
	t := get(h.Dice())
	idx, ok := t.index[h]
	if !ok {
		panic(fmt.Sprintf("dice: %v is not a canonical hand of %d dice", h, h.Dice()))
	}
	return idx
}

// factorial returns n!.
func factorial(n int) uint64 {
	r := uint64(1)
	for i := 2; i <= n; i++ {
		r *= uint64(i)
	}
	return r
}

// ProbabilityNumerator returns the multinomial coefficient of the hand at
// index idx among hands of n dice: n! / prod(face-count!). Divided by
// Divisor(n), this is the hand's probability under fair dice.
func ProbabilityNumerator(n, idx int) uint32 {
	h := HandAt(n, idx)
	num := factorial(n)
	for _, c := range h {
		num /= factorial(int(c))
	}
	return uint32(num)
}

// Divisor returns 6^n, the number of equally likely ordered outcomes of
// rolling n dice.
func Divisor(n int) uint64 {
	d := uint64(1)
	for i := 0; i < n; i++ {
		d *= 6
	}
	return d
}

// Probability returns the probability of rolling the hand at index idx
// among hands of n dice, under fair dice.
func Probability(n, idx int) float64 {
	return float64(ProbabilityNumerator(n, idx)) / float64(Divisor(n))
}
