// Package reroll precomputes, for each dice count, the probability that
// rerolling a given subset of dice from a given hand lands on each
// possible resulting hand. The result is a single dense matrix per dice
// count, laid out so that multiplying it by a vector of per-hand values
// yields, in one gonum/mat call, the expected value of every
// (hand, keep-mask) pair at once.
package reroll

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/yatzygo/yatzygo/dice"
)

// Matrix is the reroll transition matrix for a fixed dice count: Rows()
// is HandCount(n)*NumMasks(n), Cols() is HandCount(n). Row RowIndex(cur,
// mask) holds the probability distribution, over next hands, of
// rerolling the dice named by mask from cur.
type Matrix struct {
	n    int
	dice *mat.Dense
}

// NumMasks returns the number of reroll keep-masks for n dice: 2^n. Bit i
// of a mask corresponds to ordered-expansion position i of the hand being
// rerolled (see dice.Hand.Expand), bit set meaning "reroll this die".
func NumMasks(n int) int { return 1 << uint(n) }

// RowIndex returns the matrix row holding the transition distribution for
// rerolling mask from the hand at index cur.
func (m *Matrix) RowIndex(cur, mask int) int {
	return cur*NumMasks(m.n) + mask
}

// Dense returns the underlying matrix, ready for mat.Dense.Mul against a
// HandCount(n)-length value vector.
func (m *Matrix) Dense() *mat.Dense { return m.dice }

// N returns the dice count this matrix was built for.
func (m *Matrix) N() int { return m.n }

var (
	matrices [7]*Matrix
	onceByN  [7]sync.Once
)

// Get returns the lazily-built reroll matrix for n dice (n in 1..=6).
func Get(n int) *Matrix {
	if n < 1 || n > 6 {
		panic(fmt.Sprintf("reroll: unsupported dice count %d", n))
	}
	onceByN[n].Do(func() {
		matrices[n] = build(n)
	})
	return matrices[n]
}

func build(n int) *Matrix {
	handCount := dice.HandCount(n)
	masks := NumMasks(n)
	rows := handCount * masks
	d := mat.NewDense(rows, handCount, nil)

	for cur := 0; cur < handCount; cur++ {
		h := dice.HandAt(n, cur)
		for mask := 0; mask < masks; mask++ {
			row := cur*masks + mask
			k := popcount(mask, n)
			if k == 0 {
				// Keeping everything: the hand is unchanged with
				// certainty.
				d.Set(row, cur, 1)
				continue
			}
			subCount := dice.HandCount(k)
			for subIdx := 0; subIdx < subCount; subIdx++ {
				sub := dice.HandAt(k, subIdx)
				next := h.ApplyReroll(uint32(mask), sub)
				nextIdx := dice.IndexOf(next)
				prob := dice.Probability(k, subIdx)
				d.Set(row, nextIdx, d.At(row, nextIdx)+prob)
			}
		}
	}
	return &Matrix{n: n, dice: d}
}

func popcount(mask, n int) int {
	c := 0
	for i := 0; i < n; i++ {
		if mask&(1<<uint(i)) != 0 {
			c++
		}
	}
	return c
}
