package solver

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/yatzygo/yatzygo/reroll"
)

// RerollFlag is the strategy byte's high bit, tagging the low 7 bits as a
// keep-mask rather than a category index.
const RerollFlag byte = 0x80

// SolveRerolls computes one nt step (nt in {1, 2}) from the previous
// nt-1 layer's scores prev (shape [A, B, T]), for a fixed (na, nb). Every
// (a, b, t) cell is the better of "don't reroll" (prev's own score) and
// the best of 2^N keep-masks, each scored as the reroll tensor's
// expectation over prev. The inner expectation is a single dense matrix
// product per a-slab against the reroll matrix, following the spec's
// "BLAS is the expected backing" requirement via gonum/mat.
func SolveRerolls(diceCount int, prev View) (scores []float32, strats []byte) {
	a, b, t := prev.A, prev.B, prev.T
	r := reroll.Get(diceCount)
	masks := reroll.NumMasks(diceCount)

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
			solveRerollsSlab(lo, hi, b, t, masks, r, prev, scores, strats)
			return nil
		})
	}
	_ = g.Wait()
	return scores, strats
}

// solveRerollsSlab handles upperIdx in [lo, hi). For each such upperIdx it
// builds the (b, t) slice of prev scores as a dense matrix Sa and computes
// Sa * R^T in one call, yielding a (b, t*masks) matrix whose column
// t*masks+m is the expected score of rerolling mask m from hand t.
func solveRerollsSlab(lo, hi, b, t, masks int, r *reroll.Matrix, prev View, scores []float32, strats []byte) {
	rt := r.Dense().T()
	for a := lo; a < hi; a++ {
		sa := mat.NewDense(b, t, nil)
		for bi := 0; bi < b; bi++ {
			for ti := 0; ti < t; ti++ {
				sa.Set(bi, ti, prev.At(a, bi, ti))
			}
		}
		var out mat.Dense
		out.Mul(sa, rt)

		for bi := 0; bi < b; bi++ {
			for ti := 0; ti < t; ti++ {
				best := prev.At(a, bi, ti)
				// The default strategy byte is the literal zero: no
				// reroll beat the previous layer's own score. Mask 0
				// (dice.Hand.ApplyReroll's identity) reproduces that
				// same score, so it never wins the strict ">" compare
				// below and never overrides this default.
				bestStrat := byte(0)
				for m := 0; m < masks; m++ {
					col := ti*masks + m
					if v := out.At(bi, col); v > best {
						best = v
						bestStrat = RerollFlag | byte(m)
					}
				}
				cell := (a*b+bi)*t + ti
				scores[cell] = float32(best)
				strats[cell] = bestStrat
			}
		}
	}
}
