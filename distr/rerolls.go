package distr

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/yatzygo/yatzygo/reroll"
	"github.com/yatzygo/yatzygo/solver"
)

// SolveRerolls computes one histogram-mode rolls-left step from the
// previous layer's histograms prev, mirroring solver.SolveRerolls: every
// cell is the better of "don't reroll" and the best of 2^N keep-masks
// under measure. As the spec prescribes, the inner expectation is one
// mat.Dense product per histogram bucket rather than one product for the
// whole tensor, since gonum.Dense only multiplies two-dimensional
// matrices and a histogram adds a third axis to the scalar case.
func SolveRerolls(diceCount, buckets int, measure Measure, prev View) (data []float64, strats []byte) {
	a, b, t := prev.A, prev.B, prev.T
	r := reroll.Get(diceCount)
	masks := reroll.NumMasks(diceCount)

	data = make([]float64, a*b*t*buckets)
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
			solveRerollsSlab(lo, hi, b, t, buckets, masks, measure, r, prev, data, strats)
			return nil
		})
	}
	_ = g.Wait()
	return data, strats
}

func solveRerollsSlab(lo, hi, b, t, buckets, masks int, measure Measure, r *reroll.Matrix, prev View, data []float64, strats []byte) {
	rt := r.Dense().T()
	cols := t * masks
	for a := lo; a < hi; a++ {
		// candidate[bi][col] accumulates, bucket by bucket below, the
		// histogram resulting from rerolling mask col%masks out of the
		// hand at index col/masks.
		candidate := make([][]Histogram, b)
		for bi := range candidate {
			candidate[bi] = make([]Histogram, cols)
			for c := range candidate[bi] {
				candidate[bi][c] = NewHistogram(buckets)
			}
		}
		for k := 0; k < buckets; k++ {
			sa := mat.NewDense(b, t, nil)
			for bi := 0; bi < b; bi++ {
				for ti := 0; ti < t; ti++ {
					sa.Set(bi, ti, prev.At(a, bi, ti)[k])
				}
			}
			var out mat.Dense
			out.Mul(sa, rt)
			for bi := 0; bi < b; bi++ {
				for col := 0; col < cols; col++ {
					candidate[bi][col][k] = out.At(bi, col)
				}
			}
		}

		for bi := 0; bi < b; bi++ {
			for ti := 0; ti < t; ti++ {
				best := prev.At(a, bi, ti)
				bestScore := measure.Collapse(best)
				// See solver.solveRerollsSlab: the default strategy byte
				// is the literal zero. Mask 0's histogram reproduces
				// prev's own, so it never beats bestScore under the
				// strict ">" compare and never overrides this default.
				bestStrat := byte(0)
				for m := 0; m < masks; m++ {
					h := candidate[bi][ti*masks+m]
					if s := measure.Collapse(h); s > bestScore {
						bestScore = s
						bestStrat = solver.RerollFlag | byte(m)
						best = h
					}
				}
				cellBase := ((a*b+bi)*t + ti) * buckets
				copy(data[cellBase:cellBase+buckets], best)
				strats[(a*b+bi)*t+ti] = bestStrat
			}
		}
	}
}
