// Package driver orders the backward solve over every (na, nb, nt) layer
// so that each layer's predecessors are always already on disk, and skips
// any layer a prior run already completed.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/layer"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/solver"
	"github.com/yatzygo/yatzygo/yatzy"
)

// Driver orchestrates one variant's full solve against a layer Store.
type Driver struct {
	Store   *layer.Store
	Variant yatzy.Variant
	Log     zerolog.Logger
}

// New returns a Driver that persists to <cacheDir>/<variant.ID()>.
func New(cacheDir string, v yatzy.Variant, log zerolog.Logger) *Driver {
	return &Driver{
		Store:   layer.NewStore(cacheDir, v),
		Variant: v,
		Log:     log.With().Str("variant", v.ID()).Logger(),
	}
}

// Run solves every layer of d.Variant, outermost na descending from 6 so
// that na+1's layers are already on disk, then nb descending from
// LowerCount, then nt ascending 0, 1, 2 (plus the widened "x" axis when
// d.Variant.Reset is set). It returns early if ctx is cancelled between
// layers; the atomic unit of progress is one fully-saved layer.
func (d *Driver) Run(ctx context.Context) error {
	dc := d.Variant.Dice
	lowerCount := d.Variant.LowerCount()
	t := dice.HandCount(dc)

	maxNt := 2
	if d.Variant.Reset {
		maxNt = solver.MaxRollsLeftX
	}

	for na := 6; na >= 0; na-- {
		for nb := lowerCount; nb >= 0; nb-- {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.solveCellsLayer(na, nb, dc, lowerCount, t); err != nil {
				return err
			}
			for nt := 1; nt <= maxNt; nt++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := d.solveRerollLayer(na, nb, dc, lowerCount, t, nt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (d *Driver) solveCellsLayer(na, nb, dc, lowerCount, t int) error {
	key := layer.Key{Na: na, Nb: nb, Nt: 0}
	a := levels.UpperLen(dc, na)
	b := levels.LowerLen(dc, nb)

	log := d.Log.With().Int("na", na).Int("nb", nb).Int("nt", 0).Logger()
	if d.Store.IsComplete(key, a*b, t, 4) {
		log.Debug().Bool("resumed", true).Msg("layer already complete")
		return nil
	}
	start := time.Now()

	var upperNext, lowerNext solver.View
	if na < 6 {
		view, closeFn, err := d.loadView(layer.Key{Na: na + 1, Nb: nb, Nt: 2}, levels.UpperLen(dc, na+1), b, t)
		if err != nil {
			return err
		}
		defer closeFn()
		upperNext = view
	}
	if nb < lowerCount {
		view, closeFn, err := d.loadView(layer.Key{Na: na, Nb: nb + 1, Nt: 2}, a, levels.LowerLen(dc, nb+1), t)
		if err != nil {
			return err
		}
		defer closeFn()
		lowerNext = view
	}

	scores, strats := solver.SolveCells(d.Variant, na, nb, upperNext, lowerNext)

	if err := d.Store.SaveScores(key, scores); err != nil {
		return fmt.Errorf("save scores %s: %w", key, err)
	}
	if err := d.Store.SaveStrats(key, strats); err != nil {
		return fmt.Errorf("save strats %s: %w", key, err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Bool("resumed", false).Msg("cells layer computed")
	return nil
}

func (d *Driver) solveRerollLayer(na, nb, dc, lowerCount, t, nt int) error {
	key := layer.Key{Na: na, Nb: nb, Nt: nt}
	a := levels.UpperLen(dc, na)
	b := levels.LowerLen(dc, nb)

	log := d.Log.With().Int("na", na).Int("nb", nb).Int("nt", nt).Logger()
	if d.Store.IsComplete(key, a*b, t, 4) {
		log.Debug().Bool("resumed", true).Msg("layer already complete")
		return nil
	}
	start := time.Now()

	prevView, closePrev, err := d.loadView(layer.Key{Na: na, Nb: nb, Nt: nt - 1}, a, b, t)
	if err != nil {
		return err
	}
	defer closePrev()

	var scores []float32
	var strats []byte
	if d.Variant.Reset {
		// At every rolls-left level, not just past the ordinary game's
		// nt=2 ceiling, the "x" variant also allows filling a category
		// immediately instead of continuing to reroll, since an early
		// fill resets next turn's rolls-left higher. Without this merge
		// at nt in {1, 2} a player could never choose to bank an early
		// fill, so nt could never exceed 2 and the widened axis would be
		// unreachable dead weight.
		var upperNext, lowerNext solver.View
		resetNt := solver.ResetRollsLeft(nt)
		if na < 6 {
			view, closeFn, err := d.loadView(layer.Key{Na: na + 1, Nb: nb, Nt: resetNt}, levels.UpperLen(dc, na+1), b, t)
			if err != nil {
				return err
			}
			defer closeFn()
			upperNext = view
		}
		if nb < lowerCount {
			view, closeFn, err := d.loadView(layer.Key{Na: na, Nb: nb + 1, Nt: resetNt}, a, levels.LowerLen(dc, nb+1), t)
			if err != nil {
				return err
			}
			defer closeFn()
			lowerNext = view
		}
		fillScores, fillStrats := solver.SolveCellsX(d.Variant, na, nb, nt, upperNext, lowerNext)
		rerollScores, rerollStrats := solver.SolveRerolls(dc, prevView)
		scores, strats = solver.MergeFillAndReroll(fillScores, rerollScores, fillStrats, rerollStrats)
	} else {
		scores, strats = solver.SolveRerolls(dc, prevView)
	}

	if err := d.Store.SaveScores(key, scores); err != nil {
		return fmt.Errorf("save scores %s: %w", key, err)
	}
	if err := d.Store.SaveStrats(key, strats); err != nil {
		return fmt.Errorf("save strats %s: %w", key, err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Bool("resumed", false).Msg("reroll layer computed")
	return nil
}

// loadView memory-maps a predecessor layer's score file and exposes it as
// a solver.View backed directly by the mapped pages; the caller must call
// the returned close function once it is done reading the view.
func (d *Driver) loadView(k layer.Key, a, b, t int) (solver.View, func() error, error) {
	m, err := d.Store.MapScores(k, a*b*t)
	if err != nil {
		return solver.View{}, nil, fmt.Errorf("load predecessor %s: %w", k, err)
	}
	return solver.View{Scores: m.Float32Slice(), A: a, B: b, T: t}, m.Close, nil
}
