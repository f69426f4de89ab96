// Package sim plays out complete games against a policy, for use by this
// module's own tests to check that a solved policy's on-paper expected
// score agrees with what it actually earns over many simulated games.
// Resume behaviour is tested in package driver, not here. It is not a CLI
// surface; cmd/yatzygo does not expose it.
package sim

import (
	"math/rand"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/policy"
	"github.com/yatzygo/yatzygo/score"
	"github.com/yatzygo/yatzygo/state"
	"github.com/yatzygo/yatzygo/yatzy"
)

// RollHand draws a fresh random hand of n dice from rng.
func RollHand(rng *rand.Rand, n int) dice.Hand {
	var h dice.Hand
	for i := 0; i < n; i++ {
		h[rng.Intn(6)]++
	}
	return h
}

// reroll draws fresh faces for every die named by mask in h's ordered
// expansion, returning the resulting hand.
func reroll(rng *rand.Rand, h dice.Hand, mask uint32) dice.Hand {
	expanded := h.Expand()
	var subCount int
	for i := range expanded {
		if mask&(1<<uint(i)) != 0 {
			subCount++
		}
	}
	var sub dice.Hand
	for i := 0; i < subCount; i++ {
		sub[rng.Intn(6)]++
	}
	return h.ApplyReroll(mask, sub)
}

// PlayGame plays one complete game of v against p, following p's
// recommended action at every decision point, and returns the final
// total score (including any upper-section bonus).
func PlayGame(rng *rand.Rand, p *policy.Policy, v yatzy.Variant) (int, error) {
	s := state.New(v)
	total := 0
	for !s.Done() {
		h := RollHand(rng, v.Dice)
		rollsLeft := s.RollsLeft
		for {
			a, err := p.Lookup(s, h)
			if err != nil {
				return 0, err
			}
			if a.Fill {
				next, points, err := s.Fill(a.Category, h)
				if err != nil {
					return 0, err
				}
				total += int(points)
				if next.BonusEarned() && !s.BonusEarned() {
					total += v.Bonus()
				}
				s = next
				s.RollsLeft = s.NextRollsLeft(rollsLeft)
				break
			}
			h = reroll(rng, h, a.RerollMask)
			rollsLeft--
			s.RollsLeft = rollsLeft
		}
	}
	return total, nil
}

// ScoreOnly computes a hand's value in every still-open category, for
// tests that want to sanity-check PlayGame's fills without going through
// a policy lookup.
func ScoreOnly(s state.State, h dice.Hand) map[score.Category]uint32 {
	out := make(map[score.Category]uint32)
	for c := 0; c < s.Variant.CategoryCount(); c++ {
		cat := score.Category(c)
		if s.Filled(cat) {
			continue
		}
		out[cat] = score.Score(h, cat, s.Variant.Dice)
	}
	return out
}
