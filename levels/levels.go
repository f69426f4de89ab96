// Package levels enumerates the reachable configurations of the upper and
// lower scoring sections and assigns each a dense canonical index, grouped
// by how many categories in that section are filled.
package levels

import (
	"fmt"
	"math/bits"
	"sort"
	"sync"
)

// UpperEntry is one reachable upper-section configuration: which upper
// categories are filled (Mask, bit i = category i, face i+1) and the
// running upper-sum, clipped to the bonus threshold.
type UpperEntry struct {
	Points int
	Mask   uint8
}

type upperKey struct {
	mask   uint8
	points int
}

type table struct {
	upperByN [7][]UpperEntry
	upperIdx map[upperKey]int
	lowerByN [][]uint32
	lowerIdx map[uint32]int
}

var (
	tables  [7]*table // indexed by dice count, 5 and 6 populated
	onceByN [7]sync.Once
)

func get(dice int) *table {
	if dice != 5 && dice != 6 {
		panic(fmt.Sprintf("levels: unsupported dice count %d", dice))
	}
	onceByN[dice].Do(func() {
		tables[dice] = build(dice)
	})
	return tables[dice]
}

func threshold(dice int) int {
	if dice == 6 {
		return 84
	}
	return 63
}

func lowerCount(dice int) int {
	if dice == 6 {
		return 14
	}
	return 9
}

// build enumerates all reachable (mask, clipped-points) upper
// configurations and all lower masks, then sorts and indexes each
// popcount group.
func build(dice int) *table {
	th := threshold(dice)

	// Upper section: for each of the 6 categories, the category is either
	// unfilled or filled having scored some count c in 0..=dice copies of
	// its face. Enumerate every combination, dedup by (mask, clipped
	// points) within each popcount group.
	seen := [7]map[upperKey]bool{}
	for n := range seen {
		seen[n] = make(map[upperKey]bool)
	}
	var counts [6]int // -1 = unfilled, else 0..dice copies scored
	var rec func(cat int)
	rec = func(cat int) {
		if cat == 6 {
			var mask uint8
			n, sum := 0, 0
			for i, c := range counts {
				if c >= 0 {
					mask |= 1 << uint(i)
					n++
					sum += c * (i + 1)
				}
			}
			if sum > th {
				sum = th
			}
			seen[n][upperKey{mask: mask, points: sum}] = true
			return
		}
		for c := -1; c <= dice; c++ {
			counts[cat] = c
			rec(cat + 1)
		}
	}
	rec(0)

	t := &table{upperIdx: make(map[upperKey]int)}
	for n := 0; n <= 6; n++ {
		entries := make([]UpperEntry, 0, len(seen[n]))
		for k := range seen[n] {
			entries = append(entries, UpperEntry{Points: k.points, Mask: k.mask})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Points != entries[j].Points {
				return entries[i].Points < entries[j].Points
			}
			return entries[i].Mask < entries[j].Mask
		})
		for i, e := range entries {
			t.upperIdx[upperKey{mask: e.Mask, points: e.Points}] = i
		}
		t.upperByN[n] = entries
	}

	// Lower section: only which categories are filled matters. Scanning
	// masks in ascending order and grouping by popcount yields each
	// group already sorted ascending by mask.
	lc := lowerCount(dice)
	t.lowerByN = make([][]uint32, lc+1)
	t.lowerIdx = make(map[uint32]int, 1<<uint(lc))
	for mask := uint32(0); mask < 1<<uint(lc); mask++ {
		n := bits.OnesCount32(mask)
		t.lowerIdx[mask] = len(t.lowerByN[n])
		t.lowerByN[n] = append(t.lowerByN[n], mask)
	}

	return t
}

// UpperLevels returns, for each n_filled in 0..=6, the sorted slice of
// reachable upper configurations for the given dice count.
func UpperLevels(dice int) [7][]UpperEntry {
	return get(dice).upperByN
}

// LowerLevels returns, for each n_filled, the sorted slice of reachable
// lower-section masks for the given dice count.
func LowerLevels(dice int) [][]uint32 {
	return get(dice).lowerByN
}

// UpperLen returns the number of reachable upper configurations with n
// categories filled.
func UpperLen(dice, n int) int {
	return len(get(dice).upperByN[n])
}

// LowerLen returns the number of reachable lower masks with n categories
// filled.
func LowerLen(dice, n int) int {
	return len(get(dice).lowerByN[n])
}

// UpperIndex returns the dense index of the (mask, points) upper
// configuration within its n_filled group. It panics if the pair is
// unreachable, matching the spec's contract that an invalid state encoding
// is a programming error.
func UpperIndex(dice int, mask uint8, points int) int {
	t := get(dice)
	idx, ok := t.upperIdx[upperKey{mask: mask, points: points}]
	if !ok {
		panic(fmt.Sprintf("levels: unreachable upper state mask=%#x points=%d dice=%d", mask, points, dice))
	}
	return idx
}

// LowerIndex returns the dense index of mask within its n_filled group.
func LowerIndex(dice int, mask uint32) int {
	t := get(dice)
	idx, ok := t.lowerIdx[mask]
	if !ok {
		panic(fmt.Sprintf("levels: unreachable lower mask=%#x dice=%d", mask, dice))
	}
	return idx
}

// ClipPoints folds points to the bonus threshold, truthfully representing
// that any sum at or beyond the threshold collects the same bonus.
func ClipPoints(dice, points int) int {
	if th := threshold(dice); points > th {
		return th
	}
	return points
}

// Threshold returns the upper bonus threshold for the given dice count.
func Threshold(dice int) int { return threshold(dice) }

// LowerCount returns the number of lower-section categories for the given
// dice count.
func LowerCount(dice int) int { return lowerCount(dice) }
