package distr

import (
	"math"
	"testing"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/yatzy"
)

func TestMeanMatchesExpectation(t *testing.T) {
	h := NewHistogram(10)
	h[2] = 0.5
	h[8] = 0.5
	if got, want := Mean.Collapse(h), 5.0; got != want {
		t.Errorf("Mean = %v, want %v", got, want)
	}
}

func TestMedianPicksCrossingPoint(t *testing.T) {
	h := NewHistogram(5)
	h[0] = 0.2
	h[1] = 0.2
	h[2] = 0.2
	h[3] = 0.2
	h[4] = 0.2
	if got, want := Median.Collapse(h), 2.0; got != want {
		t.Errorf("Median = %v, want %v", got, want)
	}
}

func TestQuantileAtExtremes(t *testing.T) {
	h := NewHistogram(4)
	h[0], h[3] = 0.1, 0.9
	if got, want := Quantile(1.0).Collapse(h), 3.0; got != want {
		t.Errorf("Quantile(1.0) = %v, want %v", got, want)
	}
}

func TestForName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"mean", false},
		{"median", false},
		{"quantile90", false},
		{"quantile0", true},
		{"quantile101", true},
		{"bogus", true},
	}
	for _, c := range cases {
		_, err := ForName(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("ForName(%q) err = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestShiftAddClipsAtLastBucket(t *testing.T) {
	h := NewHistogram(5)
	h[4] = 1
	out := h.ShiftAdd(10)
	if out[4] != 1 {
		t.Fatalf("ShiftAdd overflow should clip into the last bucket, got %v", out)
	}
}

func zeroView(diceCount, a, b, buckets int) View {
	t := dice.HandCount(diceCount)
	return View{Data: make([]float64, a*b*t*buckets), A: a, B: b, T: t, Buckets: buckets}
}

func TestTerminalLayerIsAllZero(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	na, nb := 6, v.LowerCount()
	buckets := 401
	upperNext := zeroView(5, 1, 1, buckets)
	lowerNext := zeroView(5, levels.UpperLen(5, na), 1, buckets)

	data, strats := SolveCells(v, na, nb, buckets, Mean, upperNext, lowerNext)
	for i, p := range data {
		if p != 0 {
			t.Fatalf("data[%d] = %v, want 0 (terminal layer)", i, p)
		}
	}
	for i, s := range strats {
		if s != 0 {
			t.Fatalf("strats[%d] = %#x, want 0 (terminal layer)", i, s)
		}
	}
}

func TestSingleCategoryResidualMatchesScalarSolver(t *testing.T) {
	v := yatzy.Variant{Dice: 5}
	na, nb := 6, v.LowerCount()-1
	terminalA := levels.UpperLen(5, 6)
	buckets := 401
	upperNextUnused := zeroView(5, 1, 1, buckets)
	terminalLowerNext := zeroView(5, terminalA, 1, buckets)

	data, strats := SolveCells(v, na, nb, buckets, Mean, upperNextUnused, terminalLowerNext)

	b := levels.LowerLen(5, nb)
	tCount := dice.HandCount(5)
	lowerIdx := levels.LowerIndex(5, 0xFF)
	handIdx := dice.IndexOf(dice.Hand{0, 0, 0, 0, 0, 5})
	upperIdx := 0
	cell := (upperIdx*b+lowerIdx)*tCount + handIdx

	hist := Histogram(data[cell*buckets : (cell+1)*buckets])
	if got := Mean.Collapse(hist); math.Abs(got-50) > 1e-9 {
		t.Errorf("mean = %v, want 50", got)
	}
	if got, want := strats[cell], byte(14); got != want {
		t.Errorf("strat = %d, want %d (yatzy)", got, want)
	}
}
