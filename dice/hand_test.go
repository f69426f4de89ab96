package dice

import "testing"

func TestHandBijection(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 6} {
		n := n
		t.Run(string(rune('0'+n)), func(t *testing.T) {
			count := HandCount(n)
			for i := 0; i < count; i++ {
				h := HandAt(n, i)
				if got := IndexOf(h); got != i {
					t.Errorf("IndexOf(HandAt(%d, %d)) = %d, want %d", n, i, got, i)
				}
				if h.Dice() != n {
					t.Errorf("HandAt(%d, %d).Dice() = %d, want %d", n, i, h.Dice(), n)
				}
			}
		})
	}
}

func TestHandCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 6},
		{2, 21},
		{3, 56},
		{4, 126},
		{5, 252},
		{6, 462},
	}
	for _, tt := range tests {
		if got := HandCount(tt.n); got != tt.want {
			t.Errorf("HandCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestProbabilitySum(t *testing.T) {
	for _, n := range []int{5, 6} {
		var sum uint64
		for i := 0; i < HandCount(n); i++ {
			sum += uint64(ProbabilityNumerator(n, i))
		}
		if want := Divisor(n); sum != want {
			t.Errorf("sum of numerators for %d dice = %d, want %d", n, sum, want)
		}
	}
}

func TestExpand(t *testing.T) {
	h := Hand{2, 0, 1, 0, 0, 2} // two 1s, one 3, two 6s
	want := []uint8{1, 1, 3, 6, 6}
	got := h.Expand()
	if len(got) != len(want) {
		t.Fatalf("Expand() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expand()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestApplyReroll(t *testing.T) {
	// Hand [1,1,1,6,6]; reroll the two 6s (ordered positions 3,4) into a 2
	// and a 2.
	h := Hand{3, 0, 0, 0, 0, 2}
	mask := uint32(0b11000)
	sub := Hand{0, 2, 0, 0, 0, 0}
	got := h.ApplyReroll(mask, sub)
	want := Hand{3, 2, 0, 0, 0, 0}
	if got != want {
		t.Errorf("ApplyReroll() = %v, want %v", got, want)
	}
}

func TestHandAtPanicsOnUnknownCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unsupported dice count")
		}
	}()
	HandAt(7, 0)
}
