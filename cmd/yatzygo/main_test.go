package main

import "testing"

func TestParseCommand(t *testing.T) {
	cases := []struct {
		cmd        string
		wantDice   int
		wantReset  bool
		wantAction string
		wantErr    bool
	}{
		{"compute-strats-5", 5, false, "compute-strats", false},
		{"compute-strats-5x", 5, true, "compute-strats", false},
		{"compute-strats-6", 6, false, "compute-strats", false},
		{"compute-strats-6x", 6, true, "compute-strats", false},
		{"expected-score-5", 5, false, "expected-score", false},
		{"expected-score-6x", 6, true, "expected-score", false},
		{"compute-strats-7", 0, false, "", true},
		{"bogus", 0, false, "", true},
	}
	for _, c := range cases {
		v, action, err := parseCommand(c.cmd)
		if (err != nil) != c.wantErr {
			t.Errorf("parseCommand(%q) err = %v, wantErr %v", c.cmd, err, c.wantErr)
			continue
		}
		if c.wantErr {
			continue
		}
		if v.Dice != c.wantDice || v.Reset != c.wantReset || action != c.wantAction {
			t.Errorf("parseCommand(%q) = (%+v, %q), want dice=%d reset=%v action=%q",
				c.cmd, v, action, c.wantDice, c.wantReset, c.wantAction)
		}
	}
}
