// Command yatzygo drives and reports on the offline strategy solver: run
// with a subcommand naming a variant, e.g.
//
//	yatzygo compute-strats-5
//	yatzygo compute-strats-6x
//	yatzygo expected-score-5
//
// The cache directory defaults to "cache" and can be overridden with the
// YATZY_CACHE environment variable.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/yatzygo/yatzygo/dice"
	"github.com/yatzygo/yatzygo/driver"
	"github.com/yatzygo/yatzygo/layer"
	"github.com/yatzygo/yatzygo/levels"
	"github.com/yatzygo/yatzygo/yatzy"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: yatzygo <compute-strats-5|compute-strats-5x|compute-strats-6|compute-strats-6x|expected-score-5|expected-score-5x|expected-score-6|expected-score-6x>")
		os.Exit(1)
	}

	cacheDir := os.Getenv("YATZY_CACHE")
	if cacheDir == "" {
		cacheDir = "cache"
	}

	v, action, err := parseCommand(os.Args[1])
	if err != nil {
		log.Error().Err(err).Msg("invalid command")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch action {
	case "compute-strats":
		d := driver.New(cacheDir, v, log)
		if err := d.Run(ctx); err != nil {
			log.Error().Err(err).Msg("solve failed")
			os.Exit(1)
		}
	case "expected-score":
		score, err := expectedScore(cacheDir, v)
		if err != nil {
			log.Error().Err(err).Msg("expected-score failed")
			os.Exit(1)
		}
		fmt.Printf("%.6f\n", score)
	}
}

// parseCommand splits a subcommand like "compute-strats-6x" into its
// action ("compute-strats") and the yatzy.Variant it names.
func parseCommand(cmd string) (yatzy.Variant, string, error) {
	for _, action := range []string{"compute-strats-", "expected-score-"} {
		if !strings.HasPrefix(cmd, action) {
			continue
		}
		rest := strings.TrimPrefix(cmd, action)
		reset := strings.HasSuffix(rest, "x")
		diceStr := strings.TrimSuffix(rest, "x")
		dc := 0
		switch diceStr {
		case "5":
			dc = 5
		case "6":
			dc = 6
		default:
			return yatzy.Variant{}, "", fmt.Errorf("unsupported variant %q", rest)
		}
		v := yatzy.Variant{Dice: dc, Reset: reset}
		if err := v.Validate(); err != nil {
			return yatzy.Variant{}, "", err
		}
		return v, strings.TrimSuffix(action, "-"), nil
	}
	return yatzy.Variant{}, "", fmt.Errorf("unknown command %q", cmd)
}

// expectedScore reports the probability-weighted expected total score of
// a fresh scorecard under v's completed solve: layer (0, 0, 2) has a
// single reachable (upperIdx, lowerIdx) pair, so the answer is the
// hand-probability-weighted average of that row.
func expectedScore(cacheDir string, v yatzy.Variant) (float64, error) {
	store := layer.NewStore(cacheDir, v)
	t := dice.HandCount(v.Dice)
	a := levels.UpperLen(v.Dice, 0)
	b := levels.LowerLen(v.Dice, 0)

	scores, err := store.LoadScores(layer.Key{Na: 0, Nb: 0, Nt: 2}, a*b*t)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for handIdx := 0; handIdx < t; handIdx++ {
		sum += dice.Probability(v.Dice, handIdx) * float64(scores[handIdx])
	}
	return sum, nil
}
