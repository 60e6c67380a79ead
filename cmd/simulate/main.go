package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"battleship/internal/ai"

	"github.com/charmbracelet/log"
)

func main() {
	games := flag.Int("games", 100, "number of matches to play")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel workers")
	levelA := flag.String("a", "hard", "level of the side that moves first")
	levelB := flag.String("b", "medium", "level of the side that moves second")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	hardCheat := flag.Float64("hard-cheat", ai.DefaultHardCheatProb, "hard AI chance to fire at a known ship cell")
	mediumRandom := flag.Float64("medium-random", ai.DefaultMediumRandomProb, "medium AI chance to ignore parity")
	flag.Parse()

	var levels [2]ai.Level
	for i, s := range []string{*levelA, *levelB} {
		l, err := ai.ParseLevel(s)
		if err != nil {
			log.Fatal("simulate [main]", "err", err)
		}
		levels[i] = l
	}

	b := batch{
		levels:  levels,
		opts:    ai.Options{HardCheatProb: *hardCheat, MediumRandomProb: *mediumRandom},
		seed:    *seed,
		games:   *games,
		workers: *workers,
	}
	log.Info("simulate [main] starting", "games", b.games, "workers", b.workers, "a", levels[0], "b", levels[1], "seed", b.seed)

	start := time.Now()
	rep := b.run()
	log.Info("simulate [main] done", "elapsed", time.Since(start).Round(time.Millisecond), "failures", rep.Failures)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "seat\tlevel\twins\twin rate\tavg shots")
	for i, l := range levels {
		rate := 0.0
		if rep.Games > 0 {
			rate = float64(rep.Wins[i]) / float64(rep.Games) * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%.1f\n", playerID(i, l), l, rep.Wins[i], rate, rep.AvgShots(i))
	}
	tw.Flush()

	if rep.Failures > 0 {
		os.Exit(1)
	}
}
