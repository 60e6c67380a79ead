package main

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"battleship/internal/ai"
	"battleship/internal/game"
	"battleship/internal/models"
	"battleship/internal/placement"
	"battleship/internal/stats"
)

type simTask struct {
	index int
}

type simResult struct {
	index   int
	winner  models.Side
	shots   [2]int
	summary models.Summary
	err     error
}

type batch struct {
	levels  [2]ai.Level
	opts    ai.Options
	seed    uint64
	games   int
	workers int
}

// playOne runs a single AI-vs-AI match to completion. Side A always moves
// first, so run batches with both orderings to compare levels fairly.
func (b batch) playOne(index int) simResult {
	rng := rand.New(rand.NewPCG(b.seed, uint64(index)))
	m := game.NewMatch(fmt.Sprintf("sim-%05d", index))

	for i, side := range []models.Side{models.SidePlayer, models.SideOpponent} {
		strategy, err := ai.New(b.levels[i], rng, b.opts)
		if err != nil {
			return simResult{index: index, err: err}
		}
		fleet, err := placement.NewGenerator(rng).Fleet()
		if err != nil {
			return simResult{index: index, err: err}
		}
		p := game.Player{ID: playerID(i, b.levels[i]), AI: strategy}
		if err := m.Deploy(side, p, fleet); err != nil {
			return simResult{index: index, err: err}
		}
	}
	if err := m.Start(); err != nil {
		return simResult{index: index, err: err}
	}

	sum, ok := m.Summary()
	if !ok {
		return simResult{index: index, err: fmt.Errorf("match %s stalled in %s", m.ID(), m.Phase())}
	}
	winner := models.SidePlayer
	if sum.WinnerID == m.Player(models.SideOpponent).ID {
		winner = models.SideOpponent
	}
	return simResult{
		index:   index,
		winner:  winner,
		shots:   [2]int{m.Shots(models.SidePlayer), m.Shots(models.SideOpponent)},
		summary: sum,
	}
}

func playerID(seat int, level ai.Level) string {
	return fmt.Sprintf("%c-%s", 'a'+seat, level)
}

func worker(b batch, tasks <-chan simTask, results chan<- simResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range tasks {
		results <- b.playOne(task.index)
	}
}

// report aggregates a finished batch.
type report struct {
	Games    int
	Wins     [2]int
	Shots    [2]int
	Failures int
	Store    *stats.Store
}

func (r report) AvgShots(seat int) float64 {
	if r.Wins[0]+r.Wins[1] == 0 {
		return 0
	}
	return float64(r.Shots[seat]) / float64(r.Wins[0]+r.Wins[1])
}

func (b batch) run() report {
	tasks := make(chan simTask, b.games)
	results := make(chan simResult, b.games)

	var wg sync.WaitGroup
	for i := 0; i < max(b.workers, 1); i++ {
		wg.Add(1)
		go worker(b, tasks, results, &wg)
	}
	for i := 0; i < b.games; i++ {
		tasks <- simTask{index: i}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	rep := report{Games: b.games, Store: stats.NewStore()}
	for res := range results {
		if res.err != nil {
			rep.Failures++
			continue
		}
		rep.Wins[res.winner]++
		rep.Shots[0] += res.shots[0]
		rep.Shots[1] += res.shots[1]
		rep.Store.Record(res.summary)
	}
	return rep
}
