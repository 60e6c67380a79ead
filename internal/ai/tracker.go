package ai

import (
	"slices"

	"battleship/internal/models"
)

type direction int

const (
	unknown direction = iota
	horizontal
	vertical
)

// tracker remembers hits on the ship currently being finished off. With no
// hits the AI hunts; with hits of unknown direction it works through the
// queued neighbours; once two hits share a row or column it fires just
// past either end of the line.
type tracker struct {
	hits  []models.Coord
	queue []models.Coord
}

func (t *tracker) notify(c models.Coord, hit, sunk bool) {
	if sunk {
		t.reset()
		return
	}
	if !hit {
		return
	}
	t.hits = append(t.hits, c)
	if t.direction() != unknown {
		t.queue = nil
		return
	}
	for _, n := range c.Neighbours() {
		if !slices.Contains(t.queue, n) {
			t.queue = append(t.queue, n)
		}
	}
}

func (t *tracker) reset() {
	t.hits = nil
	t.queue = nil
}

// direction compares the first and the latest hit.
func (t *tracker) direction() direction {
	if len(t.hits) < 2 {
		return unknown
	}
	first, last := t.hits[0], t.hits[len(t.hits)-1]
	switch {
	case first.X == last.X:
		return vertical
	case first.Y == last.Y:
		return horizontal
	}
	return unknown
}

// follow returns the next follow-up shot, or false when the AI should hunt.
func (t *tracker) follow(board models.Board) (models.Coord, bool) {
	if dir := t.direction(); dir != unknown {
		for _, c := range t.lineEnds(dir) {
			if board.Attackable(c) {
				return c, true
			}
		}
	}
	for len(t.queue) > 0 {
		if board.Attackable(t.queue[0]) {
			return t.queue[0], true
		}
		t.queue = t.queue[1:]
	}
	return models.Coord{}, false
}

// lineEnds returns the cells just before and just after the hit line.
func (t *tracker) lineEnds(dir direction) []models.Coord {
	lo, hi := t.hits[0], t.hits[0]
	for _, h := range t.hits[1:] {
		if h.X+h.Y < lo.X+lo.Y {
			lo = h
		}
		if h.X+h.Y > hi.X+hi.Y {
			hi = h
		}
	}
	if dir == vertical {
		return []models.Coord{{X: lo.X, Y: lo.Y - 1}, {X: hi.X, Y: hi.Y + 1}}
	}
	return []models.Coord{{X: lo.X - 1, Y: lo.Y}, {X: hi.X + 1, Y: hi.Y}}
}
