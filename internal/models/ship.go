package models

import (
	"encoding/json"
	"slices"
)

// FleetComposition maps ship length to the number of ships of that length
// each side must place.
var FleetComposition = map[int]int{4: 1, 3: 2, 2: 3, 1: 4}

// FleetLengths lists the fleet's ship lengths from largest to smallest.
func FleetLengths() []int {
	var lengths []int
	for length := 4; length >= 1; length-- {
		for i := 0; i < FleetComposition[length]; i++ {
			lengths = append(lengths, length)
		}
	}
	return lengths
}

// Ship is an immutable ship: its cells and the subset of them already hit.
// Methods that change a ship return a new value.
type Ship struct {
	id        int
	positions []Coord
	hits      []Coord
}

// NewShip returns an unhit ship occupying positions.
func NewShip(id int, positions []Coord) Ship {
	return Ship{id: id, positions: slices.Clone(positions)}
}

func (s Ship) ID() int { return s.id }

func (s Ship) Length() int { return len(s.positions) }

func (s Ship) Positions() []Coord { return slices.Clone(s.positions) }

func (s Ship) Hits() []Coord { return slices.Clone(s.hits) }

// Occupies reports whether c is one of the ship's cells.
func (s Ship) Occupies(c Coord) bool {
	return slices.Contains(s.positions, c)
}

// IsHitAt reports whether c has already been hit.
func (s Ship) IsHitAt(c Coord) bool {
	return slices.Contains(s.hits, c)
}

// IsSunk reports whether every cell of the ship has been hit.
func (s Ship) IsSunk() bool {
	return len(s.positions) > 0 && len(s.hits) == len(s.positions)
}

// WithHit returns a copy of s with c added to its hits. Coordinates outside
// the ship or already hit leave the hit set unchanged, so hits stays a set and
// a subset of the positions.
func (s Ship) WithHit(c Coord) Ship {
	next := Ship{id: s.id, positions: slices.Clone(s.positions), hits: slices.Clone(s.hits)}
	if s.Occupies(c) && !s.IsHitAt(c) {
		next.hits = append(next.hits, c)
	}
	return next
}

type shipJSON struct {
	ID        int     `json:"id"`
	Length    int     `json:"length"`
	Positions []Coord `json:"positions"`
	Hits      []Coord `json:"hits"`
	Sunk      bool    `json:"sunk"`
}

func (s Ship) MarshalJSON() ([]byte, error) {
	hits := s.hits
	if hits == nil {
		hits = []Coord{}
	}
	return json.Marshal(shipJSON{
		ID:        s.id,
		Length:    s.Length(),
		Positions: s.positions,
		Hits:      hits,
		Sunk:      s.IsSunk(),
	})
}
