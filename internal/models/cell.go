package models

import (
	"encoding/json"
	"fmt"
)

// Size is the width and height of every board.
const Size = 10

// CellState is the state of one board cell.
type CellState int

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss
	CellSunk
)

var cellStateNames = [...]string{
	CellEmpty: "empty",
	CellShip:  "ship",
	CellHit:   "hit",
	CellMiss:  "miss",
	CellSunk:  "sunk",
}

func (s CellState) String() string {
	if s < CellEmpty || s > CellSunk {
		return fmt.Sprintf("CellState(%d)", int(s))
	}
	return cellStateNames[s]
}

// Attackable reports whether a cell in this state has never been fired upon.
func (s CellState) Attackable() bool {
	return s == CellEmpty || s == CellShip
}

func (s CellState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CellState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range cellStateNames {
		if n == name {
			*s = CellState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell state %q", name)
}

// Coord is a cell coordinate; X is the column and Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

func (c Coord) index() int {
	return c.Y*Size + c.X
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Neighbours returns the orthogonal neighbours of c that lie on the board.
func (c Coord) Neighbours() []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range [...]Coord{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		n := Coord{c.X + d.X, c.Y + d.Y}
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}
