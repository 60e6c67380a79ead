package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"
)

// Board is a Size x Size grid plus the ships placed on it. The zero value is
// an empty board. Boards are values: every update returns a new Board and
// never aliases the receiver's ships.
type Board struct {
	cells [Size * Size]CellState
	ships []Ship
}

// NewBoard returns a board holding ships, with each cell reflecting the
// hit and sunk state of the ship covering it. Ships are assumed to be a
// valid placement.
func NewBoard(ships []Ship) Board {
	var b Board
	b.ships = slices.Clone(ships)
	for _, s := range ships {
		b.paint(s)
	}
	return b
}

func (b *Board) paint(s Ship) {
	for _, p := range s.positions {
		switch {
		case s.IsSunk():
			b.cells[p.index()] = CellSunk
		case s.IsHitAt(p):
			b.cells[p.index()] = CellHit
		default:
			b.cells[p.index()] = CellShip
		}
	}
}

// Cell returns the state of c. Coordinates off the board read as CellEmpty.
func (b Board) Cell(c Coord) CellState {
	if !c.InBounds() {
		return CellEmpty
	}
	return b.cells[c.index()]
}

// Attackable reports whether c is on the board and has not been fired upon.
func (b Board) Attackable(c Coord) bool {
	return c.InBounds() && b.cells[c.index()].Attackable()
}

// AttackableCells lists every attackable cell in row-major order.
func (b Board) AttackableCells() []Coord {
	var out []Coord
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.cells[y*Size+x].Attackable() {
				out = append(out, Coord{x, y})
			}
		}
	}
	return out
}

// Resolved reports whether no attackable cell remains.
func (b Board) Resolved() bool {
	for _, st := range b.cells {
		if st.Attackable() {
			return false
		}
	}
	return true
}

// WithCell returns a copy of b with c set to st. Off-board coordinates
// return an unchanged copy.
func (b Board) WithCell(c Coord, st CellState) Board {
	next := b.clone()
	if c.InBounds() {
		next.cells[c.index()] = st
	}
	return next
}

// WithShip returns a copy of b where the ship sharing s's id is replaced by s.
func (b Board) WithShip(s Ship) Board {
	next := b.clone()
	for i := range next.ships {
		if next.ships[i].id == s.id {
			next.ships[i] = s
		}
	}
	return next
}

// ShipAt returns the ship covering c.
func (b Board) ShipAt(c Coord) (Ship, bool) {
	for _, s := range b.ships {
		if s.Occupies(c) {
			return s, true
		}
	}
	return Ship{}, false
}

// Ships returns the ships placed on the board.
func (b Board) Ships() []Ship {
	return slices.Clone(b.ships)
}

// AllSunk reports whether the board holds ships and all of them are sunk.
func (b Board) AllSunk() bool {
	if len(b.ships) == 0 {
		return false
	}
	for _, s := range b.ships {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

// Redacted returns the board as an opponent sees it: no ships and no
// CellShip cells.
func (b Board) Redacted() Board {
	var r Board
	for i, st := range b.cells {
		if st != CellShip {
			r.cells[i] = st
		}
	}
	return r
}

// Grid returns the cells as rows, grid[y][x].
func (b Board) Grid() [][]CellState {
	grid := make([][]CellState, Size)
	for y := range grid {
		grid[y] = slices.Clone(b.cells[y*Size : (y+1)*Size])
	}
	return grid
}

func (b Board) clone() Board {
	next := b
	next.ships = slices.Clone(b.ships)
	return next
}

type boardJSON struct {
	Cells [][]CellState `json:"cells"`
	Ships []Ship        `json:"ships,omitempty"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Cells: b.Grid(), Ships: b.ships})
}

func (b Board) String() string {
	var buffer bytes.Buffer
	w := tabwriter.NewWriter(&buffer, 2, 0, 1, ' ', 0)

	fmt.Fprint(w, "\t")
	for x := 0; x < Size; x++ {
		fmt.Fprint(w, strconv.Itoa(x)+"\t")
	}
	fmt.Fprint(w, "\n")

	for y := 0; y < Size; y++ {
		fmt.Fprint(w, strconv.Itoa(y)+"\t")
		for x := 0; x < Size; x++ {
			switch b.cells[y*Size+x] {
			case CellShip:
				fmt.Fprint(w, "S\t")
			case CellHit:
				fmt.Fprint(w, "X\t")
			case CellSunk:
				fmt.Fprint(w, "#\t")
			case CellMiss:
				fmt.Fprint(w, "o\t")
			default:
				fmt.Fprint(w, "~\t")
			}
		}
		fmt.Fprint(w, "\n")
	}
	w.Flush()
	return buffer.String()
}
