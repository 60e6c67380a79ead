package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(x, y, length int, vertical bool) []Coord {
	cells := make([]Coord, length)
	for i := range cells {
		if vertical {
			cells[i] = Coord{x, y + i}
		} else {
			cells[i] = Coord{x + i, y}
		}
	}
	return cells
}

func TestShipSinksExactlyWhenEveryCellIsHit(t *testing.T) {
	for length := 1; length <= 4; length++ {
		s := NewShip(1, line(2, 3, length, false))
		for i, c := range s.Positions() {
			require.False(t, s.IsSunk(), "length %d sunk after %d hits", length, i)
			s = s.WithHit(c)
			// a repeated hit must not count twice
			s = s.WithHit(c)
			assert.Len(t, s.Hits(), i+1)
		}
		assert.True(t, s.IsSunk(), "length %d", length)
	}
}

func TestShipWithHitIgnoresForeignCells(t *testing.T) {
	s := NewShip(1, line(0, 0, 2, false))
	next := s.WithHit(Coord{5, 5})
	assert.Empty(t, next.Hits())
	assert.False(t, next.IsSunk())
}

func TestShipWithHitDoesNotMutateReceiver(t *testing.T) {
	s := NewShip(1, line(0, 0, 3, true))
	hit := s.WithHit(Coord{0, 1})
	assert.Empty(t, s.Hits())
	assert.Equal(t, []Coord{{0, 1}}, hit.Hits())
}

func TestNewBoardPaintsShips(t *testing.T) {
	b := NewBoard([]Ship{NewShip(1, line(1, 1, 2, false))})
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			want := CellEmpty
			if y == 1 && (x == 1 || x == 2) {
				want = CellShip
			}
			assert.Equal(t, want, b.Cell(Coord{x, y}), "cell (%d,%d)", x, y)
		}
	}
}

func TestBoardUpdatesReturnNewValues(t *testing.T) {
	ship := NewShip(1, line(0, 0, 2, false))
	b := NewBoard([]Ship{ship})

	hit := b.WithCell(Coord{0, 0}, CellHit).WithShip(ship.WithHit(Coord{0, 0}))

	assert.Equal(t, CellShip, b.Cell(Coord{0, 0}))
	assert.Equal(t, CellHit, hit.Cell(Coord{0, 0}))

	orig, ok := b.ShipAt(Coord{0, 0})
	require.True(t, ok)
	assert.Empty(t, orig.Hits())

	updated, ok := hit.ShipAt(Coord{1, 0})
	require.True(t, ok)
	assert.Equal(t, []Coord{{0, 0}}, updated.Hits())
}

func TestBoardRedactedHidesShips(t *testing.T) {
	b := NewBoard([]Ship{NewShip(1, line(0, 0, 3, false))}).
		WithCell(Coord{0, 0}, CellHit).
		WithCell(Coord{9, 9}, CellMiss)

	r := b.Redacted()
	assert.Equal(t, CellHit, r.Cell(Coord{0, 0}))
	assert.Equal(t, CellEmpty, r.Cell(Coord{1, 0}))
	assert.Equal(t, CellMiss, r.Cell(Coord{9, 9}))
	assert.Empty(t, r.Ships())

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"ship"`)
	assert.NotContains(t, string(raw), `"ships"`)
}

func TestBoardAllSunk(t *testing.T) {
	a := NewShip(1, line(0, 0, 1, false))
	c := NewShip(2, line(5, 5, 1, false))
	b := NewBoard([]Ship{a, c})
	assert.False(t, b.AllSunk())

	b = b.WithShip(a.WithHit(Coord{0, 0}))
	assert.False(t, b.AllSunk())

	b = b.WithShip(c.WithHit(Coord{5, 5}))
	assert.True(t, b.AllSunk())

	assert.False(t, Board{}.AllSunk())
}

func TestBoardAttackable(t *testing.T) {
	b := NewBoard([]Ship{NewShip(1, line(0, 0, 1, false))}).WithCell(Coord{3, 3}, CellMiss)

	assert.True(t, b.Attackable(Coord{0, 0}))
	assert.True(t, b.Attackable(Coord{4, 4}))
	assert.False(t, b.Attackable(Coord{3, 3}))
	assert.False(t, b.Attackable(Coord{-1, 0}))
	assert.False(t, b.Attackable(Coord{0, 10}))
	assert.Len(t, b.AttackableCells(), Size*Size-1)
	assert.False(t, b.Resolved())
}

func TestFleetLengths(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}, FleetLengths())
}

func TestCoordNeighbours(t *testing.T) {
	assert.ElementsMatch(t, []Coord{{1, 0}, {0, 1}}, Coord{0, 0}.Neighbours())
	assert.Len(t, Coord{5, 5}.Neighbours(), 4)
	assert.ElementsMatch(t, []Coord{{9, 8}, {8, 9}}, Coord{9, 9}.Neighbours())
}

func TestCellStateJSON(t *testing.T) {
	raw, err := json.Marshal(CellSunk)
	require.NoError(t, err)
	assert.JSONEq(t, `"sunk"`, string(raw))

	var st CellState
	require.NoError(t, json.Unmarshal([]byte(`"miss"`), &st))
	assert.Equal(t, CellMiss, st)
	assert.Error(t, json.Unmarshal([]byte(`"lava"`), &st))
}
