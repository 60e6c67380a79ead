// Package placement validates ship placements and generates random fleets.
package placement

import (
	"encoding/json"
	"errors"
	"fmt"

	"battleship/internal/models"
)

var (
	ErrOutOfBounds         = errors.New("ship does not fit on the board")
	ErrOverlap             = errors.New("ship overlaps another ship")
	ErrAdjacent            = errors.New("ship touches another ship")
	ErrInvalidLength       = errors.New("invalid ship length")
	ErrInvalidOrientation  = errors.New("invalid orientation")
	ErrFleetComposition    = errors.New("fleet must be 1x4, 2x3, 3x2 and 4x1")
	ErrGenerationExhausted = errors.New("could not generate a fleet placement")
)

// Orientation is the direction a ship extends from its origin cell
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

func (o Orientation) valid() bool {
	return o == Horizontal || o == Vertical
}

func (o *Orientation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Orientation(s).valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
	}
	*o = Orientation(s)
	return nil
}

// Placement is one submitted ship: origin cell, length and orientation
type Placement struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Length      int         `json:"length"`
	Orientation Orientation `json:"orientation"`
}

// Cells returns the cells the placement would occupy.
func (p Placement) Cells() []models.Coord {
	return OccupiedCells(p.X, p.Y, p.Length, p.Orientation)
}

// IsWithinBounds reports whether every cell of the ship lies on the board.
func IsWithinBounds(x, y, length int, o Orientation) bool {
	if length < 1 || !o.valid() {
		return false
	}
	for _, c := range OccupiedCells(x, y, length, o) {
		if !c.InBounds() {
			return false
		}
	}
	return true
}

// OccupiedCells returns the cells of a ship starting at (x, y), running
// along x when horizontal and along y when vertical.
func OccupiedCells(x, y, length int, o Orientation) []models.Coord {
	if length < 1 {
		return nil
	}
	cells := make([]models.Coord, length)
	for i := range cells {
		if o == Vertical {
			cells[i] = models.Coord{X: x, Y: y + i}
		} else {
			cells[i] = models.Coord{X: x + i, Y: y}
		}
	}
	return cells
}

// Overlaps reports whether any candidate cell is occupied by an existing ship.
func Overlaps(cells []models.Coord, ships []models.Ship) bool {
	for _, c := range cells {
		for _, s := range ships {
			if s.Occupies(c) {
				return true
			}
		}
	}
	return false
}

// Touches reports whether any candidate cell equals or is one of the eight
// neighbours of an existing ship's cell. The candidate's own cells are never
// compared with each other.
func Touches(cells []models.Coord, ships []models.Ship) bool {
	for _, c := range cells {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := models.Coord{X: c.X + dx, Y: c.Y + dy}
				for _, s := range ships {
					if s.Occupies(n) {
						return true
					}
				}
			}
		}
	}
	return false
}

// Validate checks p against already placed ships: bounds, then overlap,
// then adjacency. The returned error wraps the first failing rule.
func Validate(p Placement, ships []models.Ship) error {
	if p.Length < 1 || p.Length > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, p.Length)
	}
	if !p.Orientation.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if !IsWithinBounds(p.X, p.Y, p.Length, p.Orientation) {
		return ErrOutOfBounds
	}
	cells := p.Cells()
	if Overlaps(cells, ships) {
		return ErrOverlap
	}
	if Touches(cells, ships) {
		return ErrAdjacent
	}
	return nil
}

// ValidateFleet checks a full submission in order and returns the ships it
// describes, numbered from 1. The fleet must match models.FleetComposition.
func ValidateFleet(placements []Placement) ([]models.Ship, error) {
	ships := make([]models.Ship, 0, len(placements))
	for i, p := range placements {
		if err := Validate(p, ships); err != nil {
			return nil, fmt.Errorf("ship %d at (%d,%d): %w", i+1, p.X, p.Y, err)
		}
		ships = append(ships, models.NewShip(i+1, p.Cells()))
	}
	if err := checkComposition(placements); err != nil {
		return nil, err
	}
	return ships, nil
}

func checkComposition(placements []Placement) error {
	counts := make(map[int]int)
	for _, p := range placements {
		counts[p.Length]++
	}
	for length, want := range models.FleetComposition {
		if counts[length] != want {
			return fmt.Errorf("%w: got %d ships of length %d, want %d", ErrFleetComposition, counts[length], length, want)
		}
	}
	if len(placements) != len(models.FleetLengths()) {
		return fmt.Errorf("%w: got %d ships", ErrFleetComposition, len(placements))
	}
	return nil
}

// Ships converts already validated placements into ships without checking them.
func Ships(placements []Placement) []models.Ship {
	ships := make([]models.Ship, len(placements))
	for i, p := range placements {
		ships[i] = models.NewShip(i+1, p.Cells())
	}
	return ships
}
