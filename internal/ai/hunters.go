package ai

import (
	"battleship/internal/models"
)

// NewEasy returns an AI that hunts uniformly at random.
func NewEasy(rng Random) Strategy {
	return &engine{
		level: Easy,
		hunt:  func(board models.Board) models.Coord { return randomCell(rng, board) },
	}
}

// NewMedium returns an AI that hunts on the checkerboard cells (x+y even),
// taking a fully random shot with probability randomProb.
func NewMedium(rng Random, randomProb float64) Strategy {
	return &engine{
		level: Medium,
		hunt: func(board models.Board) models.Coord {
			if rng.Float64() < randomProb {
				return randomCell(rng, board)
			}
			cells := ParityCells(board)
			if len(cells) == 0 {
				return randomCell(rng, board)
			}
			return cells[rng.IntN(len(cells))]
		},
	}
}

// NewHard returns an AI that, with probability cheatProb, fires at a cell it
// knows holds a ship. Otherwise it hunts at random.
func NewHard(rng Random, cheatProb float64) Strategy {
	return &engine{
		level: Hard,
		hunt: func(board models.Board) models.Coord {
			if rng.Float64() < cheatProb {
				if c, ok := firstShipCell(board); ok {
					return c
				}
			}
			return randomCell(rng, board)
		},
	}
}

func randomCell(rng Random, board models.Board) models.Coord {
	cells := board.AttackableCells()
	if len(cells) == 0 {
		return NoMove
	}
	return cells[rng.IntN(len(cells))]
}

// ParityCells returns the attackable cells with x+y even. Every ship of
// length two or more covers at least one of them.
func ParityCells(board models.Board) []models.Coord {
	var out []models.Coord
	for _, c := range board.AttackableCells() {
		if (c.X+c.Y)%2 == 0 {
			out = append(out, c)
		}
	}
	return out
}

func firstShipCell(board models.Board) (models.Coord, bool) {
	for _, c := range board.AttackableCells() {
		if board.Cell(c) == models.CellShip {
			return c, true
		}
	}
	return models.Coord{}, false
}
