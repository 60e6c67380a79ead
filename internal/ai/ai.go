// Package ai implements the computer opponents. Every strategy shares the
// same hunt, target and line-finishing logic and differs only in how it picks
// a cell while hunting.
package ai

import (
	"errors"
	"fmt"
	"strings"

	"battleship/internal/models"
)

// ErrUnknownLevel is returned by ParseLevel and New for unsupported levels.
var ErrUnknownLevel = errors.New("unknown ai level")

const (
	DefaultMediumRandomProb = 0.10
	DefaultHardCheatProb    = 0.70
)

// NoMove is returned when the board has no attackable cell left. It is off
// the board, so a match rejects it.
var NoMove = models.Coord{X: -1, Y: -1}

// Random is the randomness an AI needs. *rand.Rand from math/rand/v2
// satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Strategy picks shots against the defender's board and learns from their
// outcome. NextMove receives the defender's true board; honest strategies
// treat ship and empty cells alike and only the hard level looks at ships.
type Strategy interface {
	NextMove(board models.Board) models.Coord
	NotifyMoveResult(x, y int, hit, sunk bool)
	Level() Level
}

// Level is an AI difficulty
type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
)

// ParseLevel maps a case-insensitive name onto a Level.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Easy, Medium, Hard:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Options holds the tunable hunting probabilities.
type Options struct {
	// MediumRandomProb is the chance a medium AI ignores parity for a shot.
	MediumRandomProb float64
	// HardCheatProb is the chance a hard AI fires straight at a ship cell.
	HardCheatProb float64
}

// DefaultOptions returns the stock difficulty tuning.
func DefaultOptions() Options {
	return Options{
		MediumRandomProb: DefaultMediumRandomProb,
		HardCheatProb:    DefaultHardCheatProb,
	}
}

// New creates a strategy for level.
func New(level Level, rng Random, opts Options) (Strategy, error) {
	switch level {
	case Easy:
		return NewEasy(rng), nil
	case Medium:
		return NewMedium(rng, opts.MediumRandomProb), nil
	case Hard:
		return NewHard(rng, opts.HardCheatProb), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// engine couples a hunting policy with the shared follow-up tracker.
type engine struct {
	level Level
	hunt  func(board models.Board) models.Coord
	tracker
}

func (e *engine) NextMove(board models.Board) models.Coord {
	if c, ok := e.follow(board); ok {
		return c
	}
	return e.hunt(board)
}

func (e *engine) NotifyMoveResult(x, y int, hit, sunk bool) {
	e.notify(models.Coord{X: x, Y: y}, hit, sunk)
}

func (e *engine) Level() Level {
	return e.level
}
