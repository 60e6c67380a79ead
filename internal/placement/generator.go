package placement

import (
	"battleship/internal/models"
)

const (
	DefaultShipAttempts  = 100
	DefaultFleetAttempts = 10
)

// Random is the source of randomness used by the generator. *rand.Rand from
// math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

// Generator places a full fleet at random. A ship that cannot be placed
// within ShipAttempts tries discards the whole fleet and starts over, at most
// FleetAttempts times.
type Generator struct {
	rng           Random
	ShipAttempts  int
	FleetAttempts int
}

// NewGenerator creates a generator with the default retry budgets
func NewGenerator(rng Random) *Generator {
	return &Generator{
		rng:           rng,
		ShipAttempts:  DefaultShipAttempts,
		FleetAttempts: DefaultFleetAttempts,
	}
}

// Generate returns a valid placement of the whole fleet, largest ship first,
// or ErrGenerationExhausted once every fleet attempt has failed.
func (g *Generator) Generate() ([]Placement, error) {
	for attempt := 0; attempt < g.FleetAttempts; attempt++ {
		if placements, ok := g.tryFleet(); ok {
			return placements, nil
		}
	}
	return nil, ErrGenerationExhausted
}

// Fleet is Generate converted into ships.
func (g *Generator) Fleet() ([]models.Ship, error) {
	placements, err := g.Generate()
	if err != nil {
		return nil, err
	}
	return Ships(placements), nil
}

func (g *Generator) tryFleet() ([]Placement, bool) {
	lengths := models.FleetLengths()
	placements := make([]Placement, 0, len(lengths))
	ships := make([]models.Ship, 0, len(lengths))

	for _, length := range lengths {
		p, ok := g.tryShip(length, ships)
		if !ok {
			return nil, false
		}
		placements = append(placements, p)
		ships = append(ships, models.NewShip(len(ships)+1, p.Cells()))
	}
	return placements, true
}

func (g *Generator) tryShip(length int, ships []models.Ship) (Placement, bool) {
	for attempt := 0; attempt < g.ShipAttempts; attempt++ {
		p := Placement{
			X:           g.rng.IntN(models.Size),
			Y:           g.rng.IntN(models.Size),
			Length:      length,
			Orientation: Horizontal,
		}
		if g.rng.IntN(2) == 1 {
			p.Orientation = Vertical
		}
		if Validate(p, ships) == nil {
			return p, true
		}
	}
	return Placement{}, false
}
