package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/models"
)

func standardFleet() []Placement {
	return []Placement{
		{X: 0, Y: 0, Length: 4, Orientation: Horizontal},
		{X: 5, Y: 0, Length: 3, Orientation: Horizontal},
		{X: 0, Y: 2, Length: 3, Orientation: Horizontal},
		{X: 4, Y: 2, Length: 2, Orientation: Horizontal},
		{X: 7, Y: 2, Length: 2, Orientation: Horizontal},
		{X: 0, Y: 4, Length: 2, Orientation: Horizontal},
		{X: 3, Y: 4, Length: 1, Orientation: Horizontal},
		{X: 5, Y: 4, Length: 1, Orientation: Horizontal},
		{X: 7, Y: 4, Length: 1, Orientation: Horizontal},
		{X: 9, Y: 4, Length: 1, Orientation: Vertical},
	}
}

func TestIsWithinBounds(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		length int
		o      Orientation
		want   bool
	}{
		{"origin horizontal", 0, 0, 4, Horizontal, true},
		{"touches right edge", 6, 0, 4, Horizontal, true},
		{"past right edge", 7, 0, 4, Horizontal, false},
		{"touches bottom edge", 9, 6, 4, Vertical, true},
		{"past bottom edge", 9, 7, 4, Vertical, false},
		{"negative origin", -1, 0, 1, Horizontal, false},
		{"zero length", 0, 0, 0, Horizontal, false},
		{"bad orientation", 0, 0, 2, "diagonal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinBounds(tt.x, tt.y, tt.length, tt.o))
		})
	}
}

func TestOccupiedCells(t *testing.T) {
	assert.Equal(t, []models.Coord{{X: 2, Y: 3}, {X: 3, Y: 3}, {X: 4, Y: 3}}, OccupiedCells(2, 3, 3, Horizontal))
	assert.Equal(t, []models.Coord{{X: 2, Y: 3}, {X: 2, Y: 4}}, OccupiedCells(2, 3, 2, Vertical))
}

func TestValidateAdjacency(t *testing.T) {
	a := Placement{X: 0, Y: 0, Length: 2, Orientation: Horizontal}
	require.NoError(t, Validate(a, nil))
	ships := Ships([]Placement{a})

	err := Validate(Placement{X: 0, Y: 1, Length: 2, Orientation: Horizontal}, ships)
	assert.ErrorIs(t, err, ErrAdjacent)

	assert.NoError(t, Validate(Placement{X: 0, Y: 2, Length: 2, Orientation: Horizontal}, ships))
}

func TestValidateRejectsDiagonalContact(t *testing.T) {
	ships := Ships([]Placement{{X: 4, Y: 4, Length: 1, Orientation: Horizontal}})
	for _, c := range []models.Coord{{X: 3, Y: 3}, {X: 5, Y: 3}, {X: 3, Y: 5}, {X: 5, Y: 5}} {
		err := Validate(Placement{X: c.X, Y: c.Y, Length: 1, Orientation: Horizontal}, ships)
		assert.ErrorIs(t, err, ErrAdjacent, "corner %v", c)
	}
}

func TestValidateOrder(t *testing.T) {
	ships := Ships([]Placement{{X: 0, Y: 0, Length: 4, Orientation: Horizontal}})

	// off the board and overlapping: bounds wins
	err := Validate(Placement{X: 0, Y: -1, Length: 3, Orientation: Vertical}, ships)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// overlapping and touching: overlap wins
	err = Validate(Placement{X: 2, Y: 0, Length: 2, Orientation: Vertical}, ships)
	assert.ErrorIs(t, err, ErrOverlap)

	err = Validate(Placement{X: 4, Y: 0, Length: 2, Orientation: Vertical}, ships)
	assert.ErrorIs(t, err, ErrAdjacent)
}

func TestValidateRejectsBadShape(t *testing.T) {
	assert.ErrorIs(t, Validate(Placement{Length: 5, Orientation: Horizontal}, nil), ErrInvalidLength)
	assert.ErrorIs(t, Validate(Placement{Length: 0, Orientation: Horizontal}, nil), ErrInvalidLength)
	assert.ErrorIs(t, Validate(Placement{Length: 2, Orientation: "up"}, nil), ErrInvalidOrientation)
}

func TestValidateFleet(t *testing.T) {
	ships, err := ValidateFleet(standardFleet())
	require.NoError(t, err)
	require.Len(t, ships, 10)
	assert.Equal(t, 1, ships[0].ID())
	assert.Equal(t, 4, ships[0].Length())
}

func TestValidateFleetComposition(t *testing.T) {
	fleet := standardFleet()

	_, err := ValidateFleet(fleet[:9])
	assert.ErrorIs(t, err, ErrFleetComposition)

	fleet[9] = Placement{X: 9, Y: 6, Length: 2, Orientation: Vertical}
	_, err = ValidateFleet(fleet)
	assert.ErrorIs(t, err, ErrFleetComposition)
}

func TestValidateFleetReportsFirstBadShip(t *testing.T) {
	fleet := standardFleet()
	fleet[3] = Placement{X: 4, Y: 1, Length: 2, Orientation: Horizontal}

	_, err := ValidateFleet(fleet)
	assert.ErrorIs(t, err, ErrAdjacent)
	assert.Contains(t, err.Error(), "ship 4")
}

func TestGeneratedFleetsAreValidAndComplete(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 200; i++ {
		placements, err := g.Generate()
		if err != nil {
			// exhaustion is a legitimate outcome, just not a partial fleet
			require.ErrorIs(t, err, ErrGenerationExhausted)
			require.Nil(t, placements)
			continue
		}
		ships, err := ValidateFleet(placements)
		require.NoError(t, err, "fleet %d: %+v", i, placements)

		counts := map[int]int{}
		cells := 0
		for _, s := range ships {
			counts[s.Length()]++
			cells += s.Length()
		}
		assert.Equal(t, models.FleetComposition, counts)
		assert.Equal(t, 20, cells)
	}
}

func TestGeneratorPlacesLargestFirst(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(7, 7)))
	placements, err := g.Generate()
	require.NoError(t, err)

	var lengths []int
	for _, p := range placements {
		lengths = append(lengths, p.Length)
	}
	assert.Equal(t, models.FleetLengths(), lengths)
}

type constRandom int

func (c constRandom) IntN(int) int { return int(c) }

func TestGeneratorReportsExhaustion(t *testing.T) {
	g := NewGenerator(constRandom(0))
	placements, err := g.Generate()
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Nil(t, placements)

	_, err = g.Fleet()
	assert.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestOrientationJSON(t *testing.T) {
	var o Orientation
	require.NoError(t, o.UnmarshalJSON([]byte(`"vertical"`)))
	assert.Equal(t, Vertical, o)
	assert.ErrorIs(t, o.UnmarshalJSON([]byte(`"sideways"`)), ErrInvalidOrientation)
}
