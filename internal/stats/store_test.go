package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/models"
)

func TestStoreRanksByPoints(t *testing.T) {
	s := NewStore()
	s.Record(models.Summary{MatchID: "a", WinnerID: "alice", LoserID: "ai-hard", TotalMoves: 80})
	s.Record(models.Summary{MatchID: "b", WinnerID: "ai-hard", LoserID: "bob", TotalMoves: 60})
	s.Record(models.Summary{MatchID: "c", WinnerID: "alice", LoserID: "bob", TotalMoves: 70})

	top := s.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].PlayerID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[0].Wins)
	assert.Equal(t, 6, top[0].Points)
	assert.Equal(t, "ai-hard", top[1].PlayerID)

	bob, ok := s.Player("bob")
	require.True(t, ok)
	assert.Equal(t, 2, bob.Games)
	assert.Zero(t, bob.Wins)
	assert.Equal(t, 3, bob.Rank)
	assert.Equal(t, 130, bob.Moves)

	_, ok = s.Player("carol")
	assert.False(t, ok)
	assert.Equal(t, 3, s.Matches())
	assert.Len(t, s.Top(0), 3)
}
