// Package stats keeps per-player results of finished matches in memory.
package stats

import (
	"sort"
	"strings"
	"sync"

	"battleship/internal/models"
)

const (
	winPoints  = 3
	lossPoints = 0
)

// PlayerStats represents one player's record
type PlayerStats struct {
	PlayerID string `json:"playerId"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Moves    int    `json:"moves"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

// Store records game-over summaries
type Store struct {
	players map[string]*PlayerStats
	matches []models.Summary
	mu      sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{players: make(map[string]*PlayerStats)}
}

// Record adds a finished match to both players' records.
func (s *Store) Record(sum models.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = append(s.matches, sum)
	winner := s.player(sum.WinnerID)
	winner.Games++
	winner.Wins++
	winner.Points += winPoints
	winner.Moves += sum.TotalMoves

	if sum.LoserID != "" {
		loser := s.player(sum.LoserID)
		loser.Games++
		loser.Points += lossPoints
		loser.Moves += sum.TotalMoves
	}
}

func (s *Store) player(id string) *PlayerStats {
	p, ok := s.players[id]
	if !ok {
		p = &PlayerStats{PlayerID: id}
		s.players[id] = p
	}
	return p
}

// Top returns the n best players by points, then wins, then id.
func (s *Store) Top(n int) []PlayerStats {
	ranked := s.ranked()
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Player returns one player's record.
func (s *Store) Player(id string) (PlayerStats, bool) {
	for _, p := range s.ranked() {
		if p.PlayerID == id {
			return p, true
		}
	}
	return PlayerStats{}, false
}

// Matches returns how many finished matches were recorded.
func (s *Store) Matches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

func (s *Store) ranked() []PlayerStats {
	s.mu.RLock()
	out := make([]PlayerStats, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return strings.Compare(out[i].PlayerID, out[j].PlayerID) < 0
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
