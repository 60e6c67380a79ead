package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"battleship/internal/ai"
	"battleship/internal/models"
	"battleship/internal/placement"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrUnknownPlayer = errors.New("player is not part of this match")
	ErrMatchFull     = errors.New("match already has two players")
	ErrUnknownMode   = errors.New("unknown match mode")
)

// Mode selects who plays the opponent side
type Mode string

const (
	ModeAI  Mode = "ai"
	ModePvP Mode = "pvp"
)

// Publisher fans match events out to connected clients.
type Publisher interface {
	Publish(matchID string, ev models.Event)
}

// Recorder stores game-over summaries.
type Recorder interface {
	Record(s models.Summary)
}

// Options tunes matches created by the service.
type Options struct {
	AI     ai.Options
	Pacing time.Duration
	// Sleep waits out the pacing delay. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// CreateRequest describes a new match. An empty Placements list asks for a
// random fleet.
type CreateRequest struct {
	Mode       Mode                  `json:"mode"`
	Level      ai.Level              `json:"level,omitempty"`
	Placements []placement.Placement `json:"placements,omitempty"`
}

// Seat is returned to a player joining a match. Token is the secret that
// authorizes every later request; PlayerID is the public name others see.
type Seat struct {
	MatchID  string          `json:"matchId"`
	PlayerID string          `json:"playerId"`
	Token    string          `json:"token"`
	Snapshot models.Snapshot `json:"snapshot"`
}

type session struct {
	mu     sync.Mutex
	match  *Match
	tokens map[string]models.Side
}

// pause waits with the session unlocked so readers are not held up by AI
// pacing. The match is only touched again once the lock is back.
func (sess *session) pause(sleep func(time.Duration)) func(time.Duration) {
	return func(d time.Duration) {
		sess.mu.Unlock()
		defer sess.mu.Lock()
		sleep(d)
	}
}

func (sess *session) side(token string) (models.Side, error) {
	side, ok := sess.tokens[token]
	if !ok {
		return 0, ErrUnknownPlayer
	}
	return side, nil
}

// Service handles match lifecycle across many concurrent games
type Service struct {
	matches   map[string]*session
	mu        sync.RWMutex
	opts      Options
	publisher Publisher
	recorder  Recorder
}

// NewService creates a new match service. publisher and recorder may be nil.
func NewService(opts Options, publisher Publisher, recorder Recorder) *Service {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Service{
		matches:   make(map[string]*session),
		opts:      opts,
		publisher: publisher,
		recorder:  recorder,
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func newPlayerID() string {
	return "player-" + uuid.New().String()[:8]
}

// RandomFleet generates a valid placement for the full fleet.
func (s *Service) RandomFleet() ([]placement.Placement, error) {
	return placement.NewGenerator(newRand()).Generate()
}

func (s *Service) fleet(placements []placement.Placement) ([]models.Ship, error) {
	if len(placements) == 0 {
		return placement.NewGenerator(newRand()).Fleet()
	}
	return placement.ValidateFleet(placements)
}

func (s *Service) newMatch(id string, sess *session) *Match {
	return NewMatch(id,
		WithPacing(s.opts.Pacing),
		WithSleep(sess.pause(s.opts.Sleep)),
		WithObserver(s.observe),
	)
}

// CreateMatch creates a match and seats the caller on the player side,
// which always moves first.
func (s *Service) CreateMatch(req CreateRequest) (*Seat, error) {
	if req.Mode == "" {
		req.Mode = ModeAI
	}
	if req.Mode != ModeAI && req.Mode != ModePvP {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}

	fleet, err := s.fleet(req.Placements)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()[:8]
	token := uuid.New().String()
	player := Player{ID: newPlayerID()}
	sess := &session{tokens: map[string]models.Side{token: models.SidePlayer}}
	m := s.newMatch(id, sess)
	sess.match = m
	if err := m.Deploy(models.SidePlayer, player, fleet); err != nil {
		return nil, err
	}

	if req.Mode == ModeAI {
		opponent, fleet, err := s.aiOpponent(req.Level)
		if err != nil {
			return nil, err
		}
		if err := m.Deploy(models.SideOpponent, opponent, fleet); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.matches[id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if m.Ready() {
		if err := m.Start(); err != nil {
			return nil, err
		}
	}
	log.Info("game [CreateMatch]", "match", id, "mode", req.Mode, "level", req.Level)
	return &Seat{MatchID: id, PlayerID: player.ID, Token: token, Snapshot: m.Snapshot(models.SidePlayer)}, nil
}

func (s *Service) aiOpponent(level ai.Level) (Player, []models.Ship, error) {
	if level == "" {
		level = ai.Medium
	}
	rng := newRand()
	strategy, err := ai.New(level, rng, s.opts.AI)
	if err != nil {
		return Player{}, nil, err
	}
	fleet, err := placement.NewGenerator(rng).Fleet()
	if err != nil {
		return Player{}, nil, err
	}
	return Player{ID: "ai-" + string(level), AI: strategy}, fleet, nil
}

// JoinMatch seats a second human on a pvp match and starts it.
func (s *Service) JoinMatch(matchID string, placements []placement.Placement) (*Seat, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	fleet, err := s.fleet(placements)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.match.Ready() {
		return nil, ErrMatchFull
	}
	token := uuid.New().String()
	player := Player{ID: newPlayerID()}
	if err := sess.match.Deploy(models.SideOpponent, player, fleet); err != nil {
		return nil, err
	}
	sess.tokens[token] = models.SideOpponent
	if err := sess.match.Start(); err != nil {
		return nil, err
	}
	log.Info("game [JoinMatch]", "match", matchID)
	return &Seat{MatchID: matchID, PlayerID: player.ID, Token: token, Snapshot: sess.match.Snapshot(models.SideOpponent)}, nil
}

// Rematch restarts a finished match, or one where it is the caller's turn,
// with the same players. The caller's fleet comes from placements (random
// when empty); every other side gets a random fleet and AI players get a
// fresh strategy of the same level. On error the old match is unchanged.
func (s *Service) Rematch(matchID, token string, placements []placement.Placement) (*Seat, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	own, err := s.fleet(placements)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	side, err := sess.side(token)
	if err != nil {
		return nil, err
	}
	old := sess.match
	if !old.Ready() {
		return nil, ErrNotStarted
	}
	if old.Phase() != models.PhaseGameOver && old.Turn() != side {
		return nil, ErrNotYourTurn
	}

	m := s.newMatch(matchID, sess)
	for _, sd := range []models.Side{models.SidePlayer, models.SideOpponent} {
		p := old.Player(sd)
		fleet := own
		if sd != side {
			if p.AI != nil {
				p, fleet, err = s.aiOpponent(p.AI.Level())
			} else {
				fleet, err = s.fleet(nil)
			}
			if err != nil {
				return nil, err
			}
		}
		if err := m.Deploy(sd, p, fleet); err != nil {
			return nil, err
		}
	}

	old.Stop()
	sess.match = m
	if err := m.Start(); err != nil {
		return nil, err
	}
	log.Info("game [Rematch]", "match", matchID)
	return &Seat{MatchID: matchID, PlayerID: m.Player(side).ID, Token: token, Snapshot: m.Snapshot(side)}, nil
}

// Snapshot returns the match as the holder of token sees it.
func (s *Service) Snapshot(matchID, token string) (models.Snapshot, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return models.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	side, err := sess.side(token)
	if err != nil {
		return models.Snapshot{}, err
	}
	return sess.match.Snapshot(side), nil
}

// Side returns which side the holder of token plays in a match.
func (s *Service) Side(matchID, token string) (models.Side, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.side(token)
}

// MakeMove fires on behalf of the holder of token. On error the match is
// unchanged.
func (s *Service) MakeMove(matchID, token string, move models.MoveIntent) (models.MoveResult, models.Snapshot, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return models.MoveResult{}, models.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	side, err := sess.side(token)
	if err != nil {
		return models.MoveResult{}, models.Snapshot{}, err
	}
	res, err := sess.match.Fire(side, move.Coord())
	if err != nil {
		return models.MoveResult{}, sess.match.Snapshot(side), err
	}
	return res, sess.match.Snapshot(side), nil
}

// Abandon discards a match. Only one of its players may do so.
func (s *Service) Abandon(matchID, token string) error {
	sess, err := s.session(matchID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	if _, err := sess.side(token); err != nil {
		sess.mu.Unlock()
		return err
	}
	sess.match.Stop()
	sess.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matches[matchID] != sess {
		return ErrMatchNotFound
	}
	delete(s.matches, matchID)
	log.Info("game [Abandon]", "match", matchID)
	return nil
}

func (s *Service) session(matchID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return sess, nil
}

func (s *Service) observe(ev models.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ev.MatchID, ev)
	}
	if ev.Summary != nil {
		log.Info("game [observe] match over", "match", ev.MatchID, "winner", ev.Summary.WinnerID, "moves", ev.Summary.TotalMoves)
		if s.recorder != nil {
			s.recorder.Record(*ev.Summary)
		}
	}
}
