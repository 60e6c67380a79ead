package game

import (
	"errors"
	"time"

	"battleship/internal/ai"
	"battleship/internal/models"

	"github.com/charmbracelet/log"
)

var (
	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameOver       = errors.New("game is over")
	ErrOutOfBounds    = errors.New("coordinate is off the board")
	ErrCellResolved   = errors.New("cell already fired upon")
	ErrNotStarted     = errors.New("match has not started")
	ErrAlreadyStarted = errors.New("match already started")
	ErrMissingFleet   = errors.New("both fleets must be deployed")
)

// Player is one side of a match. ID is public: it shows up in the
// opponent's updates, summaries and stats, so it must never be a credential.
// AI is nil for humans.
type Player struct {
	ID string
	AI ai.Strategy
}

// Observer receives every event a match emits.
type Observer func(models.Event)

// Match is the turn state machine of one game. It is not safe for
// concurrent use; callers serialize access per match.
type Match struct {
	id      string
	players [2]Player
	// boards[s] is side s's own fleet, views[s] what s has learned of the
	// other fleet
	boards   [2]models.Board
	views    [2]models.Board
	deployed [2]bool

	phase  models.Phase
	winner models.Side
	moves  int
	shots  [2]int

	startedAt time.Time
	endedAt   time.Time

	now       func() time.Time
	sleep     func(time.Duration)
	pacing    time.Duration
	observers []Observer
	stopped   bool
}

// MatchOption configures a Match
type MatchOption func(*Match)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MatchOption {
	return func(m *Match) { m.now = now }
}

// WithPacing delays each AI shot by d.
func WithPacing(d time.Duration) MatchOption {
	return func(m *Match) { m.pacing = d }
}

// WithSleep replaces time.Sleep for AI pacing. A service may use it to
// release its lock on the match while the AI waits.
func WithSleep(sleep func(time.Duration)) MatchOption {
	return func(m *Match) { m.sleep = sleep }
}

// WithObserver registers an event observer.
func WithObserver(o Observer) MatchOption {
	return func(m *Match) { m.observers = append(m.observers, o) }
}

// NewMatch creates a match waiting for both fleets.
func NewMatch(id string, opts ...MatchOption) *Match {
	m := &Match{
		id:    id,
		phase: models.PhaseInitializing,
		now:   time.Now,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Phase returns the current phase.
func (m *Match) Phase() models.Phase { return m.phase }

// Player returns the player on side.
func (m *Match) Player(side models.Side) Player { return m.players[side] }

// Deploy seats p on side with a validated fleet.
func (m *Match) Deploy(side models.Side, p Player, fleet []models.Ship) error {
	if m.phase != models.PhaseInitializing {
		return ErrAlreadyStarted
	}
	m.players[side] = p
	m.boards[side] = models.NewBoard(fleet)
	m.views[side] = models.Board{}
	m.deployed[side] = true
	return nil
}

// Ready reports whether both fleets are deployed.
func (m *Match) Ready() bool {
	return m.deployed[models.SidePlayer] && m.deployed[models.SideOpponent]
}

// Start gives the first turn to SidePlayer. When that side is an AI the
// match plays out its turns immediately.
func (m *Match) Start() error {
	if m.phase != models.PhaseInitializing {
		return ErrAlreadyStarted
	}
	if !m.Ready() {
		return ErrMissingFleet
	}
	m.startedAt = m.now()
	m.phase = models.PhasePlayerTurn
	log.Debug("game [Start]", "match", m.id, "player", m.players[0].ID, "opponent", m.players[1].ID)
	m.emit(models.SidePlayer, nil)
	m.driveAI()
	return nil
}

// Turn returns the side allowed to fire. It is only meaningful while the
// match is in progress.
func (m *Match) Turn() models.Side {
	if m.phase == models.PhaseOpponentTurn {
		return models.SideOpponent
	}
	return models.SidePlayer
}

// Fire resolves a shot by side at c. Illegal shots return an error and
// leave the match untouched. If the turn passes to an AI, the AI keeps
// firing until it misses or wins before Fire returns.
func (m *Match) Fire(side models.Side, c models.Coord) (models.MoveResult, error) {
	res, err := m.fire(side, c)
	if err != nil {
		return models.MoveResult{}, err
	}
	m.driveAI()
	return res, nil
}

func (m *Match) fire(side models.Side, c models.Coord) (models.MoveResult, error) {
	switch {
	case m.phase == models.PhaseGameOver:
		return models.MoveResult{}, ErrGameOver
	case m.phase == models.PhaseInitializing:
		return models.MoveResult{}, ErrNotStarted
	case side != m.Turn():
		return models.MoveResult{}, ErrNotYourTurn
	case !c.InBounds():
		return models.MoveResult{}, ErrOutOfBounds
	case !m.views[side].Attackable(c):
		return models.MoveResult{}, ErrCellResolved
	}

	res := m.resolve(side, c)
	log.Debug("game [fire]", "match", m.id, "side", side, "x", c.X, "y", c.Y, "result", res.Result)
	m.emit(side, &res)
	return res, nil
}

func (m *Match) resolve(side models.Side, c models.Coord) models.MoveResult {
	defender := side.Other()
	board, view := m.boards[defender], m.views[side]
	m.moves++
	m.shots[side]++

	res := models.MoveResult{X: c.X, Y: c.Y, Result: models.OutcomeMiss}
	ship, ok := board.ShipAt(c)
	if !ok {
		m.boards[defender] = board.WithCell(c, models.CellMiss)
		m.views[side] = view.WithCell(c, models.CellMiss)
		m.phase = turnPhase(defender)
		return res
	}

	ship = ship.WithHit(c)
	board = board.WithShip(ship).WithCell(c, models.CellHit)
	view = view.WithCell(c, models.CellHit)
	res.Result = models.OutcomeHit
	res.ShipID = ship.ID()
	res.ShipLength = ship.Length()

	if ship.IsSunk() {
		for _, p := range ship.Positions() {
			board = board.WithCell(p, models.CellSunk)
			view = view.WithCell(p, models.CellSunk)
		}
		res.Result = models.OutcomeSunk
		if board.AllSunk() {
			res.Result = models.OutcomeWin
			m.phase = models.PhaseGameOver
			m.winner = side
			m.endedAt = m.now()
		}
	}
	m.boards[defender] = board
	m.views[side] = view
	return res
}

// driveAI lets AI players fire for as long as they hold the turn. Every
// iteration consumes a cell, so the loop ends after at most two full boards.
func (m *Match) driveAI() {
	for !m.stopped && (m.phase == models.PhasePlayerTurn || m.phase == models.PhaseOpponentTurn) {
		side := m.Turn()
		strategy := m.players[side].AI
		if strategy == nil || m.views[side].Resolved() {
			return
		}
		if m.pacing > 0 {
			m.sleep(m.pacing)
			if m.stopped {
				return
			}
		}
		c := strategy.NextMove(m.boards[side.Other()])
		res, err := m.fire(side, c)
		if err != nil {
			log.Error("game [driveAI]", "match", m.id, "level", strategy.Level(), "x", c.X, "y", c.Y, "err", err)
			return
		}
		strategy.NotifyMoveResult(c.X, c.Y, res.Hit(), res.Sunk())
	}
}

func turnPhase(side models.Side) models.Phase {
	if side == models.SideOpponent {
		return models.PhaseOpponentTurn
	}
	return models.PhasePlayerTurn
}

// Snapshot returns side's view of the match.
func (m *Match) Snapshot(side models.Side) models.Snapshot {
	s := models.Snapshot{
		MatchID:       m.id,
		PlayerID:      m.players[side].ID,
		OwnBoard:      m.boards[side],
		OpponentBoard: m.views[side],
		Phase:         m.phase,
		GameOver:      m.phase == models.PhaseGameOver,
		Moves:         m.moves,
	}
	switch m.phase {
	case models.PhasePlayerTurn, models.PhaseOpponentTurn:
		s.IsMyTurn = m.Turn() == side
	case models.PhaseGameOver:
		s.Winner = m.players[m.winner].ID
	}
	return s
}

// Summary returns the game-over summary once the match has ended.
func (m *Match) Summary() (models.Summary, bool) {
	if m.phase != models.PhaseGameOver {
		return models.Summary{}, false
	}
	return models.Summary{
		MatchID:         m.id,
		WinnerID:        m.players[m.winner].ID,
		LoserID:         m.players[m.winner.Other()].ID,
		TotalMoves:      m.moves,
		DurationSeconds: m.endedAt.Sub(m.startedAt).Seconds(),
	}, true
}

// Stop ends AI play on a discarded match. A pending paced shot is dropped.
func (m *Match) Stop() { m.stopped = true }

// Shots returns how many shots side has fired.
func (m *Match) Shots(side models.Side) int {
	return m.shots[side]
}

func (m *Match) emit(attacker models.Side, res *models.MoveResult) {
	if len(m.observers) == 0 {
		return
	}
	ev := models.Event{
		MatchID:   m.id,
		Attacker:  attacker,
		Result:    res,
		Snapshots: [2]models.Snapshot{m.Snapshot(models.SidePlayer), m.Snapshot(models.SideOpponent)},
	}
	if res != nil && res.Result != models.OutcomeMiss {
		ev.Cue = string(res.Result)
	}
	if s, ok := m.Summary(); ok {
		ev.Summary = &s
	}
	for _, o := range m.observers {
		o(ev)
	}
}
