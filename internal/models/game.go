package models

// Side identifies one of the two fleets in a match.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "opponent"
}

// Phase represents where a match is in its lifecycle
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhasePlayerTurn   Phase = "player_turn"
	PhaseOpponentTurn Phase = "opponent_turn"
	PhaseGameOver     Phase = "game_over"
)

// Outcome classifies a resolved shot
type Outcome string

const (
	OutcomeMiss Outcome = "miss"
	OutcomeHit  Outcome = "hit"
	OutcomeSunk Outcome = "sunk"
	OutcomeWin  Outcome = "win"
)

// MoveIntent is a player's chosen target cell
type MoveIntent struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Coord returns the intent's target cell.
func (m MoveIntent) Coord() Coord {
	return Coord{X: m.X, Y: m.Y}
}

// MoveResult is the outcome of one resolved shot. ShipID and ShipLength are
// set when a ship was hit.
type MoveResult struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Result     Outcome `json:"result"`
	ShipID     int     `json:"shipId,omitempty"`
	ShipLength int     `json:"shipLength,omitempty"`
}

// Hit reports whether the shot struck a ship.
func (r MoveResult) Hit() bool {
	return r.Result != OutcomeMiss
}

// Sunk reports whether the shot finished a ship.
func (r MoveResult) Sunk() bool {
	return r.Result == OutcomeSunk || r.Result == OutcomeWin
}

// Snapshot is one side's immutable view of a match. PlayerID and Winner
// are public player ids, never access tokens.
type Snapshot struct {
	MatchID       string `json:"matchId"`
	PlayerID      string `json:"playerId,omitempty"`
	OwnBoard      Board  `json:"ownBoard"`
	OpponentBoard Board  `json:"opponentBoard"`
	IsMyTurn      bool   `json:"isMyTurn"`
	Phase         Phase  `json:"phase"`
	GameOver      bool   `json:"gameOver"`
	Winner        string `json:"winner,omitempty"`
	Moves         int    `json:"moves"`
}

// Summary is handed to the statistics collaborator once a match ends
type Summary struct {
	MatchID         string  `json:"matchId"`
	WinnerID        string  `json:"winnerId"`
	LoserID         string  `json:"loserId"`
	TotalMoves      int     `json:"totalMoves"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// Update is what transports push to a connected player after a transition
type Update struct {
	Snapshot Snapshot    `json:"snapshot"`
	Result   *MoveResult `json:"result,omitempty"`
	Attacker string      `json:"attacker,omitempty"`
	Cue      string      `json:"cue,omitempty"`
}

// Event is emitted by a match after every transition. Snapshots is indexed
// by Side. Cue names the side effect to play and is empty for misses.
type Event struct {
	MatchID   string      `json:"matchId"`
	Attacker  Side        `json:"attacker"`
	Result    *MoveResult `json:"result,omitempty"`
	Cue       string      `json:"cue,omitempty"`
	Snapshots [2]Snapshot `json:"-"`
	Summary   *Summary    `json:"summary,omitempty"`
}

// Update returns the event as seen by side.
func (e Event) Update(side Side) Update {
	u := Update{Snapshot: e.Snapshots[side], Result: e.Result, Cue: e.Cue}
	if e.Result != nil {
		u.Attacker = e.Snapshots[e.Attacker].PlayerID
	}
	return u
}
