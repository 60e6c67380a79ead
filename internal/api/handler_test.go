package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/ai"
	"battleship/internal/game"
	"battleship/internal/models"
	"battleship/internal/placement"
	"battleship/internal/stats"
)

type seatResponse struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
	Snapshot struct {
		IsMyTurn bool         `json:"isMyTurn"`
		Phase    models.Phase `json:"phase"`
		Moves    int          `json:"moves"`
		GameOver bool         `json:"gameOver"`
	} `json:"snapshot"`
}

func newMux() *http.ServeMux {
	store := stats.NewStore()
	svc := game.NewService(game.Options{AI: ai.DefaultOptions()}, nil, store)
	mux := http.NewServeMux()
	NewHandler(svc, store).RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createMatch(t *testing.T, mux http.Handler, body string) seatResponse {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/match", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var seat seatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seat))
	return seat
}

func TestCreateMatchWithEmptyBody(t *testing.T) {
	seat := createMatch(t, newMux(), "")
	assert.NotEmpty(t, seat.MatchID)
	assert.NotEmpty(t, seat.PlayerID)
	assert.NotEmpty(t, seat.Token)
	assert.NotEqual(t, seat.PlayerID, seat.Token)
	assert.True(t, seat.Snapshot.IsMyTurn)
	assert.Equal(t, models.PhasePlayerTurn, seat.Snapshot.Phase)
}

func TestCreateMatchRejectsBadFleet(t *testing.T) {
	mux := newMux()

	rec := do(t, mux, http.MethodPost, "/api/match", `{"placements":[{"x":0,"y":0,"length":4,"orientation":"horizontal"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "fleet")

	rec = do(t, mux, http.MethodPost, "/api/match", `{"placements":[{"x":0,"y":0,"length":4,"orientation":"diagonal"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/match", `{"level":"nightmare"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFireFlow(t *testing.T) {
	mux := newMux()
	seat := createMatch(t, mux, `{"mode":"ai","level":"easy"}`)
	path := fmt.Sprintf("/api/match/%s/fire?token=%s", seat.MatchID, seat.Token)

	rec := do(t, mux, http.MethodPost, path, `{"x":3,"y":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fired struct {
		Result   models.MoveResult `json:"result"`
		Snapshot struct {
			Moves int `json:"moves"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fired))
	assert.Equal(t, 3, fired.Result.X)
	assert.NotEmpty(t, fired.Result.Result)
	assert.GreaterOrEqual(t, fired.Snapshot.Moves, 1)

	// same cell again is ignored
	rec = do(t, mux, http.MethodPost, path, `{"x":3,"y":3}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "snapshot")

	rec = do(t, mux, http.MethodPost, path, `{"x":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, path, `{"x":30,"y":3}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/fire?token=nobody", seat.MatchID), `{"x":1,"y":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the public id is not a credential
	rec = do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/fire?token=%s", seat.MatchID, seat.PlayerID), `{"x":1,"y":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetAndAbandonMatch(t *testing.T) {
	mux := newMux()
	seat := createMatch(t, mux, "")

	matchPath := fmt.Sprintf("/api/match/%s?token=%s", seat.MatchID, seat.Token)
	rec := do(t, mux, http.MethodGet, matchPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		OpponentBoard struct {
			Ships []json.RawMessage `json:"ships"`
		} `json:"opponentBoard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Empty(t, snap.OpponentBoard.Ships)

	rec = do(t, mux, http.MethodDelete, "/api/match/"+seat.MatchID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, mux, http.MethodGet, matchPath, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodDelete, matchPath, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodGet, matchPath, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPvPJoin(t *testing.T) {
	mux := newMux()
	host := createMatch(t, mux, `{"mode":"pvp"}`)
	assert.Equal(t, models.PhaseInitializing, host.Snapshot.Phase)

	rec := do(t, mux, http.MethodPost, "/api/match/"+host.MatchID+"/join", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, mux, http.MethodPost, "/api/match/"+host.MatchID+"/join", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRematchEndpoint(t *testing.T) {
	mux := newMux()
	seat := createMatch(t, mux, `{"level":"easy"}`)

	rec := do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/fire?token=%s", seat.MatchID, seat.Token), `{"x":0,"y":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/rematch?token=nobody", seat.MatchID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/rematch?token=%s", seat.MatchID, seat.Token), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var again seatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, seat.MatchID, again.MatchID)
	assert.Equal(t, seat.Token, again.Token)
	assert.Zero(t, again.Snapshot.Moves)
	assert.True(t, again.Snapshot.IsMyTurn)

	rec = do(t, mux, http.MethodPost, fmt.Sprintf("/api/match/%s/rematch?token=%s", seat.MatchID, seat.Token), `{"placements":[{"x":0,"y":0,"length":4,"orientation":"horizontal"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRandomFleetEndpoint(t *testing.T) {
	rec := do(t, newMux(), http.MethodGet, "/api/fleet/random", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Placements []placement.Placement `json:"placements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, err := placement.ValidateFleet(body.Placements)
	assert.NoError(t, err)
}

func TestStatsEndpoints(t *testing.T) {
	mux := newMux()
	rec := do(t, mux, http.MethodGet, "/api/stats?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"stats":[]}`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/stats?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/stats/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(game.ErrMatchNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrapped: %w", game.ErrNotYourTurn)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(fmt.Errorf("ship 2: %w", placement.ErrOverlap)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(placement.ErrGenerationExhausted))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(newMux())
	rec := do(t, h, http.MethodOptions, "/api/match", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
