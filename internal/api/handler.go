package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"battleship/internal/ai"
	"battleship/internal/game"
	"battleship/internal/models"
	"battleship/internal/placement"
	"battleship/internal/stats"

	"github.com/charmbracelet/log"
)

const maxBodyBytes = 64 << 10

// Handler handles HTTP requests
type Handler struct {
	gameService *game.Service
	stats       *stats.Store
}

// NewHandler creates a new handler
func NewHandler(gameService *game.Service, store *stats.Store) *Handler {
	return &Handler{
		gameService: gameService,
		stats:       store,
	}
}

// RegisterRoutes sets up the routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/match", h.handleCreateMatch)
	mux.HandleFunc("POST /api/match/{matchID}/join", h.handleJoinMatch)
	mux.HandleFunc("GET /api/match/{matchID}", h.handleGetMatch)
	mux.HandleFunc("POST /api/match/{matchID}/fire", h.handleFire)
	mux.HandleFunc("POST /api/match/{matchID}/rematch", h.handleRematch)
	mux.HandleFunc("DELETE /api/match/{matchID}", h.handleAbandon)
	mux.HandleFunc("GET /api/fleet/random", h.handleRandomFleet)
	mux.HandleFunc("GET /api/stats", h.handleTopStats)
	mux.HandleFunc("GET /api/stats/{playerID}", h.handlePlayerStats)
}

// fleetRequest carries an optional fleet for join and rematch.
type fleetRequest struct {
	Placements []placement.Placement `json:"placements"`
}

type fireResponse struct {
	Result   models.MoveResult `json:"result"`
	Snapshot models.Snapshot   `json:"snapshot"`
}

type errorResponse struct {
	Error    string           `json:"error"`
	Snapshot *models.Snapshot `json:"snapshot,omitempty"`
}

// handleCreateMatch creates a new match. An empty body starts a game against
// a medium AI with a random fleet.
func (h *Handler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req game.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	seat, err := h.gameService.CreateMatch(req)
	if err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	h.respondJSON(w, http.StatusCreated, seat)
}

func (h *Handler) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	var req fleetRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	seat, err := h.gameService.JoinMatch(r.PathValue("matchID"), req.Placements)
	if err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, seat)
}

func (h *Handler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.gameService.Snapshot(r.PathValue("matchID"), token(r))
	if err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleFire(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	move, err := models.DecodeMoveIntent(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	res, snap, err := h.gameService.MakeMove(r.PathValue("matchID"), token(r), move)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusConflict {
			// ignored move: hand back the unchanged state
			h.respondJSON(w, status, errorResponse{Error: err.Error(), Snapshot: &snap})
			return
		}
		h.respondError(w, status, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fireResponse{Result: res, Snapshot: snap})
}

// handleRematch restarts a match with the same players and fresh fleets.
func (h *Handler) handleRematch(w http.ResponseWriter, r *http.Request) {
	var req fleetRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	seat, err := h.gameService.Rematch(r.PathValue("matchID"), token(r), req.Placements)
	if err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, seat)
}

func (h *Handler) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := h.gameService.Abandon(r.PathValue("matchID"), token(r)); err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRandomFleet(w http.ResponseWriter, r *http.Request) {
	placements, err := h.gameService.RandomFleet()
	if err != nil {
		h.respondError(w, statusFor(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"placements": placements})
}

func (h *Handler) handleTopStats(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"stats": h.stats.Top(limit)})
}

func (h *Handler) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.stats.Player(r.PathValue("playerID"))
	if !ok {
		http.Error(w, "no stats for player", http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"stats": p})
}

// token is the caller's secret seat token, sent as ?token=.
func token(r *http.Request) string {
	return r.URL.Query().Get("token")
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps service and validation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusForbidden
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrCellResolved),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotStarted),
		errors.Is(err, game.ErrMatchFull):
		return http.StatusConflict
	case errors.Is(err, placement.ErrOutOfBounds),
		errors.Is(err, placement.ErrOverlap),
		errors.Is(err, placement.ErrAdjacent),
		errors.Is(err, placement.ErrInvalidLength),
		errors.Is(err, placement.ErrInvalidOrientation),
		errors.Is(err, placement.ErrFleetComposition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrUnknownMode), errors.Is(err, ai.ErrUnknownLevel):
		return http.StatusBadRequest
	case errors.Is(err, placement.ErrGenerationExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) respondError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("api [respondError]", "status", status, "err", err)
	}
	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// CORSMiddleware allows browser clients from any origin
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
