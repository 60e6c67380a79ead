package htmx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"battleship/internal/ai"
	"battleship/internal/broadcast"
	"battleship/internal/game"
	"battleship/internal/models"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
)

// Handler handles HTMX requests with SSE for real-time updates.
type Handler struct {
	gameService *game.Service
	hub         *broadcast.Hub
}

// NewHandler creates a new HTMX handler.
func NewHandler(gameService *game.Service, hub *broadcast.Hub) *Handler {
	return &Handler{
		gameService: gameService,
		hub:         hub,
	}
}

// RegisterRoutes sets up the HTMX routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /htmx/match/new", h.handleNewMatch)
	mux.HandleFunc("/htmx/match", h.handleGetMatch)
	mux.HandleFunc("POST /htmx/fire/{matchID}/{x}/{y}", h.handleFire)
	mux.HandleFunc("POST /htmx/rematch/{matchID}", h.handleRematch)
	mux.HandleFunc("/htmx/sse/{matchID}", h.handleSSE)
}

// getTokenFromRequest reads the caller's secret seat token.
func getTokenFromRequest(r *http.Request) string {
	r.ParseForm()
	token := r.FormValue("token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return token
}

func (h *Handler) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	level, err := ai.ParseLevel(r.FormValue("level"))
	if err != nil {
		level = ai.Medium
	}
	seat, err := h.gameService.CreateMatch(game.CreateRequest{Mode: game.ModeAI, Level: level})
	w.Header().Set("Content-Type", "text/html")
	if err != nil {
		log.Error("htmx [handleNewMatch]", "err", err)
		ErrorStatus(err.Error()).Render(r.Context(), w)
		return
	}
	GameWrapper(seat.Snapshot, seat.Token).Render(r.Context(), w)
}

func (h *Handler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		matchID = r.FormValue("matchId")
	}
	if matchID == "" {
		http.Error(w, "Match ID required", http.StatusBadRequest)
		return
	}
	token := getTokenFromRequest(r)
	snap, err := h.gameService.Snapshot(matchID, token)
	w.Header().Set("Content-Type", "text/html")
	if err != nil {
		ErrorStatus(err.Error()).Render(r.Context(), w)
		return
	}
	GameWrapper(snap, token).Render(r.Context(), w)
}

func (h *Handler) handleFire(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errX != nil || errY != nil {
		http.Error(w, "Invalid coordinate", http.StatusBadRequest)
		return
	}
	token := getTokenFromRequest(r)

	res, snap, err := h.gameService.MakeMove(matchID, token, models.MoveIntent{X: x, Y: y})
	w.Header().Set("Content-Type", "text/html")
	if err != nil {
		// stale page or double click: show the current state unchanged
		if snap.MatchID == "" {
			ErrorStatus(err.Error()).Render(r.Context(), w)
			return
		}
		GameContent(snap, token, "").Render(r.Context(), w)
		return
	}
	cue := ""
	if res.Result != models.OutcomeMiss {
		cue = string(res.Result)
	}
	GameContent(snap, token, cue).Render(r.Context(), w)
}

func (h *Handler) handleRematch(w http.ResponseWriter, r *http.Request) {
	token := getTokenFromRequest(r)
	seat, err := h.gameService.Rematch(r.PathValue("matchID"), token, nil)
	w.Header().Set("Content-Type", "text/html")
	if err != nil {
		log.Debug("htmx [handleRematch]", "match", r.PathValue("matchID"), "err", err)
		ErrorStatus(err.Error()).Render(r.Context(), w)
		return
	}
	GameContent(seat.Snapshot, token, "").Render(r.Context(), w)
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	token := r.URL.Query().Get("token")
	side, err := h.gameService.Side(matchID, token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan models.Update, 10)
	h.hub.RegisterSSE(matchID, side, ch)
	defer h.hub.UnregisterSSE(matchID, ch)

	// Send initial state
	if snap, err := h.gameService.Snapshot(matchID, token); err == nil {
		writeEvent(w, renderToString(r.Context(), GameContent(snap, token, "")))
		flusher.Flush()
	}
	for {
		select {
		case u := <-ch:
			writeEvent(w, renderToString(r.Context(), GameContent(u.Snapshot, token, u.Cue)))
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, html string) {
	fmt.Fprintf(w, "event: game-update\ndata: %s\n\n", strings.ReplaceAll(html, "\n", ""))
}

func renderToString(ctx context.Context, component templ.Component) string {
	var buf bytes.Buffer
	component.Render(ctx, &buf)
	return buf.String()
}
