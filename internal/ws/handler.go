package ws

import (
	"errors"
	"net/http"

	"battleship/internal/broadcast"
	"battleship/internal/game"
	"battleship/internal/models"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections for real-time match updates.
type Handler struct {
	gameService *game.Service
	hub         *broadcast.Hub
}

// NewHandler creates a new WebSocket handler.
func NewHandler(gameService *game.Service, hub *broadcast.Hub) *Handler {
	return &Handler{
		gameService: gameService,
		hub:         hub,
	}
}

// RegisterRoutes sets up the WebSocket routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/{matchID}", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	token := r.URL.Query().Get("token")

	side, err := h.gameService.Side(matchID, token)
	if err != nil {
		status := http.StatusForbidden
		if errors.Is(err, game.ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("ws [handleWebSocket]", "match", matchID, "err", err)
		return
	}
	defer conn.Close()

	client := h.hub.RegisterWS(matchID, side, conn)
	defer h.hub.UnregisterWS(matchID, client)

	// Send current match state
	if snap, err := h.gameService.Snapshot(matchID, token); err == nil {
		client.WriteJSON(models.Update{Snapshot: snap})
	}

	// Move intents in; results reach every client through the hub
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws [handleWebSocket]", "match", matchID, "err", err)
			}
			break
		}
		move, err := models.DecodeMoveIntent(data)
		if err != nil {
			client.WriteJSON(map[string]string{"error": err.Error()})
			continue
		}
		if _, _, err := h.gameService.MakeMove(matchID, token, move); err != nil {
			log.Debug("ws [handleWebSocket] move ignored", "match", matchID, "err", err)
			client.WriteJSON(map[string]string{"error": err.Error()})
		}
	}
}
