package broadcast

import (
	"sync"
	"time"

	"battleship/internal/models"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Client is a WebSocket connection subscribed to one side of a match.
// Writes are serialized so the hub and the connection's handler can share it.
type Client struct {
	conn *websocket.Conn
	side models.Side
	mu   sync.Mutex
}

// WriteJSON sends v as one JSON frame.
func (c *Client) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub manages broadcasting match updates to WebSocket and SSE clients.
type Hub struct {
	wsClients  map[string]map[*Client]bool
	sseClients map[string]map[chan models.Update]models.Side
	mu         sync.RWMutex
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{
		wsClients:  make(map[string]map[*Client]bool),
		sseClients: make(map[string]map[chan models.Update]models.Side),
	}
}

// RegisterWS adds a WebSocket connection watching side of a match.
func (h *Hub) RegisterWS(matchID string, side models.Side, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.wsClients[matchID] == nil {
		h.wsClients[matchID] = make(map[*Client]bool)
	}
	c := &Client{conn: conn, side: side}
	h.wsClients[matchID][c] = true
	return c
}

// UnregisterWS removes a WebSocket connection for a match.
func (h *Hub) UnregisterWS(matchID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.wsClients[matchID], c)
	if len(h.wsClients[matchID]) == 0 {
		delete(h.wsClients, matchID)
	}
}

// RegisterSSE adds an SSE channel watching side of a match.
func (h *Hub) RegisterSSE(matchID string, side models.Side, ch chan models.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sseClients[matchID] == nil {
		h.sseClients[matchID] = make(map[chan models.Update]models.Side)
	}
	h.sseClients[matchID][ch] = side
}

// UnregisterSSE removes an SSE channel for a match.
func (h *Hub) UnregisterSSE(matchID string, ch chan models.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sseClients[matchID], ch)
	if len(h.sseClients[matchID]) == 0 {
		delete(h.sseClients, matchID)
	}
	close(ch)
}

// Publish sends each connected client the event as seen from its side.
// Slow SSE consumers drop updates rather than stall the match.
func (h *Hub) Publish(matchID string, ev models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.wsClients[matchID] {
		if err := c.WriteJSON(ev.Update(c.side)); err != nil {
			log.Warn("broadcast [Publish]", "match", matchID, "err", err)
		}
	}
	for ch, side := range h.sseClients[matchID] {
		select {
		case ch <- ev.Update(side):
		default:
		}
	}
}
