package htmx

import (
	"fmt"
	"net/url"

	"battleship/internal/models"
)

var cellGlyphs = map[models.CellState]string{
	models.CellEmpty: "",
	models.CellShip:  "■",
	models.CellHit:   "✕",
	models.CellMiss:  "·",
	models.CellSunk:  "#",
}

func sseURL(matchID, token string) string {
	return fmt.Sprintf("/htmx/sse/%s?token=%s", url.PathEscape(matchID), url.QueryEscape(token))
}

func fireURL(matchID string, x, y int, token string) string {
	return fmt.Sprintf("/htmx/fire/%s/%d/%d?token=%s", url.PathEscape(matchID), x, y, url.QueryEscape(token))
}

func rematchURL(matchID, token string) string {
	return fmt.Sprintf("/htmx/rematch/%s?token=%s", url.PathEscape(matchID), url.QueryEscape(token))
}

// statusLine compares public ids only.
func statusLine(snap models.Snapshot) string {
	switch {
	case snap.GameOver && snap.Winner == snap.PlayerID:
		return "> you win"
	case snap.GameOver:
		return "> you lose"
	case snap.Phase == models.PhaseInitializing:
		return "> waiting for an opponent..."
	case snap.IsMyTurn:
		return "> your turn"
	}
	return "> opponent is firing..."
}
