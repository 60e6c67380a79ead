package htmx

// Go rendering of components.templ, maintained by hand in the shape
// `templ generate` emits.

import (
	"context"
	"fmt"
	"io"

	"battleship/internal/models"

	"github.com/a-h/templ"
)

func GameWrapper(snap models.Snapshot, token string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div hx-ext="sse" sse-connect="%s" sse-swap="game-update" hx-swap="innerHTML" data-match-id="%s"><div id="game-content">`,
			templ.EscapeString(sseURL(snap.MatchID, token)),
			templ.EscapeString(snap.MatchID),
		)
		if err != nil {
			return err
		}
		if err := GameContent(snap, token, "").Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</div></div>`)
		return err
	})
}

func GameContent(snap models.Snapshot, token string, cue string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="status" id="status" data-cue="%s">%s</div><div class="boards">`,
			templ.EscapeString(cue), templ.EscapeString(statusLine(snap)))
		if err != nil {
			return err
		}
		if err := board(snap, token, snap.OwnBoard, "own", false).Render(ctx, w); err != nil {
			return err
		}
		if err := board(snap, token, snap.OpponentBoard, "target", snap.IsMyTurn).Render(ctx, w); err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, `</div><div class="moves">moves: %s</div><div class="match-id" id="matchId">session: %s</div>`,
			templ.EscapeString(fmt.Sprint(snap.Moves)), templ.EscapeString(snap.MatchID))
		if err != nil {
			return err
		}
		if snap.GameOver {
			_, err = fmt.Fprintf(w, `<button class="rematch" hx-post="%s" hx-target="#game-content" hx-swap="innerHTML">rematch</button>`,
				templ.EscapeString(rematchURL(snap.MatchID, token)))
		}
		return err
	})
}

func ErrorStatus(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="status" id="status">&gt; error: %s</div>`, templ.EscapeString(msg))
		return err
	})
}

func board(snap models.Snapshot, token string, b models.Board, class string, clickable bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="%s">`, templ.EscapeString("board "+class)); err != nil {
			return err
		}
		for y, row := range b.Grid() {
			for x, st := range row {
				var err error
				if clickable && st.Attackable() {
					_, err = fmt.Fprintf(w, `<div class="%s" hx-post="%s" hx-target="#game-content" hx-swap="innerHTML">%s</div>`,
						templ.EscapeString("cell "+st.String()),
						templ.EscapeString(fireURL(snap.MatchID, x, y, token)),
						templ.EscapeString(cellGlyphs[st]))
				} else {
					_, err = fmt.Fprintf(w, `<div class="%s">%s</div>`,
						templ.EscapeString("cell "+st.String()+" disabled"),
						templ.EscapeString(cellGlyphs[st]))
				}
				if err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
