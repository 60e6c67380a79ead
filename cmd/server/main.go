package main

import (
	"net/http"
	"os"

	"battleship/internal/api"
	"battleship/internal/broadcast"
	"battleship/internal/config"
	"battleship/internal/game"
	"battleship/internal/htmx"
	"battleship/internal/stats"
	"battleship/internal/ws"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("server [main]", "err", err)
	}
	log.SetLevel(cfg.Level())
	log.SetReportTimestamp(true)

	// Initialize layers
	hub := broadcast.NewHub()
	store := stats.NewStore()
	gameService := game.NewService(game.Options{AI: cfg.AI, Pacing: cfg.AIDelay}, hub, store)

	// Setup routes
	mux := http.NewServeMux()
	api.NewHandler(gameService, store).RegisterRoutes(mux)
	ws.NewHandler(gameService, hub).RegisterRoutes(mux)
	htmx.NewHandler(gameService, hub).RegisterRoutes(mux)

	// Serve static files
	if _, err := os.Stat(cfg.WebDir); err != nil {
		log.Warn("server [main] static dir missing", "dir", cfg.WebDir)
	}
	mux.Handle("/", http.FileServer(http.Dir(cfg.WebDir)))

	server := api.CORSMiddleware(mux)

	log.Info("server [main] starting", "addr", cfg.Addr, "ai_delay", cfg.AIDelay)
	log.Fatal(http.ListenAndServe(cfg.Addr, server))
}
