// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/reelmatch/server/catalog"
	"github.com/reelmatch/server/cliparse"
	"github.com/reelmatch/server/handlers"
	"github.com/reelmatch/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, provider catalog.Provider) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	partyHandler := handlers.NewPartyHandler(db, cfg, provider)
	swipeHandler := handlers.NewSwipeHandler(db, cfg)
	roundHandler := handlers.NewRoundHandler(db, cfg, provider)

	// Party creation hits the external catalog; keep it throttled
	createLimiter := rate.NewLimiter(rate.Limit(1), 5)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Party management
	mux.HandleFunc("POST /parties", middleware.WithLogging(middleware.WithRateLimit(createLimiter, partyHandler.CreateParty)))
	mux.HandleFunc("POST /parties/join", middleware.WithLogging(partyHandler.JoinParty))
	mux.HandleFunc("GET /parties/{id}", middleware.WithLogging(partyHandler.GetParty))

	// Swiping (requires X-Member-Token)
	mux.HandleFunc("GET /parties/{id}/next-card", middleware.WithLogging(swipeHandler.NextCard))
	mux.HandleFunc("POST /parties/{id}/swipes", middleware.WithLogging(swipeHandler.RecordSwipe))
	mux.HandleFunc("GET /parties/{id}/matches", middleware.WithLogging(swipeHandler.GetMatches))

	// Round lifecycle
	mux.HandleFunc("GET /parties/{id}/rounds/current", middleware.WithLogging(roundHandler.CurrentRound))
	mux.HandleFunc("POST /parties/{id}/rounds/{roundID}/complete", middleware.WithLogging(roundHandler.CompleteRound))
	mux.HandleFunc("POST /parties/{id}/rounds/{roundID}/advance", middleware.WithLogging(roundHandler.AdvanceRound))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reelmatch API v1"))
	})

	return mux
}
