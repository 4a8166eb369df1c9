// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ReelMatch API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, provider)

# Endpoints

Health:

	GET /health

Party management:

	POST /parties      - Create party with seeded first round
	POST /parties/join - Join by invite code
	GET  /parties/{id} - Party details, members, active round

Swiping (requires X-Member-Token):

	GET  /parties/{id}/next-card - Next unswiped candidate
	POST /parties/{id}/swipes    - Record like/skip decision
	GET  /parties/{id}/matches   - Current unanimous matches

Round lifecycle:

	GET  /parties/{id}/rounds/current           - Active round or null
	POST /parties/{id}/rounds/{roundID}/complete - Evaluate completion
	POST /parties/{id}/rounds/{roundID}/advance  - Seed the next round

# Handler Initialization

The router creates handler instances with dependency injection:

	partyHandler := handlers.NewPartyHandler(db, cfg, provider)
	swipeHandler := handlers.NewSwipeHandler(db, cfg)
	roundHandler := handlers.NewRoundHandler(db, cfg, provider)

Party creation is rate limited because it pulls from the external
catalog before writing anything.
*/
package router
