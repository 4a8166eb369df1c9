// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ReelMatch API server.

ReelMatch is a group movie-night service: members of a party swipe
like/skip over a shared pool of movies, round by round, until exactly one
movie survives as the unanimous pick.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... TMDB_API_KEY=... go run main.go

Or with flags:

	go run main.go -p 3318 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL or SQLite connection string
  - INVITE_CODE_SALT (--invite-salt): Secret for invite code HMAC
  - TMDB_API_KEY: Bearer token for the movie catalog

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - TMDB_BASE_URL: Catalog base URL (default: https://api.themoviedb.org/3)
  - POOL_SIZE: Default candidates per round (default: 10)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (party, swipes, rounds, matching)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types
  - auth: Token and invite code generation
  - catalog: TMDB candidate provider
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
