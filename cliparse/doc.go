// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: postgres or sqlite (default: postgres)
  - InviteCodeSalt: Secret for invite code HMAC (required)
  - TMDBAPIKey: Bearer token for the movie catalog (required)
  - TMDBBaseURL: Catalog base URL (default: https://api.themoviedb.org/3)
  - PoolSize: Default candidates per round (default: 10)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--pool-size   Default candidates per round
	--invite-salt Invite code salt
	--tmdb-key    TMDB API bearer token

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	POOL_SIZE        → --pool-size
	INVITE_CODE_SALT → --invite-salt
	TMDB_API_KEY     → --tmdb-key
	TMDB_BASE_URL    (env only)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - INVITE_CODE_SALT must be provided
  - TMDB_API_KEY must be provided
*/
package cliparse
