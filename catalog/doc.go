// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog supplies candidate items for seeding party rounds.

# Provider

Handlers depend on the Provider interface, not the TMDB client:

	type Provider interface {
		Fetch(ctx context.Context, count int) ([]Seed, error)
	}

Tests substitute a stub Provider; production wires the TMDB client.

# TMDB Client

NewTMDB creates a client for TMDB's discover endpoint:

	provider := catalog.NewTMDB("https://api.themoviedb.org/3", apiKey)
	seeds, err := provider.Fetch(ctx, 10)

Fetch pulls random pages of popular movies (pages 1-50, sorted by
popularity) until it has count distinct items, with a hard cap on page
requests and a 10 second HTTP timeout.

# Failure

Every failure wraps ErrUnavailable:

	if errors.Is(err, catalog.ErrUnavailable) { ... }

Callers must not retry internally; seeding operations fail closed and the
client retries the whole operation.
*/
package catalog
