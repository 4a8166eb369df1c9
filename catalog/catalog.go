// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// ErrUnavailable is returned when the catalog cannot supply candidates.
// Callers treat it as transient and retry later.
var ErrUnavailable = errors.New("catalog unavailable")

// Seed is one candidate item as supplied by the catalog, before it is
// attached to a party round.
type Seed struct {
	ExternalID int64
	MediaType  string
	Title      string
	PosterPath *string
}

// Provider supplies candidate items for seeding a round's pool.
type Provider interface {
	Fetch(ctx context.Context, count int) ([]Seed, error)
}

// TMDB pulls random pages of popular movies from the TMDB discover endpoint.
type TMDB struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTMDB(baseURL, apiKey string) *TMDB {
	return &TMDB{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// maxPageFetches bounds how many discover pages one Fetch will try.
const maxPageFetches = 5

// Fetch returns up to count movie seeds drawn from random popular pages.
// Returns ErrUnavailable (wrapped) if the catalog yields nothing.
func (t *TMDB) Fetch(ctx context.Context, count int) ([]Seed, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: requested %d candidates", ErrUnavailable, count)
	}

	seeds := make([]Seed, 0, count)
	dedupe := make(map[int64]bool)

	for attempt := 0; attempt < maxPageFetches && len(seeds) < count; attempt++ {
		// Any of the first 50 popularity pages is a safe pull
		page := rand.IntN(50) + 1

		results, err := t.fetchPage(ctx, page)
		if err != nil {
			if len(seeds) > 0 {
				break // partial pool is still usable
			}
			return nil, err
		}

		for _, m := range results {
			if dedupe[m.ExternalID] {
				continue
			}
			dedupe[m.ExternalID] = true
			seeds = append(seeds, m)
			if len(seeds) >= count {
				break
			}
		}
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no results from discover", ErrUnavailable)
	}

	return seeds, nil
}

// discoverResponse mirrors the fields we need from TMDB's discover payload
type discoverResponse struct {
	Results []struct {
		ID         int64   `json:"id"`
		Title      string  `json:"title"`
		Name       string  `json:"name"`
		PosterPath *string `json:"poster_path"`
	} `json:"results"`
}

func (t *TMDB) fetchPage(ctx context.Context, page int) ([]Seed, error) {
	url := fmt.Sprintf(
		"%s/discover/movie?include_adult=false&include_video=false&language=en-US&page=%d&sort_by=popularity.desc",
		t.baseURL, page,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: discover returned %d", ErrUnavailable, resp.StatusCode)
	}

	var payload discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	seeds := make([]Seed, 0, len(payload.Results))
	for _, m := range payload.Results {
		title := m.Title
		if title == "" {
			title = m.Name
		}
		if title == "" {
			title = "Untitled"
		}
		seeds = append(seeds, Seed{
			ExternalID: m.ID,
			MediaType:  "movie",
			Title:      title,
			PosterPath: m.PosterPath,
		})
	}

	return seeds, nil
}
