// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/reelmatch/server/catalog"
	"github.com/reelmatch/server/models"
)

// Engine-level failures shared across handlers. Each maps to one HTTP
// status at the request boundary.
var (
	errNoActiveRound = errors.New("no active round for this party")
	errPoolEmpty     = errors.New("candidate pool is empty")
	errRoundNotFound = errors.New("round not found")
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so pool and matching helpers run inside or outside a transaction.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// seedRound creates a new round for the party and inserts one candidate
// row per seed, all unmatched. The caller owns round numbering and must
// have no active round left for the party (the partial unique index
// rejects a second active round anyway).
func seedRound(q querier, partyID string, roundNum int, seeds []catalog.Seed) (models.Round, error) {
	if len(seeds) == 0 {
		return models.Round{}, errPoolEmpty
	}

	round := models.Round{
		ID:        uuid.NewString(),
		PartyID:   partyID,
		RoundNum:  roundNum,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	_, err := q.Exec(`
		INSERT INTO round (id, party_id, round_num, is_active, created_at)
		VALUES ($1, $2, $3, TRUE, $4)
	`, round.ID, partyID, roundNum, round.CreatedAt)
	if err != nil {
		return models.Round{}, err
	}

	for _, seed := range seeds {
		_, err := q.Exec(`
			INSERT INTO candidate (id, party_id, round_id, external_id, media_type, title, poster_path, is_match)
			VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		`, uuid.NewString(), partyID, round.ID, seed.ExternalID, seed.MediaType, seed.Title, seed.PosterPath)
		if err != nil {
			return models.Round{}, err
		}
	}

	return round, nil
}

// activeRound resolves the party's single active round. Always re-reads
// the store; the active flag is never cached in process memory.
func activeRound(q querier, partyID string) (models.Round, error) {
	var round models.Round
	err := q.QueryRow(`
		SELECT id, party_id, round_num, is_active, created_at
		FROM round
		WHERE party_id = $1 AND is_active
	`, partyID).Scan(&round.ID, &round.PartyID, &round.RoundNum, &round.IsActive, &round.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Round{}, errNoActiveRound
	}
	if err != nil {
		return models.Round{}, err
	}

	return round, nil
}

// lockRound takes a row lock on the active round inside the caller's
// transaction. Concurrent swipe writers queue here, so whoever commits
// last computed matches after seeing every earlier like and the match
// flags cannot regress. Returns errNoActiveRound if the round was
// deactivated in the meantime.
func lockRound(q querier, roundID string) error {
	res, err := q.Exec(`
		UPDATE round SET is_active = TRUE WHERE id = $1 AND is_active
	`, roundID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNoActiveRound
	}
	return nil
}

// getRound loads a round by ID within a party.
func getRound(q querier, partyID, roundID string) (models.Round, error) {
	var round models.Round
	err := q.QueryRow(`
		SELECT id, party_id, round_num, is_active, created_at
		FROM round
		WHERE id = $1 AND party_id = $2
	`, roundID, partyID).Scan(&round.ID, &round.PartyID, &round.RoundNum, &round.IsActive, &round.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Round{}, errRoundNotFound
	}
	if err != nil {
		return models.Round{}, err
	}

	return round, nil
}

// deactivateRound clears the active flag only if it is currently set.
// Returns whether this call flipped it; a false return with no error
// means someone else already deactivated, which callers treat as
// converged, not failed.
func deactivateRound(q querier, roundID string) (bool, error) {
	res, err := q.Exec(`
		UPDATE round SET is_active = FALSE WHERE id = $1 AND is_active
	`, roundID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
