// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/reelmatch/server/cliparse"
	"github.com/reelmatch/server/middleware"
	"github.com/reelmatch/server/models"
)

type SwipeHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSwipeHandler(db *sql.DB, cfg cliparse.Config) *SwipeHandler {
	return &SwipeHandler{db: db, cfg: cfg}
}

// NextCard handles GET /parties/{id}/next-card
// Returns one random candidate the member has not yet swiped in the
// active round, or null once the member has exhausted the pool. Random
// selection keeps members from seeing the pool in identical order.
func (h *SwipeHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	if partyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	member, err := resolveMember(h.db, partyID, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid X-Member-Token header required")
		return
	}

	round, err := activeRound(h.db, partyID)
	if errors.Is(err, errNoActiveRound) {
		middleware.ErrorResponse(w, http.StatusConflict, "No active round for this party")
		return
	}
	if err != nil {
		slog.Error("failed to query active round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, party_id, round_id, external_id, media_type, title, poster_path, is_match
		FROM candidate
		WHERE round_id = $1
		  AND id NOT IN (
			SELECT candidate_id FROM swipe WHERE round_id = $1 AND member_id = $2
		  )
	`, round.ID, member.ID)
	if err != nil {
		slog.Error("failed to query unswiped candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	unseen := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.PartyID, &c.RoundID, &c.ExternalID,
			&c.MediaType, &c.Title, &c.PosterPath, &c.IsMatch); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		unseen = append(unseen, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var next *models.Candidate
	if len(unseen) > 0 {
		next = &unseen[rand.IntN(len(unseen))]
	}

	middleware.JSONResponse(w, http.StatusOK, models.NextCardResponse{Next: next})
}

// RecordSwipe handles POST /parties/{id}/swipes
// Upserts the member's decision on a candidate in the active round,
// then recomputes unanimity for the whole round in the same transaction.
// Safe to call concurrently and to retry: the upsert key makes a
// re-submit replace rather than duplicate, and matches are always
// re-derived from the stored swipes.
func (h *SwipeHandler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	if partyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	var req models.RecordSwipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ExternalID == 0 || req.MediaType == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "external_id and media_type are required")
		return
	}
	if req.Decision != models.DecisionLike && req.Decision != models.DecisionSkip {
		middleware.ErrorResponse(w, http.StatusBadRequest, "decision must be like or skip")
		return
	}

	member, err := resolveMember(h.db, partyID, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid X-Member-Token header required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	round, err := activeRound(tx, partyID)
	if errors.Is(err, errNoActiveRound) {
		middleware.ErrorResponse(w, http.StatusConflict, "No active round for this party")
		return
	}
	if err != nil {
		slog.Error("failed to query active round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Serialize concurrent swipe writers on the round row so the match
	// recomputation below always sees every committed like
	if err := lockRound(tx, round.ID); errors.Is(err, errNoActiveRound) {
		middleware.ErrorResponse(w, http.StatusConflict, "No active round for this party")
		return
	} else if err != nil {
		slog.Error("failed to lock round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var candidateID string
	err = tx.QueryRow(`
		SELECT id FROM candidate
		WHERE round_id = $1 AND external_id = $2 AND media_type = $3
	`, round.ID, req.ExternalID, req.MediaType).Scan(&candidateID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate is not in the active round")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Last write wins; a retried or changed swipe replaces the old row
	_, err = tx.Exec(`
		INSERT INTO swipe (party_id, round_id, member_id, candidate_id, decision, swiped_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (round_id, member_id, candidate_id)
		DO UPDATE SET decision = excluded.decision, swiped_at = excluded.swiped_at
	`, partyID, round.ID, member.ID, candidateID, req.Decision, time.Now())
	if err != nil {
		slog.Error("failed to upsert swipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record swipe")
		return
	}

	matches, err := ComputeMatches(tx, partyID, round.ID)
	if err != nil {
		slog.Error("failed to compute matches", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute matches")
		return
	}

	// Flags follow the recomputed set both ways: a like changed to a
	// skip un-matches the candidate
	if err := applyMatchFlags(tx, round.ID, matches); err != nil {
		slog.Error("failed to apply match flags", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record swipe")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record swipe")
		return
	}

	slog.Info("swipe recorded",
		"party_id", partyID,
		"round_id", round.ID,
		"member_id", member.ID,
		"decision", req.Decision,
		"matches", len(matches),
	)

	middleware.JSONResponse(w, http.StatusOK, models.RecordSwipeResponse{Matches: matches})
}

// GetMatches handles GET /parties/{id}/matches
// Returns the current unanimous candidates of the active round.
func (h *SwipeHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	if partyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	round, err := activeRound(h.db, partyID)
	if errors.Is(err, errNoActiveRound) {
		middleware.ErrorResponse(w, http.StatusConflict, "No active round for this party")
		return
	}
	if err != nil {
		slog.Error("failed to query active round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	matches, err := ComputeMatches(h.db, partyID, round.ID)
	if err != nil {
		slog.Error("failed to compute matches", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute matches")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MatchesResponse{
		Matches:  matches,
		RoundID:  round.ID,
		RoundNum: round.RoundNum,
	})
}
