// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelmatch/server/catalog"
	"github.com/reelmatch/server/cliparse"
	"github.com/reelmatch/server/middleware"
	"github.com/reelmatch/server/models"
)

type RoundHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog catalog.Provider
}

func NewRoundHandler(db *sql.DB, cfg cliparse.Config, provider catalog.Provider) *RoundHandler {
	return &RoundHandler{db: db, cfg: cfg, catalog: provider}
}

// CurrentRound handles GET /parties/{id}/rounds/current
// Returns the active round, or {"round": null} when the session has
// finished or is between rounds.
func (h *RoundHandler) CurrentRound(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	if partyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	round, err := activeRound(h.db, partyID)
	if errors.Is(err, errNoActiveRound) {
		middleware.JSONResponse(w, http.StatusOK, models.CurrentRoundResponse{Round: nil})
		return
	}
	if err != nil {
		slog.Error("failed to query active round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CurrentRoundResponse{
		Round: &models.RoundInfo{ID: round.ID, RoundNum: round.RoundNum},
	})
}

// CompleteRound handles POST /parties/{id}/rounds/{roundID}/complete
// Evaluates whether every member has swiped every candidate. The verdict
// is derived from the stored rows on every call; concurrent evaluations
// converge because deactivation is an idempotent flag clear.
func (h *RoundHandler) CompleteRound(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	roundID := r.PathValue("roundID")
	if partyID == "" || roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id and round_id are required")
		return
	}

	if _, err := getRound(h.db, partyID, roundID); err != nil {
		if errors.Is(err, errRoundNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Round not found")
			return
		}
		slog.Error("failed to query round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	memberCount, err := countMembers(h.db, partyID)
	if err != nil {
		slog.Error("failed to count members", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidateCount, err := countCandidates(h.db, roundID)
	if err != nil {
		slog.Error("failed to count candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// A one-candidate pool needs no swiping: the survivor is the pick
	if candidateCount == 1 {
		winner, err := h.loneCandidate(partyID, roundID)
		if err != nil {
			slog.Error("failed to load lone candidate", "error", err, "round_id", roundID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if _, err := deactivateRound(h.db, roundID); err != nil {
			slog.Error("failed to deactivate round", "error", err, "round_id", roundID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		slog.Info("session finished", "party_id", partyID, "round_id", roundID, "winner", winner.Title)

		middleware.JSONResponse(w, http.StatusOK, models.CompleteRoundResponse{
			RoundComplete:   true,
			SessionFinished: true,
			Winner:          &winner,
		})
		return
	}

	swipeCount, err := countSwipes(h.db, roundID)
	if err != nil {
		slog.Error("failed to count swipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Exact equality, not >=: the upsert key already caps swipes at one
	// per member per candidate, and a late joiner raises the bar. The
	// verdict is re-derived from the swipe rows on every call, never
	// from the round's active flag: a removed swipe turns an earlier
	// complete verdict back to false. An empty pool never completes.
	roundComplete := memberCount > 0 && candidateCount > 0 &&
		swipeCount == memberCount*candidateCount

	if !roundComplete {
		middleware.JSONResponse(w, http.StatusOK, models.CompleteRoundResponse{
			RoundComplete:   false,
			SessionFinished: false,
		})
		return
	}

	matches, err := ComputeMatches(h.db, partyID, roundID)
	if err != nil {
		slog.Error("failed to compute matches", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute matches")
		return
	}

	if _, err := deactivateRound(h.db, roundID); err != nil {
		slog.Error("failed to deactivate round", "error", err, "round_id", roundID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := models.CompleteRoundResponse{RoundComplete: true}
	if len(matches) == 1 {
		response.SessionFinished = true
		response.Winner = &matches[0]
		slog.Info("session finished", "party_id", partyID, "round_id", roundID, "winner", matches[0].Title)
	} else {
		slog.Info("round complete", "party_id", partyID, "round_id", roundID, "matches", len(matches))
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// AdvanceRound handles POST /parties/{id}/rounds/{roundID}/advance
// Seeds the next round from the completed round's matched candidates,
// falling back to a fresh catalog pull when nothing carried over. The
// party's round counter is the fork guard: only the caller that moves
// it forward gets to seed, everyone else gets a conflict.
func (h *RoundHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	roundID := r.PathValue("roundID")
	if partyID == "" || roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id and round_id are required")
		return
	}

	round, err := getRound(h.db, partyID, roundID)
	if errors.Is(err, errRoundNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Round not found")
		return
	}
	if err != nil {
		slog.Error("failed to query round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	seeds, err := h.carryOver(roundID)
	if err != nil {
		slog.Error("failed to load carry-over candidates", "error", err, "round_id", roundID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// A closed round with a single unanimous match ended the session;
	// there is nothing left to run off
	if !round.IsActive && len(seeds) == 1 {
		middleware.ErrorResponse(w, http.StatusConflict, "Session already finished for this party")
		return
	}

	if len(seeds) == 0 {
		// Nothing survived the round; pull a fresh pool before the
		// transaction so catalog failure leaves the party untouched
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		seeds, err = h.catalog.Fetch(ctx, h.cfg.PoolSize)
		if err != nil {
			slog.Error("catalog fetch failed", "error", err, "party_id", partyID)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Movie catalog is unavailable, try again")
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Compare-and-swap on the party's round counter. Zero rows means a
	// concurrent advance already won; this request loses cleanly.
	res, err := tx.Exec(`
		UPDATE party SET current_round_num = $1
		WHERE id = $2 AND current_round_num = $3
	`, round.RoundNum+1, partyID, round.RoundNum)
	if err != nil {
		slog.Error("failed to advance round counter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		// A concurrent advance won; hand the loser the round it should
		// be on so the client converges without another call
		if cur, lookupErr := activeRound(h.db, partyID); lookupErr == nil {
			middleware.JSONResponse(w, http.StatusConflict, models.AdvanceRoundResponse{
				Round: models.RoundInfo{ID: cur.ID, RoundNum: cur.RoundNum},
			})
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Round already advanced")
		return
	}

	if _, err := deactivateRound(tx, roundID); err != nil {
		slog.Error("failed to deactivate round", "error", err, "round_id", roundID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	next, err := seedRound(tx, partyID, round.RoundNum+1, seeds)
	if err != nil {
		slog.Error("failed to seed next round", "error", err, "party_id", partyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to seed next round")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("round advanced",
		"party_id", partyID,
		"from_round", round.RoundNum,
		"to_round", next.RoundNum,
		"pool_size", len(seeds),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.AdvanceRoundResponse{
		Round: models.RoundInfo{ID: next.ID, RoundNum: next.RoundNum},
	})
}

// carryOver collects the matched candidates of a round as seeds for the
// next one. Match flags do not follow: the shrunken pool starts clean.
func (h *RoundHandler) carryOver(roundID string) ([]catalog.Seed, error) {
	rows, err := h.db.Query(`
		SELECT external_id, media_type, title, poster_path
		FROM candidate
		WHERE round_id = $1 AND is_match
		ORDER BY id
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seeds := []catalog.Seed{}
	for rows.Next() {
		var s catalog.Seed
		if err := rows.Scan(&s.ExternalID, &s.MediaType, &s.Title, &s.PosterPath); err != nil {
			return nil, err
		}
		seeds = append(seeds, s)
	}
	return seeds, rows.Err()
}

// loneCandidate builds the winner for a single-candidate round. If the
// candidate was unanimously liked its live count is reported, otherwise
// it wins by survival with a zero count.
func (h *RoundHandler) loneCandidate(partyID, roundID string) (models.MatchedCandidate, error) {
	matches, err := ComputeMatches(h.db, partyID, roundID)
	if err != nil {
		return models.MatchedCandidate{}, err
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	var winner models.MatchedCandidate
	err = h.db.QueryRow(`
		SELECT id, external_id, media_type, title, poster_path
		FROM candidate
		WHERE round_id = $1
	`, roundID).Scan(&winner.CandidateID, &winner.ExternalID, &winner.MediaType,
		&winner.Title, &winner.PosterPath)
	if err != nil {
		return models.MatchedCandidate{}, err
	}
	return winner, nil
}
