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

	"github.com/google/uuid"

	"github.com/reelmatch/server/auth"
	"github.com/reelmatch/server/catalog"
	"github.com/reelmatch/server/cliparse"
	"github.com/reelmatch/server/middleware"
	"github.com/reelmatch/server/models"
)

// maxPoolSize caps how many candidates one round may hold.
const maxPoolSize = 50

type PartyHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog catalog.Provider
}

func NewPartyHandler(db *sql.DB, cfg cliparse.Config, provider catalog.Provider) *PartyHandler {
	return &PartyHandler{db: db, cfg: cfg, catalog: provider}
}

// CreateParty handles POST /parties
// Creates the party, its host member, and round 1 seeded from the catalog.
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if req.Name == "" {
		req.Name = "Movie Night"
	}
	if req.PoolSize == 0 {
		req.PoolSize = h.cfg.PoolSize
	}
	if req.PoolSize < 1 || req.PoolSize > maxPoolSize {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pool_size must be between 1 and 50")
		return
	}

	// Pull the pool before touching the database so catalog failure
	// leaves nothing behind
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	seeds, err := h.catalog.Fetch(ctx, req.PoolSize)
	if err != nil {
		slog.Error("catalog fetch failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Movie catalog is unavailable, try again")
		return
	}

	partyID := uuid.NewString()
	inviteCode := auth.GenerateInviteCode(partyID, h.cfg.InviteCodeSalt)

	memberToken, err := auth.GenerateMemberToken()
	if err != nil {
		slog.Error("failed to generate member token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO party (id, name, invite_code, current_round_num, created_at)
		VALUES ($1, $2, $3, 1, $4)
	`, partyID, req.Name, inviteCode, time.Now())
	if err != nil {
		slog.Error("failed to insert party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO party_member (id, party_id, display_name, member_token, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), partyID, req.DisplayName, memberToken, models.RoleHost, time.Now())
	if err != nil {
		slog.Error("failed to insert host member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	round, err := seedRound(tx, partyID, 1, seeds)
	if err != nil {
		slog.Error("failed to seed first round", "error", err, "party_id", partyID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to seed candidate pool")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	slog.Info("party created", "party_id", partyID, "pool_size", len(seeds))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePartyResponse{
		PartyID:     partyID,
		InviteCode:  inviteCode,
		MemberToken: memberToken,
		Round:       models.RoundInfo{ID: round.ID, RoundNum: round.RoundNum},
	})
}

// JoinParty handles POST /parties/join
// Looks up the party by invite code and creates a member with a fresh token.
func (h *PartyHandler) JoinParty(w http.ResponseWriter, r *http.Request) {
	var req models.JoinPartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.InviteCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite_code is required")
		return
	}
	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}

	var partyID string
	err := h.db.QueryRow(`
		SELECT id FROM party WHERE invite_code = $1
	`, req.InviteCode).Scan(&partyID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invalid invite code")
		return
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	memberToken, err := auth.GenerateMemberToken()
	if err != nil {
		slog.Error("failed to generate member token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join party")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO party_member (id, party_id, display_name, member_token, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), partyID, req.DisplayName, memberToken, models.RoleMember, time.Now())
	if err != nil {
		slog.Error("failed to insert member", "error", err, "party_id", partyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join party")
		return
	}

	slog.Info("member joined", "party_id", partyID, "display_name", req.DisplayName)

	middleware.JSONResponse(w, http.StatusOK, models.JoinPartyResponse{
		PartyID:     partyID,
		MemberToken: memberToken,
	})
}

// GetParty handles GET /parties/{id}
// Returns party details, members, and the active round if any.
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	partyID := r.PathValue("id")
	if partyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party_id is required")
		return
	}

	var party models.Party
	err := h.db.QueryRow(`
		SELECT id, name, invite_code, current_round_num, created_at
		FROM party
		WHERE id = $1
	`, partyID).Scan(&party.ID, &party.Name, &party.InviteCode, &party.CurrentRoundNum, &party.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, party_id, display_name, role, joined_at
		FROM party_member
		WHERE party_id = $1
		ORDER BY joined_at
	`, partyID)
	if err != nil {
		slog.Error("failed to query members", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.PartyID, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
			slog.Error("failed to scan member", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		members = append(members, m)
	}

	response := models.PartyWithMembers{
		Party:   party,
		Members: members,
	}

	round, err := activeRound(h.db, partyID)
	if err == nil {
		response.Round = &models.RoundInfo{ID: round.ID, RoundNum: round.RoundNum}
	} else if !errors.Is(err, errNoActiveRound) {
		slog.Error("failed to query active round", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// resolveMember maps the X-Member-Token header to the member it was
// issued to within the party. This is the identity seam: everything
// downstream works with the stable member ID.
func resolveMember(q querier, partyID string, r *http.Request) (models.Member, error) {
	token := r.Header.Get("X-Member-Token")
	if token == "" {
		return models.Member{}, auth.ErrInvalidToken
	}

	var m models.Member
	err := q.QueryRow(`
		SELECT id, party_id, display_name, member_token, role, joined_at
		FROM party_member
		WHERE party_id = $1 AND member_token = $2
	`, partyID, token).Scan(&m.ID, &m.PartyID, &m.DisplayName, &m.MemberToken, &m.Role, &m.JoinedAt)

	if err == sql.ErrNoRows {
		return models.Member{}, auth.ErrInvalidToken
	}
	if err != nil {
		return models.Member{}, err
	}

	return m, nil
}
