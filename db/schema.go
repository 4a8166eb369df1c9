// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The SQL sticks to the subset understood by both PostgreSQL and SQLite:
// $N placeholders, ON CONFLICT upserts, partial indexes, explicit timestamps.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Parties
CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    current_round_num INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_party_invite_code ON party(invite_code);

-- Members
CREATE TABLE IF NOT EXISTS party_member (
    id TEXT PRIMARY KEY,
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    member_token TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('host', 'member')),
    joined_at TIMESTAMP NOT NULL,
    UNIQUE (party_id, member_token)
);

CREATE INDEX IF NOT EXISTS idx_party_member_party_id ON party_member(party_id);

-- Rounds
CREATE TABLE IF NOT EXISTS round (
    id TEXT PRIMARY KEY,
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    round_num INTEGER NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (party_id, round_num)
);

-- At most one active round per party, enforced by the store itself
CREATE UNIQUE INDEX IF NOT EXISTS idx_round_one_active ON round(party_id) WHERE is_active;

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    round_id TEXT NOT NULL REFERENCES round(id) ON DELETE CASCADE,
    external_id BIGINT NOT NULL,
    media_type TEXT NOT NULL CHECK (media_type IN ('movie', 'tv')),
    title TEXT NOT NULL,
    poster_path TEXT,
    is_match BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (round_id, external_id, media_type)
);

CREATE INDEX IF NOT EXISTS idx_candidate_round_id ON candidate(round_id);

-- Swipes
CREATE TABLE IF NOT EXISTS swipe (
    party_id TEXT NOT NULL REFERENCES party(id) ON DELETE CASCADE,
    round_id TEXT NOT NULL REFERENCES round(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES party_member(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    decision TEXT NOT NULL CHECK (decision IN ('like', 'skip')),
    swiped_at TIMESTAMP NOT NULL,
    PRIMARY KEY (round_id, member_id, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_swipe_round_id ON swipe(round_id);
CREATE INDEX IF NOT EXISTS idx_swipe_round_member ON swipe(round_id, member_id);
`
