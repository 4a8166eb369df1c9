// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is restricted to the dialect subset shared by PostgreSQL and SQLite,
so the same schema works with either configured driver.

# Tables

The schema includes:

  - party: Party metadata, invite code, current round pointer
  - party_member: One row per member, with role and member token
  - round: One voting pass over a candidate pool
  - candidate: One item available for voting within a round
  - swipe: One member's decision on one candidate within a round

# Relationships

	party 1──* party_member
	party 1──* round
	round 1──* candidate
	round 1──* swipe (keyed by round, member, candidate)

All foreign keys use ON DELETE CASCADE.

# Invariants

Two invariants live in the schema itself:

  - idx_round_one_active: a partial unique index allowing at most one
    active round per party
  - swipe primary key (round_id, member_id, candidate_id): re-swiping
    upserts, never duplicates

# Indexes

Performance indexes on:

  - party.invite_code (unique)
  - party_member.party_id
  - candidate.round_id
  - swipe.round_id
  - swipe.(round_id, member_id)
*/
package db
