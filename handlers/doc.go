// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP endpoints for parties, swipes,
// and rounds.
//
// Three handler types split the API by concern:
//
//   - PartyHandler: party creation with the seeded first round, joining
//     by invite code, and the party detail view.
//   - SwipeHandler: dealing the next unswiped card, recording like/skip
//     decisions, and reporting unanimous matches.
//   - RoundHandler: the round lifecycle; completion evaluation and
//     advancement into a carry-over or freshly pulled pool.
//
// Handlers own their SQL. Shared queries that must run inside or
// outside a transaction (round lookup, seeding, match aggregation) take
// a querier, the interface satisfied by both *sql.DB and *sql.Tx.
//
// Correctness under concurrent and retried requests rests on three
// store-level mechanisms rather than in-process locks:
//
//   - swipes upsert on (round_id, member_id, candidate_id), so a retry
//     or changed mind replaces rather than duplicates;
//   - match flags are recomputed from the swipe rows in the same
//     transaction as every swipe write;
//   - round advancement compare-and-swaps the party's round counter, so
//     exactly one of two racing advances creates the next round.
package handlers
