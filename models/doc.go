// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePartyRequest: name, display_name, pool_size
  - JoinPartyRequest: invite_code, display_name
  - RecordSwipeRequest: external_id, media_type, decision

# Response Types

Types for JSON responses:

  - CreatePartyResponse: party_id, invite_code, member_token, round
  - JoinPartyResponse: party_id, member_token
  - NextCardResponse: next (candidate or null)
  - RecordSwipeResponse: matches
  - MatchesResponse: matches, round_id, round_num
  - CurrentRoundResponse: round (or null)
  - CompleteRoundResponse: round_complete, session_finished, winner
  - AdvanceRoundResponse: round
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Party: party metadata and current round pointer
  - Member: party membership with role and token
  - Round: one voting pass over a candidate pool
  - Candidate: one votable item within a round
  - Swipe: one member's decision on one candidate
  - MatchedCandidate: candidate liked by every member

# Constants

Decisions:

	DecisionLike = "like"
	DecisionSkip = "skip"

Roles:

	RoleHost   = "host"
	RoleMember = "member"

Media types:

	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
*/
package models
