package models

import "time"

// Swipe decision constants
const (
	DecisionLike = "like"
	DecisionSkip = "skip"
)

// Member role constants
const (
	RoleHost   = "host"
	RoleMember = "member"
)

// Media type constants
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Request types

type CreatePartyRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	PoolSize    int    `json:"pool_size"`
}

type JoinPartyRequest struct {
	InviteCode  string `json:"invite_code"`
	DisplayName string `json:"display_name"`
}

type RecordSwipeRequest struct {
	ExternalID int64  `json:"external_id"`
	MediaType  string `json:"media_type"`
	Decision   string `json:"decision"`
}

// Response types

type CreatePartyResponse struct {
	PartyID     string    `json:"party_id"`
	InviteCode  string    `json:"invite_code"`
	MemberToken string    `json:"member_token"`
	Round       RoundInfo `json:"round"`
}

type JoinPartyResponse struct {
	PartyID     string `json:"party_id"`
	MemberToken string `json:"member_token"`
}

type NextCardResponse struct {
	Next *Candidate `json:"next"`
}

type RecordSwipeResponse struct {
	Matches []MatchedCandidate `json:"matches"`
}

type MatchesResponse struct {
	Matches  []MatchedCandidate `json:"matches"`
	RoundID  string             `json:"round_id"`
	RoundNum int                `json:"round_num"`
}

type CurrentRoundResponse struct {
	Round *RoundInfo `json:"round"`
}

type CompleteRoundResponse struct {
	RoundComplete   bool              `json:"round_complete"`
	SessionFinished bool              `json:"session_finished"`
	Winner          *MatchedCandidate `json:"winner"`
}

type AdvanceRoundResponse struct {
	Round RoundInfo `json:"round"`
}

// Domain types

type Party struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	InviteCode      string    `json:"invite_code"`
	CurrentRoundNum int       `json:"current_round_num"`
	CreatedAt       time.Time `json:"created_at"`
}

type Member struct {
	ID          string    `json:"id"`
	PartyID     string    `json:"party_id"`
	DisplayName string    `json:"display_name"`
	MemberToken string    `json:"-"` // Never expose in JSON
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type Round struct {
	ID        string    `json:"id"`
	PartyID   string    `json:"party_id"`
	RoundNum  int       `json:"round_num"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundInfo is the compact round shape returned to clients
type RoundInfo struct {
	ID       string `json:"id"`
	RoundNum int    `json:"round_num"`
}

type Candidate struct {
	ID         string  `json:"id"`
	PartyID    string  `json:"party_id"`
	RoundID    string  `json:"round_id"`
	ExternalID int64   `json:"external_id"`
	MediaType  string  `json:"media_type"`
	Title      string  `json:"title"`
	PosterPath *string `json:"poster_path"`
	IsMatch    bool    `json:"is_match"`
}

type Swipe struct {
	PartyID     string    `json:"party_id"`
	RoundID     string    `json:"round_id"`
	MemberID    string    `json:"member_id"`
	CandidateID string    `json:"candidate_id"`
	Decision    string    `json:"decision"`
	SwipedAt    time.Time `json:"swiped_at"`
}

// MatchedCandidate is a candidate liked by every member of the party
type MatchedCandidate struct {
	CandidateID string  `json:"candidate_id"`
	ExternalID  int64   `json:"external_id"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	LikeCount   int     `json:"like_count"`
}

type PartyWithMembers struct {
	Party   Party      `json:"party"`
	Members []Member   `json:"members"`
	Round   *RoundInfo `json:"round"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
