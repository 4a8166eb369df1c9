// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"github.com/reelmatch/server/models"
)

// likeAgg accumulates the distinct likers of one candidate
type likeAgg struct {
	candidate models.MatchedCandidate
	likers    mapset.Set[string]
}

// ComputeMatches returns the candidates of the round liked by every
// member of the party. It always re-aggregates from the stored swipe
// rows against the live member count; nothing is cached or counted
// incrementally. Results are sorted by candidate ID so concurrent
// callers see the same order.
func ComputeMatches(q querier, partyID, roundID string) ([]models.MatchedCandidate, error) {
	memberCount, err := countMembers(q, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if memberCount == 0 {
		return []models.MatchedCandidate{}, nil
	}

	rows, err := q.Query(`
		SELECT c.id, c.external_id, c.media_type, c.title, c.poster_path, s.member_id
		FROM swipe s
		JOIN candidate c ON s.candidate_id = c.id
		WHERE s.round_id = $1 AND s.decision = $2
	`, roundID, models.DecisionLike)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	aggs := make(map[string]*likeAgg)
	for rows.Next() {
		var cand models.MatchedCandidate
		var memberID string
		if err := rows.Scan(&cand.CandidateID, &cand.ExternalID, &cand.MediaType,
			&cand.Title, &cand.PosterPath, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}

		agg, ok := aggs[cand.CandidateID]
		if !ok {
			agg = &likeAgg{candidate: cand, likers: mapset.NewSet[string]()}
			aggs[cand.CandidateID] = agg
		}
		agg.likers.Add(memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unanimous := lo.Filter(lo.Values(aggs), func(a *likeAgg, _ int) bool {
		return a.likers.Cardinality() == memberCount
	})

	matches := lo.Map(unanimous, func(a *likeAgg, _ int) models.MatchedCandidate {
		m := a.candidate
		m.LikeCount = a.likers.Cardinality()
		return m
	})

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CandidateID < matches[j].CandidateID
	})

	return matches, nil
}

// applyMatchFlags reconciles candidate.is_match with the computed match
// set: flags every matched candidate and clears every candidate that no
// longer qualifies. Run inside the same transaction as the swipe upsert
// so the flag can never drift from the swipe rows.
func applyMatchFlags(q querier, roundID string, matches []models.MatchedCandidate) error {
	if len(matches) == 0 {
		_, err := q.Exec(`
			UPDATE candidate SET is_match = FALSE WHERE round_id = $1 AND is_match
		`, roundID)
		return err
	}

	ids := lo.Map(matches, func(m models.MatchedCandidate, _ int) any {
		return m.CandidateID
	})

	placeholders := make([]string, len(ids))
	for i := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}
	in := strings.Join(placeholders, ", ")
	args := append([]any{roundID}, ids...)

	_, err := q.Exec(`
		UPDATE candidate SET is_match = TRUE
		WHERE round_id = $1 AND id IN (`+in+`)
	`, args...)
	if err != nil {
		return err
	}

	_, err = q.Exec(`
		UPDATE candidate SET is_match = FALSE
		WHERE round_id = $1 AND is_match AND id NOT IN (`+in+`)
	`, args...)
	return err
}

// countMembers returns the live member count for a party. Evaluated
// fresh on every unanimity check, never cached.
func countMembers(q querier, partyID string) (int, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM party_member WHERE party_id = $1
	`, partyID).Scan(&count)
	return count, err
}

// countCandidates returns the pool size of a round.
func countCandidates(q querier, roundID string) (int, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM candidate WHERE round_id = $1
	`, roundID).Scan(&count)
	return count, err
}

// countSwipes returns the number of swipe rows in a round. The per-key
// upsert guarantees this never exceeds members x candidates.
func countSwipes(q querier, roundID string) (int, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM swipe WHERE round_id = $1
	`, roundID).Scan(&count)
	return count, err
}
