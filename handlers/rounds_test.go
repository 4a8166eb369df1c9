// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/lib/pq"

	"github.com/reelmatch/server/models"
	"github.com/reelmatch/server/testutil"
)

func TestCurrentRound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)

	current := func() models.CurrentRoundResponse {
		req := testutil.MakeRequest("GET", "/parties/"+partyID+"/rounds/current", nil, nil)
		req.SetPathValue("id", partyID)
		w := httptest.NewRecorder()
		handler.CurrentRound(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CurrentRoundResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// No round yet
	if resp := current(); resp.Round != nil {
		t.Errorf("Expected null round, got %+v", resp.Round)
	}

	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	resp := current()
	if resp.Round == nil || resp.Round.ID != roundID {
		t.Errorf("Expected round %q, got %+v", roundID, resp.Round)
	}

	// Deactivated round reads as null again
	if _, err := deactivateRound(db, roundID); err != nil {
		t.Fatalf("Failed to deactivate: %v", err)
	}
	if resp := current(); resp.Round != nil {
		t.Errorf("Expected null round after deactivation, got %+v", resp.Round)
	}
}

func TestCompleteRoundExactEquality(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	// 3 members, 3 candidates: complete only at 9 swipes
	partyID, _, hostToken := testutil.CreateTestParty(t, db, cfg)
	hostID := testutil.MemberID(t, db, partyID, hostToken)
	bobID, _ := testutil.AddTestMember(t, db, partyID, "Bob")
	carolID, _ := testutil.AddTestMember(t, db, partyID, "Carol")
	members := []string{hostID, bobID, carolID}

	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	cands := []string{
		testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat"),
		testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien"),
		testutil.AddTestCandidate(t, db, partyID, roundID, 300, "Jaws"),
	}

	complete := func() models.CompleteRoundResponse {
		req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
		req.SetPathValue("id", partyID)
		req.SetPathValue("roundID", roundID)
		w := httptest.NewRecorder()
		handler.CompleteRound(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CompleteRoundResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// 8 of 9 swipes: not complete
	for _, m := range members {
		for _, c := range cands {
			if m == carolID && c == cands[2] {
				continue
			}
			testutil.AddTestSwipe(t, db, partyID, roundID, m, c, "skip")
		}
	}
	if resp := complete(); resp.RoundComplete {
		t.Error("Round should not be complete at 8 of 9 swipes")
	}

	// Losing a swipe while gaining another keeps the count at 8:
	// completion is exact equality, not a high-water mark
	testutil.AddTestSwipe(t, db, partyID, roundID, carolID, cands[2], "skip")
	if _, err := db.Exec(`
		DELETE FROM swipe WHERE round_id = $1 AND member_id = $2 AND candidate_id = $3
	`, roundID, hostID, cands[0]); err != nil {
		t.Fatalf("Failed to delete swipe: %v", err)
	}
	if resp := complete(); resp.RoundComplete {
		t.Error("Round should not be complete after a swipe was removed")
	}

	// Restoring the ninth swipe completes it
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, cands[0], "skip")
	resp := complete()
	if !resp.RoundComplete {
		t.Error("Round should be complete at 9 of 9 swipes")
	}
	if resp.SessionFinished {
		t.Error("All-skip round should not finish the session")
	}
	if resp.Winner != nil {
		t.Errorf("Expected no winner, got %+v", resp.Winner)
	}
}

func TestCompleteRoundReevaluatesAfterSwipeRemoved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, hostToken := testutil.CreateTestParty(t, db, cfg)
	hostID := testutil.MemberID(t, db, partyID, hostToken)
	bobID, _ := testutil.AddTestMember(t, db, partyID, "Bob")

	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")
	candB := testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien")

	for _, m := range []string{hostID, bobID} {
		for _, c := range []string{candA, candB} {
			testutil.AddTestSwipe(t, db, partyID, roundID, m, c, "skip")
		}
	}

	complete := func() models.CompleteRoundResponse {
		req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
		req.SetPathValue("id", partyID)
		req.SetPathValue("roundID", roundID)
		w := httptest.NewRecorder()
		handler.CompleteRound(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CompleteRoundResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// Full grid: complete, and the evaluation closes the round
	if resp := complete(); !resp.RoundComplete {
		t.Fatal("Round should be complete with the full swipe grid")
	}
	var active bool
	if err := db.QueryRow(`SELECT is_active FROM round WHERE id = $1`, roundID).Scan(&active); err != nil {
		t.Fatalf("Failed to read round: %v", err)
	}
	if active {
		t.Fatal("Round should be deactivated after completion")
	}

	// A swipe disappears after the round closed. Re-evaluation derives
	// the verdict from the swipe rows, not from the closed flag.
	if _, err := db.Exec(`
		DELETE FROM swipe WHERE round_id = $1 AND member_id = $2 AND candidate_id = $3
	`, roundID, hostID, candA); err != nil {
		t.Fatalf("Failed to delete swipe: %v", err)
	}
	if resp := complete(); resp.RoundComplete {
		t.Error("Re-evaluation after a removed swipe should report incomplete")
	}

	// Restoring the swipe restores the verdict
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candA, "skip")
	if resp := complete(); !resp.RoundComplete {
		t.Error("Re-evaluation after restoring the swipe should report complete")
	}
}

func TestCompleteRoundEmptyPoolNeverCompletes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)

	// One member, zero candidates: 0 == 1*0 must not count as complete
	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CompleteRoundResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.RoundComplete {
		t.Error("Empty candidate pool should never report complete")
	}

	var active bool
	if err := db.QueryRow(`SELECT is_active FROM round WHERE id = $1`, roundID).Scan(&active); err != nil {
		t.Fatalf("Failed to read round: %v", err)
	}
	if !active {
		t.Error("Empty round should stay active")
	}
}

func TestCompleteRoundLateJoinerReopens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, hostToken := testutil.CreateTestParty(t, db, cfg)
	hostID := testutil.MemberID(t, db, partyID, hostToken)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")
	candB := testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien")

	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candA, "skip")
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candB, "skip")

	// Everyone has swiped everything; then Bob joins before the check
	testutil.AddTestMember(t, db, partyID, "Bob")

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CompleteRoundResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.RoundComplete {
		t.Error("Round should not be complete after a member joined mid-round")
	}
}

func TestCompleteRoundSingleMatchFinishesSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, hostToken := testutil.CreateTestParty(t, db, cfg)
	hostID := testutil.MemberID(t, db, partyID, hostToken)
	bobID, _ := testutil.AddTestMember(t, db, partyID, "Bob")

	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")
	candB := testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien")

	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candA, "like")
	testutil.AddTestSwipe(t, db, partyID, roundID, bobID, candA, "like")
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candB, "skip")
	testutil.AddTestSwipe(t, db, partyID, roundID, bobID, candB, "like")

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CompleteRoundResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.RoundComplete || !resp.SessionFinished {
		t.Fatalf("Expected finished session, got %+v", resp)
	}
	if resp.Winner == nil || resp.Winner.CandidateID != candA {
		t.Errorf("Expected winner %q, got %+v", candA, resp.Winner)
	}

	// Session over: the round must no longer be active
	var active bool
	if err := db.QueryRow(`SELECT is_active FROM round WHERE id = $1`, roundID).Scan(&active); err != nil {
		t.Fatalf("Failed to read round: %v", err)
	}
	if active {
		t.Error("Expected round deactivated after session finished")
	}
}

func TestCompleteRoundSingleCandidateShortcut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	testutil.AddTestMember(t, db, partyID, "Bob")

	roundID := testutil.CreateTestRound(t, db, partyID, 2, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")

	// No swipes at all: the lone candidate wins by survival
	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CompleteRoundResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.RoundComplete || !resp.SessionFinished {
		t.Fatalf("Expected immediate finish for single-candidate round, got %+v", resp)
	}
	if resp.Winner == nil || resp.Winner.CandidateID != candA {
		t.Errorf("Expected winner %q, got %+v", candA, resp.Winner)
	}
	if resp.Winner.LikeCount != 0 {
		t.Errorf("Survivor without likes should report like_count 0, got %d", resp.Winner.LikeCount)
	}
}

func TestCompleteRoundNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/missing/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", "missing")
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAdvanceRoundCarryOver(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")
	candB := testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien")
	testutil.AddTestCandidate(t, db, partyID, roundID, 300, "Jaws")

	// Two of three matched in round 1
	for _, id := range []string{candA, candB} {
		if _, err := db.Exec(`UPDATE candidate SET is_match = TRUE WHERE id = $1`, id); err != nil {
			t.Fatalf("Failed to flag candidate: %v", err)
		}
	}

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/advance", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.AdvanceRound(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AdvanceRoundResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Round.RoundNum != 2 {
		t.Errorf("Expected round_num 2, got %d", resp.Round.RoundNum)
	}

	// Round 2 holds exactly the carried-over titles, flags reset
	rows, err := db.Query(`
		SELECT external_id, is_match FROM candidate WHERE round_id = $1 ORDER BY external_id
	`, resp.Round.ID)
	if err != nil {
		t.Fatalf("Failed to query round 2 candidates: %v", err)
	}
	defer rows.Close()

	var externalIDs []int64
	for rows.Next() {
		var id int64
		var flag bool
		if err := rows.Scan(&id, &flag); err != nil {
			t.Fatalf("Failed to scan: %v", err)
		}
		if flag {
			t.Errorf("Carried-over candidate %d should start unmatched", id)
		}
		externalIDs = append(externalIDs, id)
	}
	if len(externalIDs) != 2 || externalIDs[0] != 100 || externalIDs[1] != 200 {
		t.Errorf("Expected carried-over pool [100 200], got %v", externalIDs)
	}

	// Old round deactivated, party counter moved
	var active bool
	if err := db.QueryRow(`SELECT is_active FROM round WHERE id = $1`, roundID).Scan(&active); err != nil {
		t.Fatalf("Failed to read round 1: %v", err)
	}
	if active {
		t.Error("Round 1 should be inactive after advance")
	}

	var currentNum int
	if err := db.QueryRow(`SELECT current_round_num FROM party WHERE id = $1`, partyID).Scan(&currentNum); err != nil {
		t.Fatalf("Failed to read party: %v", err)
	}
	if currentNum != 2 {
		t.Errorf("Expected current_round_num 2, got %d", currentNum)
	}
}

func TestAdvanceRoundFreshPoolFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	stub := &testutil.StubCatalog{Seeds: testutil.MovieSeeds(10)}
	handler := NewRoundHandler(db, cfg, stub)

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")

	// Nothing matched: next round pulls cfg.PoolSize fresh seeds
	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/advance", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.AdvanceRound(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AdvanceRoundResponse
	testutil.AssertJSON(t, w, &resp)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM candidate WHERE round_id = $1`, resp.Round.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}
	if count != cfg.PoolSize {
		t.Errorf("Expected %d fresh candidates, got %d", cfg.PoolSize, count)
	}
}

func TestAdvanceRoundCatalogDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	stub := &testutil.StubCatalog{Err: errors.New("upstream down")}
	handler := NewRoundHandler(db, cfg, stub)

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/advance", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.AdvanceRound(w, req)

	testutil.AssertStatus(t, w, http.StatusBadGateway)

	// Failed advance leaves the party on round 1
	var currentNum int
	if err := db.QueryRow(`SELECT current_round_num FROM party WHERE id = $1`, partyID).Scan(&currentNum); err != nil {
		t.Fatalf("Failed to read party: %v", err)
	}
	if currentNum != 1 {
		t.Errorf("Expected current_round_num 1 after failed advance, got %d", currentNum)
	}
}

func TestAdvanceRoundAlreadyAdvanced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)
	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")

	advance := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/advance", nil, nil)
		req.SetPathValue("id", partyID)
		req.SetPathValue("roundID", roundID)
		w := httptest.NewRecorder()
		handler.AdvanceRound(w, req)
		return w
	}

	testutil.AssertStatus(t, advance(), http.StatusCreated)

	// Second advance from the same round loses the counter race
	testutil.AssertStatus(t, advance(), http.StatusConflict)

	// Still exactly one round 2
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM round WHERE party_id = $1 AND round_num = 2`, partyID).Scan(&count); err != nil {
		t.Fatalf("Failed to count rounds: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one round 2, got %d", count)
	}
}

func TestAdvanceRoundAfterSessionFinished(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, hostToken := testutil.CreateTestParty(t, db, cfg)
	hostID := testutil.MemberID(t, db, partyID, hostToken)
	bobID, _ := testutil.AddTestMember(t, db, partyID, "Bob")

	roundID := testutil.CreateTestRound(t, db, partyID, 1, true)
	candA := testutil.AddTestCandidate(t, db, partyID, roundID, 100, "Heat")
	candB := testutil.AddTestCandidate(t, db, partyID, roundID, 200, "Alien")

	// Unanimous on A only: completing finishes the session
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candA, "like")
	testutil.AddTestSwipe(t, db, partyID, roundID, bobID, candA, "like")
	testutil.AddTestSwipe(t, db, partyID, roundID, hostID, candB, "skip")
	testutil.AddTestSwipe(t, db, partyID, roundID, bobID, candB, "like")

	if _, err := db.Exec(`UPDATE candidate SET is_match = TRUE WHERE id = $1`, candA); err != nil {
		t.Fatalf("Failed to flag candidate: %v", err)
	}

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/complete", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w := httptest.NewRecorder()
	handler.CompleteRound(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var done models.CompleteRoundResponse
	testutil.AssertJSON(t, w, &done)
	if !done.SessionFinished {
		t.Fatalf("Expected finished session, got %+v", done)
	}

	// Advancing the finished round must be refused, not seed a
	// one-candidate runoff
	req = testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/"+roundID+"/advance", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", roundID)
	w = httptest.NewRecorder()
	handler.AdvanceRound(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM round WHERE party_id = $1 AND round_num = 2`, partyID).Scan(&count); err != nil {
		t.Fatalf("Failed to count rounds: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no round 2 after a finished session, got %d", count)
	}

	var currentNum int
	if err := db.QueryRow(`SELECT current_round_num FROM party WHERE id = $1`, partyID).Scan(&currentNum); err != nil {
		t.Fatalf("Failed to read party: %v", err)
	}
	if currentNum != 1 {
		t.Errorf("Expected current_round_num 1, got %d", currentNum)
	}
}

func TestAdvanceRoundNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoundHandler(db, cfg, &testutil.StubCatalog{Seeds: testutil.MovieSeeds(5)})

	partyID, _, _ := testutil.CreateTestParty(t, db, cfg)

	req := testutil.MakeRequest("POST", "/parties/"+partyID+"/rounds/missing/advance", nil, nil)
	req.SetPathValue("id", partyID)
	req.SetPathValue("roundID", "missing")
	w := httptest.NewRecorder()
	handler.AdvanceRound(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
