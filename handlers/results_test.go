// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/pollstore"
	"github.com/danielhkuo/ballotbox/testutil"
)

func (e *testEnv) getResults(t *testing.T, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("GET", "/polls/"+id+"/results", nil, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	e.results.GetResults(w, req)
	return w
}

func TestGetResults(t *testing.T) {
	env := newTestEnv(t)
	pollID := testutil.CreateTestPoll(t, env.store, 3600, "Pizza", "Sushi", "Tacos")

	testutil.CastTestVote(t, env.store, pollID, testutil.VoterAddress(1), 0)
	testutil.CastTestVote(t, env.store, pollID, testutil.VoterAddress(2), 2)
	testutil.CastTestVote(t, env.store, pollID, testutil.VoterAddress(3), 2)

	w := env.getResults(t, strconv.Itoa(pollID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Title != "Test Poll" {
		t.Errorf("Expected title 'Test Poll', got %q", resp.Title)
	}
	want := []uint64{1, 0, 2}
	if len(resp.VoteCounts) != len(want) {
		t.Fatalf("Expected %d counts, got %v", len(want), resp.VoteCounts)
	}
	for i := range want {
		if resp.VoteCounts[i] != want[i] {
			t.Errorf("VoteCounts[%d] = %d, want %d", i, resp.VoteCounts[i], want[i])
		}
	}
	if resp.TotalVotes != 3 {
		t.Errorf("Expected total_votes 3, got %d", resp.TotalVotes)
	}
	if len(resp.Options) != 3 || resp.Options[0] != "Pizza" {
		t.Errorf("Unexpected options %v", resp.Options)
	}
}

func TestGetResults_NoVotes(t *testing.T) {
	env := newTestEnv(t)
	pollID := testutil.CreateTestPoll(t, env.store, 3600, "Yes", "No")

	w := env.getResults(t, strconv.Itoa(pollID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalVotes != 0 || len(resp.VoteCounts) != 2 || resp.VoteCounts[0] != 0 || resp.VoteCounts[1] != 0 {
		t.Errorf("Expected zeroed tally, got %+v", resp)
	}
}

func TestGetResults_ReadableInEveryState(t *testing.T) {
	tests := []struct {
		name  string
		apply func(t *testing.T, env *testEnv, pollID int)
	}{
		{"open", func(t *testing.T, env *testEnv, pollID int) {}},
		{"expired", func(t *testing.T, env *testEnv, pollID int) {
			env.clock.Advance(2 * time.Hour)
		}},
		{"closed by owner", func(t *testing.T, env *testEnv, pollID int) {
			testutil.AssertStatus(t, env.closePoll(t, testutil.TestAdmin, pollID), http.StatusOK)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			pollID := testutil.CreateTestPoll(t, env.store, 3600)
			testutil.CastTestVote(t, env.store, pollID, testutil.VoterAddress(1), 1)
			tt.apply(t, env, pollID)

			w := env.getResults(t, strconv.Itoa(pollID))
			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.ResultsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.TotalVotes != 1 || resp.VoteCounts[1] != 1 {
				t.Errorf("Expected the recorded vote to survive, got %+v", resp)
			}
		})
	}
}

func TestGetResults_Errors(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestPoll(t, env.store, 3600)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedKind   pollstore.Kind
	}{
		{"unknown poll", "1", http.StatusNotFound, pollstore.KindNotFound},
		{"negative id", "-3", http.StatusNotFound, pollstore.KindNotFound},
		{"non-numeric id", "latest", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.getResults(t, tt.id)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedKind != "" {
				assertKind(t, w, tt.expectedKind)
			}
		})
	}
}
