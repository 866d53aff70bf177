// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/pollstore"
)

type ResultsHandler struct {
	store *pollstore.Store
}

func NewResultsHandler(store *pollstore.Store) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// GetResults handles GET /polls/{id}/results
// Results are public at every stage; a closed poll just stops changing
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	res, err := h.store.Results(pollID)
	if err != nil {
		writeStoreError(w, r, err, "Failed to load results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		PollID:     pollID,
		Title:      res.Title,
		Options:    res.Options,
		VoteCounts: res.VoteCounts,
		TotalVotes: res.TotalVotes,
	})
}
