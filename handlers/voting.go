// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/pollstore"
)

type VotingHandler struct {
	store  *pollstore.Store
	events events.Publisher
	cfg    cliparse.Config
	now    func() time.Time
}

func NewVotingHandler(store *pollstore.Store, pub events.Publisher, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: store, events: pub, cfg: cfg, now: time.Now}
}

// Vote handles POST /polls/{id}/votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}
	caller, ok := callerFromRequest(w, r, h.cfg.CallerTokenSalt)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_index is required")
		return
	}
	option := *req.OptionIndex

	if err := h.store.Vote(r.Context(), caller, pollID, option); err != nil {
		writeStoreError(w, r, err, "Failed to record vote")
		return
	}

	slog.Info("vote cast", "poll_id", pollID, "voter", caller, "option_index", option)
	publish(r.Context(), h.events, events.VoteCast(pollID, string(caller), option, h.now()))

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		PollID:      pollID,
		OptionIndex: option,
		Message:     "Vote recorded",
	})
}

// HasVoted handles GET /polls/{id}/voters/{address}
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	address, err := auth.NormalizeAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	voted, err := h.store.HasVoted(pollID, address)
	if err != nil {
		writeStoreError(w, r, err, "Failed to check voter")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{
		PollID:   pollID,
		Address:  string(address),
		HasVoted: voted,
	})
}
