// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/pollstore"
)

type PollHandler struct {
	store  *pollstore.Store
	events events.Publisher
	cfg    cliparse.Config
	now    func() time.Time
}

func NewPollHandler(store *pollstore.Store, pub events.Publisher, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: store, events: pub, cfg: cfg, now: time.Now}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.CallerTokenSalt)
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pollID, err := h.store.Create(r.Context(), caller, req.Title, req.Options, req.DurationSeconds)
	if err != nil {
		writeStoreError(w, r, err, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(req.Options), "duration_seconds", req.DurationSeconds)
	publish(r.Context(), h.events, events.PollCreated(pollID, h.now()))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: pollID,
	})
}

// ClosePoll handles POST /polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}
	caller, ok := callerFromRequest(w, r, h.cfg.CallerTokenSalt)
	if !ok {
		return
	}

	if err := h.store.Close(r.Context(), caller, pollID); err != nil {
		writeStoreError(w, r, err, "Failed to close poll")
		return
	}

	slog.Info("poll closed", "poll_id", pollID)
	publish(r.Context(), h.events, events.PollClosed(pollID, h.now()))

	middleware.JSONResponse(w, http.StatusOK, models.ClosePollResponse{
		PollID:  pollID,
		Message: "Poll closed",
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	info, err := h.store.PollInfo(pollID)
	if err != nil {
		writeStoreError(w, r, err, "Failed to load poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pollInfoResponse(info, h.now()))
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	infos := h.store.ListPolls()
	now := h.now()

	polls := make([]models.PollInfoResponse, 0, len(infos))
	for _, info := range infos {
		polls = append(polls, pollInfoResponse(info, now))
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{
		Admin:      string(h.store.Admin()),
		TotalPolls: len(polls),
		Polls:      polls,
	})
}

// GetOptions handles GET /polls/{id}/options
func (h *PollHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDFromPath(w, r)
	if !ok {
		return
	}

	options, err := h.store.Options(pollID)
	if err != nil {
		writeStoreError(w, r, err, "Failed to load options")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OptionsResponse{
		PollID:  pollID,
		Options: options,
	})
}

// pollInfoResponse adds the wall-clock view of openness to the stored state
func pollInfoResponse(info pollstore.Info, now time.Time) models.PollInfoResponse {
	open := info.IsOpen(now)

	var endsIn string
	switch {
	case !info.IsActive:
		endsIn = "closed"
	case open:
		endsIn = "ends " + humanize.RelTime(info.EndTime, now, "ago", "from now")
	default:
		endsIn = "ended " + humanize.RelTime(info.EndTime, now, "ago", "from now")
	}

	return models.PollInfoResponse{
		ID:         info.ID,
		Title:      info.Title,
		Options:    info.Options,
		CreatedAt:  info.CreatedAt,
		EndTime:    info.EndTime,
		IsActive:   info.IsActive,
		IsOpen:     open,
		VoterCount: info.VoterCount,
		EndsIn:     endsIn,
	}
}
