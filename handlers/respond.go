// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/pollstore"
)

// statusByKind maps store rejections to HTTP status codes
var statusByKind = map[pollstore.Kind]int{
	pollstore.KindUnauthorized:      http.StatusForbidden,
	pollstore.KindNotFound:          http.StatusNotFound,
	pollstore.KindInvalidTitle:      http.StatusBadRequest,
	pollstore.KindInvalidOptions:    http.StatusBadRequest,
	pollstore.KindInvalidDuration:   http.StatusBadRequest,
	pollstore.KindInvalidOption:     http.StatusBadRequest,
	pollstore.KindAlreadyVoted:      http.StatusConflict,
	pollstore.KindPollExpired:       http.StatusConflict,
	pollstore.KindPollClosedByOwner: http.StatusConflict,
	pollstore.KindAlreadyClosed:     http.StatusConflict,
}

// StatusForKind returns the HTTP status for a rejection kind, 500 for
// anything that is not a rejection
func StatusForKind(kind pollstore.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeStoreError writes a store error. Rejections carry their kind;
// infrastructure failures are logged and hidden behind a generic message.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	kind := pollstore.KindOf(err)
	if kind == "" {
		slog.Error(msg, "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, msg)
		return
	}
	middleware.KindErrorResponse(w, StatusForKind(kind), string(kind), err.Error())
}

// pollIDFromPath parses the {id} path segment. Writes 400 and returns false
// if it is not an integer.
func pollIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id must be an integer")
		return 0, false
	}
	return id, true
}

// callerFromRequest authenticates the caller. Writes 401 and returns false
// on failure.
func callerFromRequest(w http.ResponseWriter, r *http.Request, salt string) (pollstore.Address, bool) {
	caller, err := auth.CallerFromRequest(r, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return caller, true
}

// publish hands an event to the configured sinks. Non-fatal: the mutation
// already happened.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish poll event",
			"type", e.Type,
			"poll_id", e.PollID,
			"error", err,
		)
	}
}
