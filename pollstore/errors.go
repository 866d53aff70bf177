// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"errors"
	"fmt"
)

// Kind identifies why an operation was rejected.
type Kind string

const (
	KindUnauthorized      Kind = "unauthorized"
	KindNotFound          Kind = "not_found"
	KindInvalidTitle      Kind = "invalid_title"
	KindInvalidOptions    Kind = "invalid_options"
	KindInvalidDuration   Kind = "invalid_duration"
	KindInvalidOption     Kind = "invalid_option"
	KindAlreadyVoted      Kind = "already_voted"
	KindPollExpired       Kind = "poll_expired"
	KindPollClosedByOwner Kind = "poll_closed_by_owner"
	KindAlreadyClosed     Kind = "already_closed"
)

// Error is a rejected operation. Detail is diagnostic only; callers should
// branch on Kind.
type Error struct {
	Kind   Kind
	PollID int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is reports a match against any *Error of the same Kind, so the sentinels
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidTitle      = &Error{Kind: KindInvalidTitle}
	ErrInvalidOptions    = &Error{Kind: KindInvalidOptions}
	ErrInvalidDuration   = &Error{Kind: KindInvalidDuration}
	ErrInvalidOption     = &Error{Kind: KindInvalidOption}
	ErrAlreadyVoted      = &Error{Kind: KindAlreadyVoted}
	ErrPollExpired       = &Error{Kind: KindPollExpired}
	ErrPollClosedByOwner = &Error{Kind: KindPollClosedByOwner}
	ErrAlreadyClosed     = &Error{Kind: KindAlreadyClosed}
)

// KindOf returns the Kind carried by err, or "" when err is not a rejection
// (nil, or an infrastructure failure such as a journal write error).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func reject(kind Kind, pollID int, format string, args ...any) *Error {
	return &Error{Kind: kind, PollID: pollID, Detail: fmt.Sprintf(format, args...)}
}
