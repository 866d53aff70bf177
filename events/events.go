// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Event types
const (
	TypePollCreated = "poll_created"
	TypeVoteCast    = "vote_cast"
	TypePollClosed  = "poll_closed"
)

// Event describes one accepted mutation of the poll store.
type Event struct {
	Type        string    `json:"type"`
	PollID      int       `json:"poll_id"`
	Voter       string    `json:"voter,omitempty"`
	OptionIndex *int      `json:"option_index,omitempty"`
	At          time.Time `json:"at"`
}

func PollCreated(pollID int, at time.Time) Event {
	return Event{Type: TypePollCreated, PollID: pollID, At: at}
}

func VoteCast(pollID int, voter string, option int, at time.Time) Event {
	return Event{Type: TypeVoteCast, PollID: pollID, Voter: voter, OptionIndex: &option, At: at}
}

func PollClosed(pollID int, at time.Time) Event {
	return Event{Type: TypePollClosed, PollID: pollID, At: at}
}

// Encode returns the JSON wire form.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher fans events out to subscribers. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
