// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"context"
	"fmt"
	"time"
)

// Journal persists every accepted mutation. Each Record* call happens while
// the store holds the lock for the affected poll and before the in-memory
// state changes; an error aborts the operation with no side effect.
type Journal interface {
	RecordCreate(ctx context.Context, rec Record) error
	RecordVote(ctx context.Context, pollID int, voter Address, option int, at time.Time) error
	RecordClose(ctx context.Context, pollID int, at time.Time) error
	// Load returns every poll ordered by id.
	Load(ctx context.Context) ([]Record, error)
}

// Record is the durable form of one poll.
type Record struct {
	ID          int
	Title       string
	Options     []string
	CreatedAt   time.Time
	EndTime     time.Time
	OwnerClosed bool
	Votes       []Ballot
}

// Ballot is one recorded vote.
type Ballot struct {
	Voter  Address
	Option int
}

// replay rebuilds a poll from its record, refusing anything the live
// operations could not have produced.
func replay(want int, rec Record) (*poll, error) {
	if rec.ID != want {
		return nil, fmt.Errorf("journal out of sequence: expected poll %d, got %d", want, rec.ID)
	}
	if verr := validateOptions(rec.Options); verr != nil {
		return nil, fmt.Errorf("journal poll %d: %w", rec.ID, verr)
	}
	if !rec.CreatedAt.Before(rec.EndTime) {
		return nil, fmt.Errorf("journal poll %d: end time %s not after creation", rec.ID, rec.EndTime)
	}

	p := newPoll(rec.ID, rec.Title, rec.Options, rec.CreatedAt, rec.EndTime)
	for _, b := range rec.Votes {
		if b.Option < 0 || b.Option >= len(p.options) {
			return nil, fmt.Errorf("journal poll %d: vote by %q for option %d out of range", rec.ID, b.Voter, b.Option)
		}
		if _, dup := p.voters[b.Voter]; dup {
			return nil, fmt.Errorf("journal poll %d: duplicate vote by %q", rec.ID, b.Voter)
		}
		p.record(b.Voter, b.Option)
	}
	p.ownerClosed = rec.OwnerClosed
	return p, nil
}
