// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// maxDurationSeconds keeps the duration itself inside time.Duration.
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// latestEndTime is the last instant representable as unix nanoseconds, the
// unit journals store timestamps in.
var latestEndTime = time.Unix(0, math.MaxInt64)

// Store is the append-only collection of polls plus the administrator
// identity fixed at construction.
type Store struct {
	admin   Address
	now     func() time.Time
	journal Journal

	mu    sync.RWMutex // guards polls (append only)
	polls []*poll
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store administered by admin. Without a journal the
// store lives only as long as the process.
func New(admin Address, opts ...Option) *Store {
	s := &Store{admin: admin, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store backed by journal and replays its contents.
func Open(ctx context.Context, admin Address, journal Journal, opts ...Option) (*Store, error) {
	s := New(admin, opts...)
	s.journal = journal

	records, err := journal.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	for i, rec := range records {
		p, err := replay(i, rec)
		if err != nil {
			return nil, err
		}
		s.polls = append(s.polls, p)
	}
	return s, nil
}

// Admin returns the administrator identity.
func (s *Store) Admin() Address {
	return s.admin
}

// durable detaches a journal write from caller cancellation. A write the
// journal committed must also be applied in memory.
func durable(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Store) get(pollID int) (*poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pollID < 0 || pollID >= len(s.polls) {
		return nil, reject(KindNotFound, pollID, "poll %d does not exist", pollID)
	}
	return s.polls[pollID], nil
}

// Create appends a new poll and returns its id.
func (s *Store) Create(ctx context.Context, caller Address, title string, options []string, durationSeconds int64) (int, error) {
	if err := authorize(caller, s.admin); err != nil {
		return 0, err
	}
	if strings.TrimSpace(title) == "" {
		return 0, reject(KindInvalidTitle, -1, "title is required")
	}
	if err := validateOptions(options); err != nil {
		return 0, err
	}
	if durationSeconds <= 0 || durationSeconds > maxDurationSeconds {
		return 0, reject(KindInvalidDuration, -1, "duration must be positive, got %d", durationSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	end := now.Add(time.Duration(durationSeconds) * time.Second)
	if end.After(latestEndTime) {
		return 0, reject(KindInvalidDuration, -1, "duration %ds ends after %s", durationSeconds, latestEndTime.UTC().Format(time.RFC3339))
	}
	p := newPoll(len(s.polls), title, options, now, end)

	if s.journal != nil {
		err := s.journal.RecordCreate(durable(ctx), Record{
			ID:        p.id,
			Title:     p.title,
			Options:   p.options,
			CreatedAt: p.createdAt,
			EndTime:   p.endTime,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to record poll %d: %w", p.id, err)
		}
	}

	s.polls = append(s.polls, p)
	return p.id, nil
}

// Vote records caller's vote for optionIndex.
func (s *Store) Vote(ctx context.Context, caller Address, pollID, optionIndex int) error {
	p, err := s.get(pollID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := s.now()
	if err := checkOpen(p, now); err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(p.options) {
		return reject(KindInvalidOption, pollID, "option %d out of range [0,%d)", optionIndex, len(p.options))
	}
	if _, voted := p.voters[caller]; voted {
		return reject(KindAlreadyVoted, pollID, "%q already voted in poll %d", caller, pollID)
	}

	if s.journal != nil {
		if err := s.journal.RecordVote(durable(ctx), pollID, caller, optionIndex, now); err != nil {
			return fmt.Errorf("failed to record vote in poll %d: %w", pollID, err)
		}
	}

	p.record(caller, optionIndex)
	return nil
}

// Close ends voting on a poll. A second Close fails with AlreadyClosed.
func (s *Store) Close(ctx context.Context, caller Address, pollID int) error {
	if err := authorize(caller, s.admin); err != nil {
		return err
	}
	p, err := s.get(pollID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ownerClosed {
		return reject(KindAlreadyClosed, pollID, "poll %d already closed", pollID)
	}

	if s.journal != nil {
		if err := s.journal.RecordClose(durable(ctx), pollID, s.now()); err != nil {
			return fmt.Errorf("failed to record close of poll %d: %w", pollID, err)
		}
	}

	p.ownerClosed = true
	return nil
}

// PollInfo returns the raw metadata of a poll.
func (s *Store) PollInfo(pollID int) (Info, error) {
	p, err := s.get(pollID)
	if err != nil {
		return Info{}, err
	}
	return p.info(), nil
}

// Options returns the option labels of a poll in index order.
func (s *Store) Options(pollID int) ([]string, error) {
	p, err := s.get(pollID)
	if err != nil {
		return nil, err
	}
	// options never change, so no lock
	return append([]string(nil), p.options...), nil
}

// Results returns the current tally of a poll.
func (s *Store) Results(pollID int) (Results, error) {
	p, err := s.get(pollID)
	if err != nil {
		return Results{}, err
	}
	return p.results(), nil
}

// HasVoted reports whether address has voted in the poll.
func (s *Store) HasVoted(pollID int, address Address) (bool, error) {
	p, err := s.get(pollID)
	if err != nil {
		return false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.voters[address]
	return ok, nil
}

// TotalPolls returns the number of polls ever created.
func (s *Store) TotalPolls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.polls)
}

// ListPolls returns the metadata of every poll in id order.
func (s *Store) ListPolls() []Info {
	s.mu.RLock()
	polls := append([]*poll(nil), s.polls...)
	s.mu.RUnlock()

	infos := make([]Info, len(polls))
	for i, p := range polls {
		infos[i] = p.info()
	}
	return infos
}
