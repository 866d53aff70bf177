// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Address identifies a caller. Equality is exact; normalization is the
// identity provider's job.
type Address string

// poll is one ballot. Title, options, createdAt and endTime never change
// after creation; everything else is guarded by mu.
type poll struct {
	id        int
	title     string
	options   []string
	createdAt time.Time
	endTime   time.Time

	mu          sync.RWMutex
	ownerClosed bool
	voteCounts  []uint64
	voters      map[Address]struct{}
}

func newPoll(id int, title string, options []string, createdAt, endTime time.Time) *poll {
	return &poll{
		id:         id,
		title:      title,
		options:    slices.Clone(options),
		createdAt:  createdAt,
		endTime:    endTime,
		voteCounts: make([]uint64, len(options)),
		voters:     make(map[Address]struct{}),
	}
}

// record applies a vote. Caller holds mu for writing and has run every guard.
func (p *poll) record(voter Address, option int) {
	p.voters[voter] = struct{}{}
	p.voteCounts[option]++
}

// Info is the raw metadata of a poll. IsActive mirrors the stored
// owner-closed bit only; use IsOpen for the time-aware answer.
type Info struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Options    []string  `json:"options"`
	CreatedAt  time.Time `json:"created_at"`
	EndTime    time.Time `json:"end_time"`
	IsActive   bool      `json:"is_active"`
	VoterCount int       `json:"voter_count"`
}

// IsOpen reports whether the poll accepts votes at now.
func (i Info) IsOpen(now time.Time) bool {
	return i.IsActive && now.Before(i.EndTime)
}

// Results is the tally of a poll at the moment it was read.
type Results struct {
	Title      string   `json:"title"`
	Options    []string `json:"options"`
	VoteCounts []uint64 `json:"vote_counts"`
	TotalVotes uint64   `json:"total_votes"`
}

func (p *poll) info() Info {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Info{
		ID:         p.id,
		Title:      p.title,
		Options:    slices.Clone(p.options),
		CreatedAt:  p.createdAt,
		EndTime:    p.endTime,
		IsActive:   !p.ownerClosed,
		VoterCount: len(p.voters),
	}
}

func (p *poll) results() Results {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var total uint64
	for _, c := range p.voteCounts {
		total += c
	}
	return Results{
		Title:      p.title,
		Options:    slices.Clone(p.options),
		VoteCounts: slices.Clone(p.voteCounts),
		TotalVotes: total,
	}
}

// validateOptions requires at least two labels, none blank, all distinct.
func validateOptions(options []string) *Error {
	if len(options) < 2 {
		return reject(KindInvalidOptions, -1, "at least 2 options required, got %d", len(options))
	}
	seen := make(map[string]struct{}, len(options))
	for i, o := range options {
		if strings.TrimSpace(o) == "" {
			return reject(KindInvalidOptions, -1, "option %d is blank", i)
		}
		if _, dup := seen[o]; dup {
			return reject(KindInvalidOptions, -1, "duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}
	return nil
}
