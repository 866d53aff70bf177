package models

import "time"

// Request types

type CreatePollRequest struct {
	Title           string   `json:"title"`
	Options         []string `json:"options"`
	DurationSeconds int64    `json:"duration_seconds"`
}

// option_index is a pointer so a missing field is distinguishable from 0
type VoteRequest struct {
	OptionIndex *int `json:"option_index"`
}

// Response types

type CreatePollResponse struct {
	PollID int `json:"poll_id"`
}

type VoteResponse struct {
	PollID      int    `json:"poll_id"`
	OptionIndex int    `json:"option_index"`
	Message     string `json:"message"`
}

type ClosePollResponse struct {
	PollID  int    `json:"poll_id"`
	Message string `json:"message"`
}

// IsActive is the stored owner-closed bit; IsOpen also accounts for the
// end time as of the response
type PollInfoResponse struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Options    []string  `json:"options"`
	CreatedAt  time.Time `json:"created_at"`
	EndTime    time.Time `json:"end_time"`
	IsActive   bool      `json:"is_active"`
	IsOpen     bool      `json:"is_open"`
	VoterCount int       `json:"voter_count"`
	EndsIn     string    `json:"ends_in"`
}

type PollListResponse struct {
	Admin      string             `json:"admin"`
	TotalPolls int                `json:"total_polls"`
	Polls      []PollInfoResponse `json:"polls"`
}

type OptionsResponse struct {
	PollID  int      `json:"poll_id"`
	Options []string `json:"options"`
}

type ResultsResponse struct {
	PollID     int      `json:"poll_id"`
	Title      string   `json:"title"`
	Options    []string `json:"options"`
	VoteCounts []uint64 `json:"vote_counts"`
	TotalVotes uint64   `json:"total_votes"`
}

type HasVotedResponse struct {
	PollID   int    `json:"poll_id"`
	Address  string `json:"address"`
	HasVoted bool   `json:"has_voted"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
