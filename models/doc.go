// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options, duration_seconds
  - VoteRequest: option_index

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id
  - VoteResponse: poll_id, option_index, message
  - ClosePollResponse: poll_id, message
  - PollInfoResponse: metadata, is_active, is_open, voter_count, ends_in
  - PollListResponse: admin, total_polls, polls
  - OptionsResponse: poll_id, options
  - ResultsResponse: title, options, vote_counts, total_votes
  - HasVotedResponse: poll_id, address, has_voted
  - ErrorResponse: error, kind, message

# Poll State

is_active mirrors the stored owner-closed flag. is_open is computed when the
response is built and is false once the end time has passed, even when
is_active is still true.

# Error Kinds

ErrorResponse.kind carries the poll store rejection kind, for example
already_voted or poll_expired. Clients should branch on kind, not message.
*/
package models
