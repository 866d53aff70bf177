// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct wrapping the shared poll store:

  - PollHandler: Poll lifecycle (create, close) and metadata
  - VotingHandler: Vote casting and voter lookups
  - ResultsHandler: Live tallies

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(store, publisher, cfg)

# Caller Identity

Mutating requests carry the caller in X-Caller-Address. When a token salt
is configured, X-Caller-Token must hold the HMAC of that address. Missing
or bad identity is 401; an identified caller who is not the administrator
gets 403 from the store.

# Poll Lifecycle

	POST /polls            → CreatePoll (administrator only)
	POST /polls/{id}/votes → Vote (any caller, once per poll)
	POST /polls/{id}/close → ClosePoll (administrator only)

A poll stops accepting votes at its end time or when closed, whichever
comes first. Reads work in every state.

# Errors

Store rejections are written with their kind so clients can branch on it:

	{"error": "Conflict", "kind": "already_voted", "message": "..."}

StatusForKind holds the mapping. Failures that are not rejections are
logged and returned as 500 without detail.

# Events

Accepted mutations are published to the configured events.Publisher after
the store commits. Publish errors are logged and do not fail the request.
*/
package handlers
