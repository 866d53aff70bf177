// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotbox API.

# Route Registration

NewRouter returns the full handler, CORS included:

	h := router.NewRouter(store, publisher, cfg)

# Endpoints

Health:

	GET /health
	GET /

Poll management (administrator, identified by X-Caller-Address):

	POST /polls            - Create poll
	POST /polls/{id}/close - Stop voting

Metadata and results (public):

	GET /polls                       - Every poll with total_polls and admin
	GET /polls/{id}                  - Poll info with is_active and is_open
	GET /polls/{id}/options          - Option labels in index order
	GET /polls/{id}/results          - Live tally
	GET /polls/{id}/voters/{address} - Whether address has voted

Voting:

	POST /polls/{id}/votes - Cast a vote, body {"option_index": n}

Every route except the health checks is wrapped in middleware.WithLogging,
which assigns the X-Request-ID.
*/
package router
