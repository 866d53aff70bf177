// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox runs single-choice polls for one administrator. The administrator
creates polls with a fixed option list and a voting window; any caller may
vote once per poll until the window ends or the administrator closes it.
Tallies are public and live.

# Starting the Server

The administrator address is the only required setting:

	ADMIN_ADDRESS=0xabc... go run .

Or with flags:

	go run . -p 3318 -admin 0xabc... -seed

Settings are read from flags first, then the environment, then a .env file
(-env-file, default .env). A missing .env file is ignored.

# Configuration

Required settings:

  - ADMIN_ADDRESS (-admin): Administrator caller address

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:ballotbox.db)
  - CALLER_TOKEN_SALT (-token-salt): Require HMAC caller tokens
  - RABBITMQ_URL (-amqp), RABBITMQ_QUEUE: Publish poll events to a queue
  - REDIS_URL (-redis), REDIS_CHANNEL: Publish poll events to a channel
  - SEED_POLL (-seed): Create the sample poll "test" on an empty store

# Architecture

  - pollstore: The poll state machine, authoritative in memory
  - db: Schema and the SQL journal the store replays on start
  - events: RabbitMQ and Redis event publishers
  - handlers: HTTP request handlers (polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, JSON helpers
  - models: Request/response types
  - auth: Caller address normalization and tokens
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
