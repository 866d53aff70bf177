// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pollstore implements the poll state machine: creation, time- and
owner-gated voting, closure and tallying of one-address-one-vote ballots.

# Store

A Store is an append-only sequence of polls plus one administrator
identity, fixed at construction:

	store := pollstore.New("0xadmin")

	// or, durable:
	store, err := pollstore.Open(ctx, "0xadmin", journal)

Poll ids are dense and zero-based. Polls are never deleted.

# Lifecycle

A poll is open while it is not owner-closed and the store clock is before
its end time. Both closing causes are one-way:

	open ──Close──────────▶ closed by owner
	open ──now >= endTime─▶ expired

Expiry is not written back; PollInfo keeps reporting IsActive=true for an
expired poll. Use Info.IsOpen(now) for the combined answer.

# Errors

Rejected operations return *Error with a Kind and have no side effect:

	if errors.Is(err, pollstore.ErrAlreadyVoted) { ... }
	switch pollstore.KindOf(err) { ... }

When a vote hits a poll that is both owner-closed and expired the kind is
KindPollClosedByOwner. Journal failures are wrapped and carry no Kind.

# Concurrency

Each poll has its own lock; votes on different polls never contend. Reads
take read locks, so tallies and voter sets are always observed together.
*/
package pollstore
