// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/ballotbox/pollstore"
)

// ErrNotRecorded means a close matched no open row. The store checks
// owner-closed state first, so this only fires when another process shares
// the database.
var ErrNotRecorded = errors.New("close did not match an open poll")

// Journal persists poll mutations in SQL. It implements pollstore.Journal.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// RecordCreate inserts the poll row and its options in one transaction.
func (j *Journal) RecordCreate(ctx context.Context, rec pollstore.Record) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, created_at, end_time, owner_closed)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.Title, rec.CreatedAt.UnixNano(), rec.EndTime.UnixNano(), false)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for idx, label := range rec.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES ($1, $2, $3)
		`, rec.ID, idx, label)
		if err != nil {
			return fmt.Errorf("failed to insert option %d: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordVote inserts one vote. The (poll_id, voter) primary key backs up the
// store's one-vote-per-address rule.
func (j *Journal) RecordVote(ctx context.Context, pollID int, voter pollstore.Address, option int, at time.Time) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO vote (poll_id, voter, option_idx, cast_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, string(voter), option, at.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// RecordClose sets the owner-closed flag.
func (j *Journal) RecordClose(ctx context.Context, pollID int, at time.Time) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE poll
		SET owner_closed = $1, closed_at = $2
		WHERE id = $3 AND owner_closed = $4
	`, true, at.UnixNano(), pollID, false)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return ErrNotRecorded
	}
	return nil
}

// Load reads every poll with its options and votes, ordered by id.
func (j *Journal) Load(ctx context.Context) ([]pollstore.Record, error) {
	records, err := j.loadPolls(ctx)
	if err != nil {
		return nil, err
	}
	if err := j.loadOptions(ctx, records); err != nil {
		return nil, err
	}
	if err := j.loadVotes(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (j *Journal) loadPolls(ctx context.Context) ([]pollstore.Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, title, created_at, end_time, owner_closed
		FROM poll
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	records := []pollstore.Record{}
	for rows.Next() {
		var rec pollstore.Record
		var createdAt, endTime int64
		if err := rows.Scan(&rec.ID, &rec.Title, &createdAt, &endTime, &rec.OwnerClosed); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		rec.EndTime = time.Unix(0, endTime).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	return records, nil
}

// lookup maps a poll id to its position. Ids are dense when the journal is
// healthy, but replay is where that gets checked, not here.
func lookup(records []pollstore.Record, pollID int) (*pollstore.Record, error) {
	if pollID < 0 || pollID >= len(records) || records[pollID].ID != pollID {
		return nil, fmt.Errorf("row references unknown poll %d", pollID)
	}
	return &records[pollID], nil
}

func (j *Journal) loadOptions(ctx context.Context, records []pollstore.Record) error {
	rows, err := j.db.QueryContext(ctx, `
		SELECT poll_id, idx, label
		FROM poll_option
		ORDER BY poll_id, idx
	`)
	if err != nil {
		return fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID, idx int
		var label string
		if err := rows.Scan(&pollID, &idx, &label); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		rec, err := lookup(records, pollID)
		if err != nil {
			return err
		}
		if idx != len(rec.Options) {
			return fmt.Errorf("poll %d is missing option %d", pollID, len(rec.Options))
		}
		rec.Options = append(rec.Options, label)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate options: %w", err)
	}
	return nil
}

func (j *Journal) loadVotes(ctx context.Context, records []pollstore.Record) error {
	rows, err := j.db.QueryContext(ctx, `
		SELECT poll_id, voter, option_idx
		FROM vote
		ORDER BY poll_id, cast_at, voter
	`)
	if err != nil {
		return fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID, option int
		var voter string
		if err := rows.Scan(&pollID, &voter, &option); err != nil {
			return fmt.Errorf("failed to scan vote: %w", err)
		}
		rec, err := lookup(records, pollID)
		if err != nil {
			return err
		}
		rec.Votes = append(rec.Votes, pollstore.Ballot{Voter: pollstore.Address(voter), Option: option})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate votes: %w", err)
	}
	return nil
}
