// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/pollstore"
)

const admin = pollstore.Address("0xadmin")

// openTestDB creates a fresh SQLite database in a temp dir
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "ballotbox.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	// Open already ran it once
	if err := CreateSchema(conn); err != nil {
		t.Errorf("Second CreateSchema() error = %v", err)
	}
}

func TestJournal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store, err := pollstore.Open(ctx, admin, NewJournal(conn), pollstore.WithClock(clock))
	if err != nil {
		t.Fatalf("pollstore.Open() error = %v", err)
	}
	if store.TotalPolls() != 0 {
		t.Fatalf("Expected empty store, got %d polls", store.TotalPolls())
	}

	lunch, err := store.Create(ctx, admin, "Lunch", []string{"Pizza", "Sushi", "Tacos"}, 60)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dinner, err := store.Create(ctx, admin, "Dinner", []string{"Soup", "Salad"}, 120)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	votes := []struct {
		voter  pollstore.Address
		pollID int
		option int
	}{
		{"0xaaaa", lunch, 0},
		{"0xbbbb", lunch, 2},
		{"0xcccc", lunch, 2},
		{"0xaaaa", dinner, 1},
	}
	for _, v := range votes {
		if err := store.Vote(ctx, v.voter, v.pollID, v.option); err != nil {
			t.Fatalf("Vote(%s, %d, %d) error = %v", v.voter, v.pollID, v.option, err)
		}
	}
	if err := store.Close(ctx, admin, dinner); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := pollstore.Open(ctx, admin, NewJournal(conn), pollstore.WithClock(clock))
	if err != nil {
		t.Fatalf("pollstore.Open() replay error = %v", err)
	}

	if reopened.TotalPolls() != 2 {
		t.Fatalf("Expected 2 polls, got %d", reopened.TotalPolls())
	}

	res, _ := reopened.Results(lunch)
	if !slices.Equal(res.VoteCounts, []uint64{1, 0, 2}) {
		t.Errorf("Expected lunch counts [1 0 2], got %v", res.VoteCounts)
	}
	if !slices.Equal(res.Options, []string{"Pizza", "Sushi", "Tacos"}) {
		t.Errorf("Expected options in index order, got %v", res.Options)
	}

	info, _ := reopened.PollInfo(dinner)
	if info.IsActive {
		t.Error("Expected dinner to stay owner-closed after replay")
	}
	if !info.EndTime.Equal(now.Add(120 * time.Second)) {
		t.Errorf("Expected end time %v, got %v", now.Add(120*time.Second), info.EndTime)
	}

	voted, _ := reopened.HasVoted(dinner, "0xaaaa")
	if !voted {
		t.Error("Expected 0xaaaa to have voted in dinner")
	}

	// Ids continue after replay
	next, err := reopened.Create(ctx, admin, "Breakfast", []string{"Eggs", "Toast"}, 30)
	if err != nil {
		t.Fatalf("Create() after replay error = %v", err)
	}
	if next != 2 {
		t.Errorf("Expected next id 2, got %d", next)
	}
}

func TestJournal_DuplicateVoteRejectedByDatabase(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	journal := NewJournal(conn)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := journal.RecordCreate(ctx, pollstore.Record{
		ID: 0, Title: "t", Options: []string{"a", "b"},
		CreatedAt: created, EndTime: created.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("RecordCreate() error = %v", err)
	}

	if err := journal.RecordVote(ctx, 0, "0xaaaa", 0, created); err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}
	if err := journal.RecordVote(ctx, 0, "0xaaaa", 1, created); err == nil {
		t.Error("Expected primary key violation for second vote")
	}
}

func TestJournal_CloseTwice(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	journal := NewJournal(conn)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := journal.RecordCreate(ctx, pollstore.Record{
		ID: 0, Title: "t", Options: []string{"a", "b"},
		CreatedAt: created, EndTime: created.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("RecordCreate() error = %v", err)
	}

	if err := journal.RecordClose(ctx, 0, created); err != nil {
		t.Fatalf("RecordClose() error = %v", err)
	}
	if err := journal.RecordClose(ctx, 0, created); !errors.Is(err, ErrNotRecorded) {
		t.Errorf("Expected ErrNotRecorded, got %v", err)
	}
	if err := journal.RecordClose(ctx, 9, created); !errors.Is(err, ErrNotRecorded) {
		t.Errorf("Expected ErrNotRecorded for unknown poll, got %v", err)
	}
}

func TestJournal_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	journal := NewJournal(conn)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Duplicate labels violate UNIQUE (poll_id, label) after the poll row
	// is inserted; the whole create must roll back
	err := journal.RecordCreate(ctx, pollstore.Record{
		ID: 0, Title: "t", Options: []string{"a", "a"},
		CreatedAt: created, EndTime: created.Add(time.Minute),
	})
	if err == nil {
		t.Fatal("Expected error for duplicate labels")
	}

	records, err := journal.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected rollback to leave no polls, got %d", len(records))
	}
}

func TestJournal_EndPastUnixNanosIsInvalidDuration(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store, err := pollstore.Open(ctx, admin, NewJournal(conn), pollstore.WithClock(clock))
	if err != nil {
		t.Fatalf("pollstore.Open() error = %v", err)
	}

	_, err = store.Create(ctx, admin, "Forever", []string{"a", "b"}, 290*365*24*3600)
	if kind := pollstore.KindOf(err); kind != pollstore.KindInvalidDuration {
		t.Fatalf("Create() error = %v (kind %q), want %s", err, kind, pollstore.KindInvalidDuration)
	}
	if store.TotalPolls() != 0 {
		t.Errorf("Rejected create changed poll count to %d", store.TotalPolls())
	}

	records, err := NewJournal(conn).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no journaled polls, got %d", len(records))
	}

	// the store stays usable and ids stay dense
	id, err := store.Create(ctx, admin, "Lunch", []string{"a", "b"}, 60)
	if err != nil || id != 0 {
		t.Errorf("Create() after rejection = %d, %v; want 0, nil", id, err)
	}
}
