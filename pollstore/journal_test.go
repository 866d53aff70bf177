// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollstore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

// memJournal keeps records in memory and can be told to fail
type memJournal struct {
	records []Record
	fail    error

	cancelled int // writes that saw a done context
}

func (j *memJournal) write(ctx context.Context) error {
	if ctx.Err() != nil {
		j.cancelled++
	}
	return j.fail
}

func (j *memJournal) RecordCreate(ctx context.Context, rec Record) error {
	if err := j.write(ctx); err != nil {
		return err
	}
	rec.Options = slices.Clone(rec.Options)
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) RecordVote(ctx context.Context, pollID int, voter Address, option int, at time.Time) error {
	if err := j.write(ctx); err != nil {
		return err
	}
	j.records[pollID].Votes = append(j.records[pollID].Votes, Ballot{Voter: voter, Option: option})
	return nil
}

func (j *memJournal) RecordClose(ctx context.Context, pollID int, at time.Time) error {
	if err := j.write(ctx); err != nil {
		return err
	}
	j.records[pollID].OwnerClosed = true
	return nil
}

func (j *memJournal) Load(ctx context.Context) ([]Record, error) {
	if j.fail != nil {
		return nil, j.fail
	}
	return j.records, nil
}

func TestOpen_ReplaysJournal(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	journal := &memJournal{}

	s, err := Open(ctx, admin, journal, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first := mustCreate(t, s, "One", []string{"a", "b"}, 60)
	second := mustCreate(t, s, "Two", []string{"x", "y", "z"}, 60)
	_ = s.Vote(ctx, userA, first, 1)
	_ = s.Vote(ctx, userB, first, 1)
	_ = s.Vote(ctx, userA, second, 2)
	_ = s.Close(ctx, admin, first)

	reopened, err := Open(ctx, admin, journal, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() replay error = %v", err)
	}

	if reopened.TotalPolls() != 2 {
		t.Fatalf("Expected 2 polls after replay, got %d", reopened.TotalPolls())
	}
	for _, id := range []int{first, second} {
		want, _ := s.Results(id)
		got, _ := reopened.Results(id)
		if !slices.Equal(want.VoteCounts, got.VoteCounts) || want.Title != got.Title {
			t.Errorf("Poll %d replayed as %+v, want %+v", id, got, want)
		}
		wantInfo, _ := s.PollInfo(id)
		gotInfo, _ := reopened.PollInfo(id)
		if wantInfo.IsActive != gotInfo.IsActive || !wantInfo.EndTime.Equal(gotInfo.EndTime) {
			t.Errorf("Poll %d info replayed as %+v, want %+v", id, gotInfo, wantInfo)
		}
	}

	if err := reopened.Vote(ctx, userB, second, 0); err != nil {
		t.Errorf("Vote() after replay error = %v", err)
	}
	assertKind(t, reopened.Vote(ctx, userA, second, 0), KindAlreadyVoted)
	assertKind(t, reopened.Close(ctx, admin, first), KindAlreadyClosed)
}

func TestJournalFailure_NoSideEffect(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	journal := &memJournal{}
	s, err := Open(ctx, admin, journal, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	id := mustCreate(t, s, "One", []string{"a", "b"}, 60)

	diskFull := errors.New("disk full")
	journal.fail = diskFull

	if _, err := s.Create(ctx, admin, "Two", []string{"a", "b"}, 60); !errors.Is(err, diskFull) {
		t.Errorf("Create() error = %v, want disk full", err)
	}
	if s.TotalPolls() != 1 {
		t.Errorf("Failed create changed poll count to %d", s.TotalPolls())
	}

	err = s.Vote(ctx, userA, id, 0)
	if !errors.Is(err, diskFull) || KindOf(err) != "" {
		t.Errorf("Vote() error = %v, want unkinded disk full", err)
	}
	if voted, _ := s.HasVoted(id, userA); voted {
		t.Error("Failed vote added caller to voters")
	}

	if err := s.Close(ctx, admin, id); !errors.Is(err, diskFull) {
		t.Errorf("Close() error = %v, want disk full", err)
	}
	if info, _ := s.PollInfo(id); !info.IsActive {
		t.Error("Failed close changed owner-closed flag")
	}

	journal.fail = nil
	if err := s.Vote(ctx, userA, id, 0); err != nil {
		t.Errorf("Vote() after recovery error = %v", err)
	}
}

func TestJournalWrites_IgnoreCallerCancellation(t *testing.T) {
	clock := newTestClock()
	journal := &memJournal{}
	s, err := Open(context.Background(), admin, journal, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// client went away before the handler reached the store
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id, err := s.Create(ctx, admin, "One", []string{"a", "b"}, 60)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Vote(ctx, userA, id, 1); err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if err := s.Close(ctx, admin, id); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if journal.cancelled != 0 {
		t.Errorf("%d journal writes saw a cancelled context", journal.cancelled)
	}
	if voted, _ := s.HasVoted(id, userA); !voted {
		t.Error("Journaled vote was not applied in memory")
	}
	if got := journal.records[id].Votes; len(got) != 1 || got[0].Voter != userA {
		t.Errorf("Journal votes = %+v, want one ballot from %s", got, userA)
	}
	if info, _ := s.PollInfo(id); info.IsActive {
		t.Error("Journaled close was not applied in memory")
	}
}

func TestOpen_RejectsCorruptJournal(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := func(id int) Record {
		return Record{ID: id, Title: "t", Options: []string{"a", "b"}, CreatedAt: created, EndTime: created.Add(time.Minute)}
	}

	tests := []struct {
		name    string
		records []Record
		wantErr string
	}{
		{"gap in ids", []Record{valid(0), valid(2)}, "out of sequence"},
		{"too few options", []Record{{ID: 0, Options: []string{"a"}, CreatedAt: created, EndTime: created.Add(time.Minute)}}, "invalid_options"},
		{"end before start", []Record{{ID: 0, Options: []string{"a", "b"}, CreatedAt: created, EndTime: created}}, "not after creation"},
		{"option out of range", []Record{func() Record {
			r := valid(0)
			r.Votes = []Ballot{{Voter: userA, Option: 2}}
			return r
		}()}, "out of range"},
		{"duplicate voter", []Record{func() Record {
			r := valid(0)
			r.Votes = []Ballot{{Voter: userA, Option: 0}, {Voter: userA, Option: 1}}
			return r
		}()}, "duplicate vote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), admin, &memJournal{records: tt.records})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOpen_LoadFailure(t *testing.T) {
	_, err := Open(context.Background(), admin, &memJournal{fail: errors.New("connection refused")})
	if err == nil || !strings.Contains(err.Error(), "failed to load journal") {
		t.Errorf("Expected load failure, got %v", err)
	}
}
