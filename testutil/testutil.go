// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/pollstore"
)

// TestAdmin is the administrator every test store is built with
const TestAdmin pollstore.Address = "0x00000000000000000000000000000000000000ad"

// TestTokenSalt signs caller tokens in GetTestConfig
const TestTokenSalt = "test-token-salt"

// Epoch is where every test clock starts
var Epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source safe for concurrent use
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// VoterAddress returns a distinct lower-case hex address for index i
func VoterAddress(i int) pollstore.Address {
	return pollstore.Address(fmt.Sprintf("0x%040x", 0x1000+i))
}

// SetupTestDB opens a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "ballotbox.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return conn
}

// NewTestStore returns an in-memory store owned by TestAdmin
func NewTestStore(clock *Clock) *pollstore.Store {
	return pollstore.New(TestAdmin, pollstore.WithClock(clock.Now))
}

// OpenJournaledStore builds a store backed by the database journal,
// replaying whatever the database already holds
func OpenJournaledStore(t *testing.T, conn *sql.DB, clock *Clock) *pollstore.Store {
	t.Helper()

	store, err := pollstore.Open(context.Background(), TestAdmin, db.NewJournal(conn), pollstore.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Failed to open journaled store: %v", err)
	}
	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file::memory:",
		DatabaseType:    db.TypeSQLite,
		AdminAddress:    string(TestAdmin),
		CallerTokenSalt: TestTokenSalt,
	}
}

// CallerHeaders returns the identity headers for addr signed with cfg's salt
func CallerHeaders(cfg cliparse.Config, addr pollstore.Address) map[string]string {
	headers := map[string]string{auth.HeaderCallerAddress: string(addr)}
	if cfg.CallerTokenSalt != "" {
		headers[auth.HeaderCallerToken] = auth.GenerateCallerToken(addr, cfg.CallerTokenSalt)
	}
	return headers
}

// CreateTestPoll creates a poll as TestAdmin and returns its id
func CreateTestPoll(t *testing.T, store *pollstore.Store, durationSeconds int64, options ...string) int {
	t.Helper()

	if len(options) == 0 {
		options = []string{"Option A", "Option B", "Option C"}
	}
	id, err := store.Create(context.Background(), TestAdmin, "Test Poll", options, durationSeconds)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return id
}

// CastTestVote records a vote directly on the store
func CastTestVote(t *testing.T, store *pollstore.Store, pollID int, voter pollstore.Address, option int) {
	t.Helper()

	if err := store.Vote(context.Background(), voter, pollID, option); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// Recorder is an events.Publisher that keeps everything it is given
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the published events in order
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
