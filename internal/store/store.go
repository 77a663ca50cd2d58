// Package store keeps an append-only audit log of accepted answers and
// final results, in SQLite or Postgres.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Kind distinguishes audit entries.
type Kind string

// Entry kinds.
const (
	KindAnswer Kind = "answer"
	KindResult Kind = "result"
)

// NoQuestion is the question id recorded on result entries.
const NoQuestion = -1

// Entry is one audit record.
type Entry struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Kind       Kind            `json:"kind"`
	QuestionID int             `json:"question_id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// HistoryFilter specifies criteria for listing entries.
type HistoryFilter struct {
	SessionID string `json:"session_id,omitempty"`
	Kind      Kind   `json:"kind,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// DefaultLimit caps ListHistory when the filter sets none.
const DefaultLimit = 100

// Store defines the audit persistence interface.
type Store interface {
	RecordAnswer(ctx context.Context, sessionID string, questionID int, payload any) error
	RecordResult(ctx context.Context, sessionID string, payload any) error
	// ListHistory returns entries oldest first.
	ListHistory(ctx context.Context, filter HistoryFilter) ([]Entry, error)

	Migrate(ctx context.Context) error
	Close() error
}

func newEntry(sessionID string, kind Kind, questionID int, payload any) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, eris.Wrapf(err, "store: marshal %s payload", kind)
	}
	return Entry{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Kind:       kind,
		QuestionID: questionID,
		Payload:    data,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func limitOf(f HistoryFilter) int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Open connects the configured driver and migrates it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case DriverSQLite, "":
		s, err = NewSQLite(dsn)
	case DriverPostgres:
		s, err = NewPostgres(ctx, dsn, nil)
	case DriverNone:
		return Nop{}, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAnswer(context.Context, string, int, any) error { return nil }
func (Nop) RecordResult(context.Context, string, any) error      { return nil }
func (Nop) ListHistory(context.Context, HistoryFilter) ([]Entry, error) {
	return nil, nil
}
func (Nop) Migrate(context.Context) error { return nil }
func (Nop) Close() error                  { return nil }
