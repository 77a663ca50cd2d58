package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN is a process-local in-memory database.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// one writer; also keeps a shared in-memory database alive
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS audit_log (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	session_id  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	question_id INTEGER NOT NULL,
	payload     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_log_session ON audit_log(session_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_kind ON audit_log(kind);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordAnswer(ctx context.Context, sessionID string, questionID int, payload any) error {
	e, err := newEntry(sessionID, KindAnswer, questionID, payload)
	if err != nil {
		return err
	}
	return eris.Wrapf(s.insert(ctx, e), "sqlite: record answer %d", questionID)
}

func (s *SQLiteStore) RecordResult(ctx context.Context, sessionID string, payload any) error {
	e, err := newEntry(sessionID, KindResult, NoQuestion, payload)
	if err != nil {
		return err
	}
	return eris.Wrap(s.insert(ctx, e), "sqlite: record result")
}

func (s *SQLiteStore) insert(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, session_id, kind, question_id, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Kind), e.QuestionID, string(e.Payload), e.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) ListHistory(ctx context.Context, filter HistoryFilter) ([]Entry, error) {
	query := `SELECT id, session_id, kind, question_id, payload, created_at FROM audit_log WHERE 1=1`
	var args []any

	if filter.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, filter.SessionID)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY seq LIMIT ?`
	args = append(args, limitOf(filter))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			payload string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.QuestionID, &payload, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		e.Kind = Kind(kind)
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list history iterate")
}
