package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS audit_log (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	session_id  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	question_id INTEGER NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_session ON audit_log(session_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_kind ON audit_log(kind);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) RecordAnswer(ctx context.Context, sessionID string, questionID int, payload any) error {
	e, err := newEntry(sessionID, KindAnswer, questionID, payload)
	if err != nil {
		return err
	}
	return eris.Wrapf(s.insert(ctx, e), "postgres: record answer %d", questionID)
}

func (s *PostgresStore) RecordResult(ctx context.Context, sessionID string, payload any) error {
	e, err := newEntry(sessionID, KindResult, NoQuestion, payload)
	if err != nil {
		return err
	}
	return eris.Wrap(s.insert(ctx, e), "postgres: record result")
}

func (s *PostgresStore) insert(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, session_id, kind, question_id, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.SessionID, string(e.Kind), e.QuestionID, string(e.Payload), e.CreatedAt,
	)
	return err
}

func (s *PostgresStore) ListHistory(ctx context.Context, filter HistoryFilter) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, kind, question_id, payload::text, created_at FROM audit_log
		 WHERE ($1 = '' OR session_id = $1) AND ($2 = '' OR kind = $2)
		 ORDER BY seq LIMIT $3`,
		filter.SessionID, string(filter.Kind), limitOf(filter),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			payload string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.QuestionID, &payload, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		e.Kind = Kind(kind)
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list history iterate")
}
