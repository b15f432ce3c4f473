package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"triz/internal/triz"

	_ "modernc.org/sqlite"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    stage      TEXT NOT NULL,
    payload    BLOB NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`

const sessionSchemaVersion = 1

// SqlStore implements Store with SQLite. The session record is stored
// as a JSON payload; stage and timestamps are lifted into columns for
// listing and cleanup queries.
type SqlStore struct {
	db *sql.DB
}

var _ Store = (*SqlStore)(nil)

// OpenSqlStore opens or creates a SQLite DB at path and runs
// migrations. Creates the parent directory if it does not exist.
func OpenSqlStore(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(sessionSchema); err != nil {
		return fmt.Errorf("session: create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", sessionSchemaVersion); err != nil {
			return fmt.Errorf("session: set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read schema version: %w", err)
	}
	if v != sessionSchemaVersion {
		return fmt.Errorf("session: unknown schema version %d", v)
	}
	return nil
}

func (s *SqlStore) Load(ctx context.Context, id string) (*Session, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM sessions WHERE id = ?", id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", triz.ErrPersistence, id, err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", triz.ErrPersistence, id, err)
	}
	return &sess, nil
}

func (s *SqlStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, stage, payload, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   stage = excluded.stage,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		sess.ID, string(sess.Stage), payload,
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		sess.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	return nil
}

func (s *SqlStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", triz.ErrPersistence, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", triz.ErrPersistence, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	return nil
}

func (s *SqlStore) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM sessions ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", triz.ErrPersistence, err)
	}
	defer rows.Close()
	var out []*Session
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", triz.ErrPersistence, err)
		}
		var sess Session
		if err := json.Unmarshal(payload, &sess); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", triz.ErrPersistence, err)
		}
		out = append(out, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", triz.ErrPersistence, err)
	}
	return out, nil
}

func (s *SqlStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE updated_at <= ?", cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup: %v", triz.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup: %v", triz.ErrPersistence, err)
	}
	return int(n), nil
}

func (s *SqlStore) Close() error { return s.db.Close() }
