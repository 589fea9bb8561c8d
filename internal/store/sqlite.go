package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewID returns a fresh ULID, used for job and record ids.
func (s *SQLiteStore) NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generation_jobs (
		job_id        TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT,
		result_text   TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_user ON generation_jobs(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON generation_jobs(status);

	CREATE TABLE IF NOT EXISTS strategies (
		id              TEXT PRIMARY KEY,
		job_id          TEXT NOT NULL UNIQUE,
		user_id         TEXT NOT NULL,
		summary         TEXT NOT NULL,
		phases          TEXT NOT NULL,
		content_types   TEXT,
		weekly_calendar TEXT,
		example_scripts TEXT,
		raw_text        TEXT,
		confirmed_at    TEXT,
		is_active       INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_strategies_user ON strategies(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_strategies_active ON strategies(user_id, is_active);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
