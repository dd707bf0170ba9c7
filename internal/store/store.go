package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS daily_metrics (
		day                  TEXT PRIMARY KEY,
		focus_completed      INTEGER NOT NULL DEFAULT 0,
		long_cycle_completed INTEGER NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS goals (
		period            TEXT PRIMARY KEY,
		focus_target      INTEGER NOT NULL,
		long_cycle_target INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runtime_state (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		phase        TEXT NOT NULL,
		is_running   INTEGER NOT NULL DEFAULT 0,
		cycle_count  INTEGER NOT NULL DEFAULT 0,
		end_at_ms    INTEGER,
		remaining_ms INTEGER NOT NULL,
		updated_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('focus_ms',         '1500000'),
		('short_break_ms',   '300000'),
		('long_break_ms',    '900000'),
		('long_break_every', '4'),
		('notify_enabled',   'true'),
		('sound_enabled',    'true'),
		('locale',           'en-US');

	INSERT OR IGNORE INTO goals (period, focus_target, long_cycle_target) VALUES
		('daily',   8,   2),
		('weekly',  40,  10),
		('monthly', 160, 40);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pomotrend/pomotrend.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomotrend", "pomotrend.db"), nil
}
