package store

import (
	"database/sql"
	"fmt"
	"time"
)

// LoadRuntime returns the persisted timer position, or nil if none was saved.
func (s *Store) LoadRuntime() (*RuntimeState, error) {
	r := &RuntimeState{}
	var running int
	var endAt sql.NullInt64
	var updatedAt string

	err := s.db.QueryRow(
		`SELECT phase, is_running, cycle_count, end_at_ms, remaining_ms, updated_at
		 FROM runtime_state WHERE id = 1`,
	).Scan(&r.Phase, &running, &r.CycleCount, &endAt, &r.RemainingMs, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load runtime state: %w", err)
	}
	r.IsRunning = running == 1
	if endAt.Valid {
		r.EndAtMs = &endAt.Int64
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return r, nil
}

func (s *Store) SaveRuntime(r RuntimeState) error {
	running := 0
	if r.IsRunning {
		running = 1
	}
	var endAt sql.NullInt64
	if r.EndAtMs != nil {
		endAt = sql.NullInt64{Int64: *r.EndAtMs, Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO runtime_state (id, phase, is_running, cycle_count, end_at_ms, remaining_ms, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase        = excluded.phase,
			is_running   = excluded.is_running,
			cycle_count  = excluded.cycle_count,
			end_at_ms    = excluded.end_at_ms,
			remaining_ms = excluded.remaining_ms,
			updated_at   = excluded.updated_at`,
		r.Phase, running, r.CycleCount, endAt, r.RemainingMs, now,
	)
	if err != nil {
		return fmt.Errorf("save runtime state: %w", err)
	}
	return nil
}
