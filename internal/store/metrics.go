package store

import (
	"fmt"
	"time"
)

// RecordFocusCompletion adds one focus completion to day, and one long-cycle
// completion when longCycle is set.
func (s *Store) RecordFocusCompletion(day string, longCycle bool) error {
	long := 0
	if longCycle {
		long = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO daily_metrics (day, focus_completed, long_cycle_completed, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			focus_completed      = focus_completed + 1,
			long_cycle_completed = long_cycle_completed + excluded.long_cycle_completed,
			updated_at           = excluded.updated_at`,
		day, long, now,
	)
	if err != nil {
		return fmt.Errorf("record focus completion: %w", err)
	}
	return nil
}

// ListDailyMetrics returns the recorded days in [from, to], both inclusive
// YYYY-MM-DD keys, ordered by day.
func (s *Store) ListDailyMetrics(from, to string) ([]DailyMetrics, error) {
	rows, err := s.db.Query(`
		SELECT day, focus_completed, long_cycle_completed, updated_at
		FROM daily_metrics
		WHERE day >= ? AND day <= ?
		ORDER BY day`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	defer rows.Close()

	var metrics []DailyMetrics
	for rows.Next() {
		var m DailyMetrics
		var updatedAt string
		if err := rows.Scan(&m.Day, &m.FocusCompleted, &m.LongCycleCompleted, &updatedAt); err != nil {
			return nil, err
		}
		m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SumDailyMetrics totals the counts of the days in [from, to].
func (s *Store) SumDailyMetrics(from, to string) (focus, longCycle int, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(focus_completed), 0), COALESCE(SUM(long_cycle_completed), 0)
		FROM daily_metrics
		WHERE day >= ? AND day <= ?`,
		from, to,
	).Scan(&focus, &longCycle)
	if err != nil {
		err = fmt.Errorf("sum daily metrics: %w", err)
	}
	return
}

// PruneDailyMetrics deletes days before cutoff and returns how many were removed.
func (s *Store) PruneDailyMetrics(cutoff string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM daily_metrics WHERE day < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune daily metrics: %w", err)
	}
	return res.RowsAffected()
}
