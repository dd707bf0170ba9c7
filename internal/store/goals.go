package store

import (
	"fmt"

	"github.com/sadopc/pomotrend/internal/trends"
)

func (s *Store) GetGoals() (trends.GoalSettings, error) {
	goals := trends.DefaultGoals()
	rows, err := s.db.Query(`SELECT period, focus_target, long_cycle_target FROM goals`)
	if err != nil {
		return goals, fmt.Errorf("get goals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var period string
		var pair trends.GoalPair
		if err := rows.Scan(&period, &pair.FocusTarget, &pair.LongCycleTarget); err != nil {
			return goals, err
		}
		switch trends.Dimension(period) {
		case trends.Daily:
			goals.Daily = pair
		case trends.Weekly:
			goals.Weekly = pair
		case trends.Monthly:
			goals.Monthly = pair
		}
	}
	return goals, rows.Err()
}

func (s *Store) SaveGoals(g trends.GoalSettings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	pairs := map[trends.Dimension]trends.GoalPair{
		trends.Daily:   g.Daily,
		trends.Weekly:  g.Weekly,
		trends.Monthly: g.Monthly,
	}
	for period, pair := range pairs {
		if _, err := tx.Exec(`
			INSERT INTO goals (period, focus_target, long_cycle_target) VALUES (?, ?, ?)
			ON CONFLICT(period) DO UPDATE SET
				focus_target      = excluded.focus_target,
				long_cycle_target = excluded.long_cycle_target`,
			string(period), pair.FocusTarget, pair.LongCycleTarget,
		); err != nil {
			return fmt.Errorf("save %s goal: %w", period, err)
		}
	}
	return tx.Commit()
}
