package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/pomotrend/internal/countdown"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadTimerSettings reads the timer settings, falling back to defaults for
// missing or unparseable values. The result is not sanitized.
func (s *Store) LoadTimerSettings() (countdown.Settings, error) {
	all, err := s.GetAllSettings()
	if err != nil {
		return countdown.Settings{}, err
	}
	ts := countdown.DefaultSettings()
	for _, kv := range all {
		switch kv.Key {
		case "focus_ms":
			ts.FocusMs = parseInt64(kv.Value, ts.FocusMs)
		case "short_break_ms":
			ts.ShortBreakMs = parseInt64(kv.Value, ts.ShortBreakMs)
		case "long_break_ms":
			ts.LongBreakMs = parseInt64(kv.Value, ts.LongBreakMs)
		case "long_break_every":
			ts.LongBreakEvery = int(parseInt64(kv.Value, int64(ts.LongBreakEvery)))
		case "notify_enabled":
			ts.NotifyEnabled = parseBool(kv.Value, ts.NotifyEnabled)
		case "sound_enabled":
			ts.SoundEnabled = parseBool(kv.Value, ts.SoundEnabled)
		case "locale":
			ts.Locale = kv.Value
		}
	}
	return ts, nil
}

// SaveTimerSettings writes every timer setting in one transaction.
func (s *Store) SaveTimerSettings(ts countdown.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	values := []Setting{
		{"focus_ms", strconv.FormatInt(ts.FocusMs, 10)},
		{"short_break_ms", strconv.FormatInt(ts.ShortBreakMs, 10)},
		{"long_break_ms", strconv.FormatInt(ts.LongBreakMs, 10)},
		{"long_break_every", strconv.Itoa(ts.LongBreakEvery)},
		{"notify_enabled", strconv.FormatBool(ts.NotifyEnabled)},
		{"sound_enabled", strconv.FormatBool(ts.SoundEnabled)},
		{"locale", ts.Locale},
	}
	for _, kv := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv.Key, kv.Value,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", kv.Key, err)
		}
	}
	return tx.Commit()
}

func parseInt64(v string, fallback int64) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
