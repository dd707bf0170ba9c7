package store

import (
	"testing"

	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/trends"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pomotrend.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordFocusCompletion("2026-01-05", false); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not rerun
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	metrics, err := s2.ListDailyMetrics("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 day after reopen, got %d", len(metrics))
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Daily metrics
// ============================================================

func TestRecordFocusCompletion(t *testing.T) {
	s := newTestStore(t)

	s.RecordFocusCompletion("2026-02-09", false)
	s.RecordFocusCompletion("2026-02-09", true)
	s.RecordFocusCompletion("2026-02-09", false)

	metrics, err := s.ListDailyMetrics("2026-02-09", "2026-02-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 row, got %d", len(metrics))
	}
	m := metrics[0]
	if m.Day != "2026-02-09" || m.FocusCompleted != 3 || m.LongCycleCompleted != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if m.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}
}

func TestListDailyMetricsRange(t *testing.T) {
	s := newTestStore(t)
	for _, day := range []string{"2026-01-31", "2026-02-01", "2026-02-15", "2026-02-28", "2026-03-01"} {
		s.RecordFocusCompletion(day, false)
	}

	metrics, err := s.ListDailyMetrics("2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 3 {
		t.Fatalf("expected 3 days, got %d", len(metrics))
	}
	// Should be sorted by day
	if metrics[0].Day != "2026-02-01" || metrics[2].Day != "2026-02-28" {
		t.Fatalf("unexpected order: %s .. %s", metrics[0].Day, metrics[2].Day)
	}
}

func TestListDailyMetricsEmpty(t *testing.T) {
	s := newTestStore(t)
	metrics, err := s.ListDailyMetrics("2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if metrics != nil {
		t.Fatalf("expected nil slice, got %d items", len(metrics))
	}
}

func TestSumDailyMetrics(t *testing.T) {
	s := newTestStore(t)
	s.RecordFocusCompletion("2026-02-08", true)
	s.RecordFocusCompletion("2026-02-09", false)
	s.RecordFocusCompletion("2026-02-20", true)

	focus, long, err := s.SumDailyMetrics("2026-02-08", "2026-02-14")
	if err != nil {
		t.Fatal(err)
	}
	if focus != 2 || long != 1 {
		t.Fatalf("expected 2/1, got %d/%d", focus, long)
	}

	focus, long, err = s.SumDailyMetrics("2030-01-01", "2030-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if focus != 0 || long != 0 {
		t.Fatalf("expected 0/0 for empty range, got %d/%d", focus, long)
	}
}

func TestPruneDailyMetrics(t *testing.T) {
	s := newTestStore(t)
	s.RecordFocusCompletion("2024-12-31", false)
	s.RecordFocusCompletion("2025-01-01", false)
	s.RecordFocusCompletion("2025-06-01", false)

	n, err := s.PruneDailyMetrics("2025-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned row, got %d", n)
	}
	metrics, _ := s.ListDailyMetrics("0000-01-01", "9999-12-31")
	if len(metrics) != 2 || metrics[0].Day != "2025-01-01" {
		t.Fatalf("unexpected remaining rows: %+v", metrics)
	}
}

// ============================================================
// Goals
// ============================================================

func TestGoalsDefaults(t *testing.T) {
	s := newTestStore(t)
	goals, err := s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if goals != trends.DefaultGoals() {
		t.Fatalf("expected default goals, got %+v", goals)
	}
}

func TestSaveGoals(t *testing.T) {
	s := newTestStore(t)
	want := trends.GoalSettings{
		Daily:   trends.GoalPair{FocusTarget: 6, LongCycleTarget: 1},
		Weekly:  trends.GoalPair{FocusTarget: 30, LongCycleTarget: 7},
		Monthly: trends.GoalPair{FocusTarget: 120, LongCycleTarget: 30},
	}
	if err := s.SaveGoals(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// ============================================================
// Runtime state
// ============================================================

func TestLoadRuntimeNone(t *testing.T) {
	s := newTestStore(t)
	r, err := s.LoadRuntime()
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatal("expected nil runtime state on a fresh store")
	}
}

func TestSaveAndLoadRuntime(t *testing.T) {
	s := newTestStore(t)
	end := int64(1_750_000_000_000)

	err := s.SaveRuntime(RuntimeState{
		Phase:       "focus",
		IsRunning:   true,
		CycleCount:  3,
		EndAtMs:     &end,
		RemainingMs: 60_000,
	})
	if err != nil {
		t.Fatal(err)
	}

	r, err := s.LoadRuntime()
	if err != nil {
		t.Fatal(err)
	}
	if r.Phase != "focus" || !r.IsRunning || r.CycleCount != 3 || r.RemainingMs != 60_000 {
		t.Fatalf("unexpected runtime state: %+v", r)
	}
	if r.EndAtMs == nil || *r.EndAtMs != end {
		t.Fatalf("end time not persisted: %v", r.EndAtMs)
	}

	// Overwrite with a stopped state; the end time clears
	err = s.SaveRuntime(RuntimeState{Phase: "shortBreak", RemainingMs: 300_000, CycleCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	r, _ = s.LoadRuntime()
	if r.IsRunning || r.EndAtMs != nil || r.Phase != "shortBreak" {
		t.Fatalf("unexpected runtime state after overwrite: %+v", r)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"focus_ms":         "1500000",
		"short_break_ms":   "300000",
		"long_break_ms":    "900000",
		"long_break_every": "4",
		"notify_enabled":   "true",
		"sound_enabled":    "true",
		"locale":           "en-US",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 7 {
		t.Fatalf("expected 7 default settings, got %d", len(all))
	}
	// Should be sorted by key
	for i := 1; i < len(all); i++ {
		if all[i].Key < all[i-1].Key {
			t.Fatalf("settings not sorted: %s before %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestLoadTimerSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	ts, err := s.LoadTimerSettings()
	if err != nil {
		t.Fatal(err)
	}
	if ts != countdown.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", ts)
	}
}

func TestSaveTimerSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := countdown.Settings{
		FocusMs:        50 * 60_000,
		ShortBreakMs:   10 * 60_000,
		LongBreakMs:    30 * 60_000,
		LongBreakEvery: 3,
		NotifyEnabled:  false,
		SoundEnabled:   true,
		Locale:         "zh-CN",
	}
	if err := s.SaveTimerSettings(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTimerSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadTimerSettingsBadValueFallsBack(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("focus_ms", "twenty")
	s.SetSetting("sound_enabled", "maybe")

	ts, err := s.LoadTimerSettings()
	if err != nil {
		t.Fatal(err)
	}
	if ts.FocusMs != countdown.DefaultFocusMs {
		t.Fatalf("expected default focus, got %d", ts.FocusMs)
	}
	if !ts.SoundEnabled {
		t.Fatal("expected default sound_enabled=true")
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoals(); err == nil {
		t.Fatal("expected error after close")
	}
}
