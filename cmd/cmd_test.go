package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomotrend/internal/calendar"
	"github.com/sadopc/pomotrend/internal/config"
	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/store"
)

// setupCmdTest writes a config pointing at a fresh database and log file in
// a temp dir and resets every flag a previous test may have set.
func setupCmdTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	conf := strings.Join([]string{
		"database:",
		"  path: " + filepath.Join(dir, "pomotrend.db"),
		"logging:",
		"  level: debug",
		"  format: text",
		"  file: " + filepath.Join(dir, "logs", "pomotrend.log"),
		"export:",
		"  dir: " + dir,
		"",
	}, "\n")
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(conf), 0o644))
	configPath = configFile

	statusCmd.Flags().Set("json", "false")
	trendsCmd.Flags().Set("json", "false")
	for _, c := range []*cobra.Command{trendsCmd, exportCmd} {
		c.Flags().Set("dimension", "")
		c.Flags().Set("locale", "")
	}
	exportCmd.Flags().Set("format", "csv")
	exportCmd.Flags().Set("output", "")

	t.Cleanup(closeLog)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func seedFocus(t *testing.T, dir string, days ...string) {
	t.Helper()
	st, err := store.New(filepath.Join(dir, "pomotrend.db"))
	require.NoError(t, err)
	defer st.Close()
	for _, d := range days {
		require.NoError(t, st.RecordFocusCompletion(d, false))
	}
}

// ============================================================
// status / timer
// ============================================================

func TestStatus_Fresh(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "FOCUS")
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "Next action:    start")
}

func TestTimer_StartPersists(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "timer", "start")
	require.NoError(t, err)
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "Ends at:")

	out, err = execute(t, "status", "--json")
	require.NoError(t, err)
	var snap countdown.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.True(t, snap.IsRunning)
	require.NotNil(t, snap.EndAtMs)
	assert.Equal(t, countdown.Focus, snap.Phase)
}

func TestTimer_PauseAndAbandon(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "timer", "start")
	require.NoError(t, err)
	out, err := execute(t, "timer", "pause")
	require.NoError(t, err)
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "Next action:    resume")

	out, err = execute(t, "timer", "abandon")
	require.NoError(t, err)
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "ready")
}

func TestTimer_Skip(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "timer", "skip")
	require.NoError(t, err)
	assert.Contains(t, out, "SHORT BREAK")
	assert.Contains(t, out, "05:00")
}

func TestPrintStatus_Running(t *testing.T) {
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	end := now.UnixMilli() + 90_000
	snap := countdown.Snapshot{
		Phase:       countdown.LongBreak,
		IsRunning:   true,
		CycleCount:  4,
		EndAtMs:     &end,
		RemainingMs: 90_000,
		Settings:    countdown.DefaultSettings(),
	}

	var buf bytes.Buffer
	printStatus(&buf, snap, now)
	out := buf.String()
	assert.Contains(t, out, "LONG BREAK  01:30  running")
	assert.Contains(t, out, "Focus sessions: 4 (long break every 4)")
	assert.Contains(t, out, "Next action:    abandon")
}

// ============================================================
// trends
// ============================================================

func TestTrends_Weekly(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "trends")
	require.NoError(t, err)
	assert.Contains(t, out, "Weekly focus trend (weeks start sunday)")
	assert.Contains(t, out, "PERIOD")
	assert.Contains(t, out, "Goals")
	assert.Contains(t, out, "0/8")
}

func TestTrends_DailyWithData(t *testing.T) {
	dir := setupCmdTest(t)
	today := calendar.FromTime(time.Now())
	seedFocus(t, dir, today, today, today)

	out, err := execute(t, "trends", "-d", "daily")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily focus trend")
	assert.NotContains(t, out, "weeks start")
	assert.Contains(t, out, today[5:])
	assert.Contains(t, out, strings.Repeat("█", barWidth))
	assert.Contains(t, out, "3/8")
}

func TestTrends_JSONMondayStart(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "trends", "--json", "-l", "zh-CN")
	require.NoError(t, err)

	var got struct {
		Dimension string `json:"dimension"`
		WeekStart string `json:"weekStart"`
		Points    []struct {
			Key string `json:"key"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "weekly", got.Dimension)
	assert.Equal(t, "monday", got.WeekStart)
	require.NotEmpty(t, got.Points)
	for _, p := range got.Points {
		d, err := calendar.Parse(p.Key)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, d.Time().Weekday(), p.Key)
	}
}

func TestTrends_UnknownDimension(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "trends", "-d", "yearly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart dimension")
}

// ============================================================
// export
// ============================================================

func TestExport_DefaultCSV(t *testing.T) {
	dir := setupCmdTest(t)

	out, err := execute(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to ")

	want := filepath.Join(dir, "pomotrend-weekly-"+time.Now().Format("2006-01-02")+".csv")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Key,Label,Focus"))
}

func TestExport_JSONToFile(t *testing.T) {
	dir := setupCmdTest(t)
	path := filepath.Join(dir, "monthly.json")

	_, err := execute(t, "export", "-f", "json", "-d", "monthly", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "monthly", got["dimension"])
}

func TestExport_Heatmap(t *testing.T) {
	dir := setupCmdTest(t)
	path := filepath.Join(dir, "days.csv")

	_, err := execute(t, "export", "-f", "heatmap", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 372, "header plus 371 zero-filled days")
}

func TestExport_UnknownFormat(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "export", "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

// ============================================================
// config / logging
// ============================================================

func TestInvalidConfig(t *testing.T) {
	dir := setupCmdTest(t)
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("logging:\n  level: loud\n"), 0o644))
	configPath = bad

	_, err := execute(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestSetupLogger(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nested", "app.log")

	l, f, err := setupLogger(config.LoggingConfig{Level: "info", Format: "json", File: file})
	require.NoError(t, err)
	l.Info().Str("k", "v").Msg("hello")
	l.Debug().Msg("hidden")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupLogger_Text(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	l, f, err := setupLogger(config.LoggingConfig{Level: "debug", Format: "text", File: file})
	require.NoError(t, err)
	l.Debug().Msg("shown")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DBG")
	assert.Contains(t, string(data), "shown")
}
