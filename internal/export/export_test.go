package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

func samplePoints() []trends.TrendPoint {
	return []trends.TrendPoint{
		{Key: "2026-02-01", Label: "W 02-01", FocusCompleted: 6, LongCycleCompleted: 1},
		{Key: "2026-02-08", Label: "W 02-08", FocusCompleted: 0, LongCycleCompleted: 0},
		{Key: "2026-02-15", Label: "W 02-15", FocusCompleted: 3, LongCycleCompleted: 2},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(samplePoints(), 25*60_000, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"Key", "Label", "Focus", "Long Cycles", "Focus Time (s)", "Focus Time"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2026-02-01" || row[1] != "W 02-01" {
		t.Fatalf("unexpected key/label: %v", row[:2])
	}
	if row[2] != "6" || row[3] != "1" {
		t.Fatalf("unexpected counts: %v", row[2:4])
	}
	// 6 × 25 minutes
	if row[4] != "9000" || row[5] != "02:30:00" {
		t.Fatalf("unexpected focus time: %v", row[4:])
	}

	if records[2][5] != "00:00:00" {
		t.Fatalf("empty bucket focus time = %q", records[2][5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, 25*60_000, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, 0, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestHeatmapToCSV(t *testing.T) {
	days := []trends.HeatmapDay{
		{Date: "2026-02-09", FocusCompleted: 0},
		{Date: "2026-02-10", FocusCompleted: 3, LongCycleCompleted: 1},
		{Date: "2026-02-11", FocusCompleted: 9},
	}
	path := filepath.Join(t.TempDir(), "heatmap.csv")

	if err := HeatmapToCSV(days, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	levels := []string{records[1][3], records[2][3], records[3][3]}
	if strings.Join(levels, ",") != "0,2,4" {
		t.Fatalf("unexpected levels: %v", levels)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	r := Report{
		Dimension:  trends.Weekly,
		Convention: locale.MondayStart,
		FocusMs:    25 * 60_000,
		Points:     samplePoints(),
		Heatmap:    []trends.HeatmapDay{{Date: "2026-02-10", FocusCompleted: 5}},
	}

	if err := ToJSON(r, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Points) != 3 {
		t.Fatalf("count = %d, points = %d, want 3", result.Count, len(result.Points))
	}
	if result.Dimension != "weekly" || result.WeekStart != "monday" {
		t.Fatalf("unexpected meta: %s / %s", result.Dimension, result.WeekStart)
	}
	if result.Totals.Focus != 9 || result.Totals.LongCycles != 3 {
		t.Fatalf("unexpected totals: %+v", result.Totals)
	}
	if result.Points[0].FocusDuration != "02:30:00" {
		t.Fatalf("FocusDuration = %q", result.Points[0].FocusDuration)
	}
	if len(result.Heatmap) != 1 || result.Heatmap[0].Level != 3 {
		t.Fatalf("unexpected heatmap: %+v", result.Heatmap)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(Report{Dimension: trends.Daily}, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Points != nil {
		t.Fatal("points should be nil/null for empty export")
	}
	if strings.Contains(string(data), `"heatmap"`) {
		t.Fatal("heatmap should be omitted when empty")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(Report{}, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(Report{}, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{1500, "00:25:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
