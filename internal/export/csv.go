package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/pomotrend/internal/trends"
)

// ToCSV writes one row per trend bucket. focusMs is the focus phase length
// used to estimate focused time.
func ToCSV(points []trends.TrendPoint, focusMs int64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Key", "Label", "Focus", "Long Cycles", "Focus Time (s)", "Focus Time"}); err != nil {
		return err
	}

	for _, p := range points {
		secs := focusSeconds(p.FocusCompleted, focusMs)
		row := []string{
			p.Key,
			p.Label,
			fmt.Sprintf("%d", p.FocusCompleted),
			fmt.Sprintf("%d", p.LongCycleCompleted),
			fmt.Sprintf("%d", secs),
			formatDuration(secs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// HeatmapToCSV writes one row per day with its heatmap level.
func HeatmapToCSV(days []trends.HeatmapDay, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Focus", "Long Cycles", "Level"}); err != nil {
		return err
	}
	for _, d := range days {
		row := []string{
			d.Date,
			fmt.Sprintf("%d", d.FocusCompleted),
			fmt.Sprintf("%d", d.LongCycleCompleted),
			fmt.Sprintf("%d", trends.Intensity(d.FocusCompleted)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func focusSeconds(count int, focusMs int64) int64 {
	return int64(count) * focusMs / 1000
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
