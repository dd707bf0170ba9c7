package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

// Report is a trend series together with what produced it.
type Report struct {
	Dimension  trends.Dimension
	Convention locale.WeekConvention
	FocusMs    int64
	Points     []trends.TrendPoint
	Heatmap    []trends.HeatmapDay
}

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Dimension  string      `json:"dimension"`
	WeekStart  string      `json:"week_start"`
	Count      int         `json:"count"`
	Points     []jsonPoint `json:"points"`
	Heatmap    []jsonDay   `json:"heatmap,omitempty"`
	Totals     jsonTotals  `json:"totals"`
}

type jsonPoint struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	Focus         int    `json:"focus_completed"`
	LongCycles    int    `json:"long_cycle_completed"`
	FocusSec      int64  `json:"focus_seconds"`
	FocusDuration string `json:"focus_duration"`
}

type jsonDay struct {
	Date       string `json:"date"`
	Focus      int    `json:"focus_completed"`
	LongCycles int    `json:"long_cycle_completed"`
	Level      int    `json:"level"`
}

type jsonTotals struct {
	Focus      int `json:"focus_completed"`
	LongCycles int `json:"long_cycle_completed"`
}

func ToJSON(r Report, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Dimension:  string(r.Dimension),
		WeekStart:  r.Convention.String(),
		Count:      len(r.Points),
	}

	for _, p := range r.Points {
		secs := focusSeconds(p.FocusCompleted, r.FocusMs)
		export.Points = append(export.Points, jsonPoint{
			Key:           p.Key,
			Label:         p.Label,
			Focus:         p.FocusCompleted,
			LongCycles:    p.LongCycleCompleted,
			FocusSec:      secs,
			FocusDuration: formatDuration(secs),
		})
		export.Totals.Focus += p.FocusCompleted
		export.Totals.LongCycles += p.LongCycleCompleted
	}
	for _, d := range r.Heatmap {
		export.Heatmap = append(export.Heatmap, jsonDay{
			Date:       d.Date,
			Focus:      d.FocusCompleted,
			LongCycles: d.LongCycleCompleted,
			Level:      trends.Intensity(d.FocusCompleted),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
