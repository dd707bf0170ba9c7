// Package trends turns per-day activity records into the bucketed series
// drawn by the insights chart.
package trends

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sadopc/pomotrend/internal/calendar"
	"github.com/sadopc/pomotrend/internal/locale"
)

// Display windows, in buckets.
const (
	DailyWindow   = 30
	WeeklyWindow  = 12
	MonthlyWindow = 12
)

const weeklyLabelPrefix = "W "

var ErrUnknownDimension = errors.New("unknown chart dimension")

// Dimension selects the aggregation period of a series.
type Dimension string

const (
	Daily   Dimension = "daily"
	Weekly  Dimension = "weekly"
	Monthly Dimension = "monthly"
)

// Dimensions lists every Dimension in display order.
var Dimensions = []Dimension{Daily, Weekly, Monthly}

// ParseDimension accepts the dimension names case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Daily, Weekly, Monthly:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Window returns the number of buckets kept for d.
func (d Dimension) Window() int {
	switch d {
	case Daily:
		return DailyWindow
	case Weekly:
		return WeeklyWindow
	case Monthly:
		return MonthlyWindow
	}
	return 0
}

// HeatmapDay is the activity recorded for one UTC calendar day.
type HeatmapDay struct {
	Date               string `json:"date"`
	FocusCompleted     int    `json:"focusCompleted"`
	LongCycleCompleted int    `json:"longCycleCompleted"`
}

// TrendPoint is one emitted bucket of a series.
type TrendPoint struct {
	Key                string `json:"key"`
	Label              string `json:"label"`
	FocusCompleted     int    `json:"focusCompleted"`
	LongCycleCompleted int    `json:"longCycleCompleted"`
}

type bucket struct {
	key                string
	focusCompleted     int
	longCycleCompleted int
}

func (b *bucket) add(day HeatmapDay) {
	b.focusCompleted += day.FocusCompleted
	b.longCycleCompleted += day.LongCycleCompleted
}

// BuildSeries aggregates records along dim and returns the most recent
// window of buckets in ascending key order. A malformed day key anywhere in
// records fails the whole call.
func BuildSeries(records []HeatmapDay, dim Dimension, conv locale.WeekConvention) ([]TrendPoint, error) {
	var keyOf func(string) (string, error)
	switch dim {
	case Daily:
	case Weekly:
		mondayStart := conv == locale.MondayStart
		keyOf = func(k string) (string, error) { return calendar.WeekStart(k, mondayStart) }
	case Monthly:
		keyOf = calendar.MonthKey
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}

	sorted, err := sortedRecords(records)
	if err != nil {
		return nil, err
	}

	var buckets []*bucket
	if dim == Daily {
		buckets = make([]*bucket, 0, len(sorted))
		for _, day := range sorted {
			b := &bucket{key: day.Date}
			b.add(day)
			buckets = append(buckets, b)
		}
	} else {
		byKey := make(map[string]*bucket)
		for _, day := range sorted {
			key, err := keyOf(day.Date)
			if err != nil {
				return nil, fmt.Errorf("bucket %s: %w", dim, err)
			}
			b, ok := byKey[key]
			if !ok {
				b = &bucket{key: key}
				byKey[key] = b
			}
			b.add(day)
		}
		buckets = make([]*bucket, 0, len(byKey))
		for _, b := range byKey {
			buckets = append(buckets, b)
		}
		slices.SortFunc(buckets, func(a, b *bucket) int {
			return strings.Compare(a.key, b.key)
		})
	}

	if w := dim.Window(); len(buckets) > w {
		buckets = buckets[len(buckets)-w:]
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, TrendPoint{
			Key:                b.key,
			Label:              Label(b.key, dim),
			FocusCompleted:     b.focusCompleted,
			LongCycleCompleted: b.longCycleCompleted,
		})
	}
	return points, nil
}

// sortedRecords validates every key and returns a copy of records stably
// sorted by day key.
func sortedRecords(records []HeatmapDay) ([]HeatmapDay, error) {
	for _, day := range records {
		if _, err := calendar.Parse(day.Date); err != nil {
			return nil, fmt.Errorf("heatmap record: %w", err)
		}
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b HeatmapDay) int {
		return strings.Compare(a.Date, b.Date)
	})
	return sorted, nil
}

// Label returns the axis label for a bucket key.
func Label(key string, dim Dimension) string {
	switch dim {
	case Daily:
		if len(key) >= 10 {
			return key[5:]
		}
	case Weekly:
		if len(key) >= 10 {
			return weeklyLabelPrefix + key[5:]
		}
	}
	return key
}

// Intensity buckets a day's focus count into heatmap levels 0 through 4.
func Intensity(focusCompleted int) int {
	switch {
	case focusCompleted <= 0:
		return 0
	case focusCompleted <= 2:
		return 1
	case focusCompleted <= 4:
		return 2
	case focusCompleted <= 7:
		return 3
	}
	return 4
}
