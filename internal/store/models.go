package store

import "time"

// DailyMetrics is the completion count recorded for one UTC day.
type DailyMetrics struct {
	Day                string // YYYY-MM-DD
	FocusCompleted     int
	LongCycleCompleted int
	UpdatedAt          time.Time
}

// RuntimeState is the persisted timer position, restored on startup.
type RuntimeState struct {
	Phase       string
	IsRunning   bool
	CycleCount  int
	EndAtMs     *int64
	RemainingMs int64
	UpdatedAt   time.Time
}

type Setting struct {
	Key   string
	Value string
}
