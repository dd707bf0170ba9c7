package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/countdown"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewInsights
	viewSettings
)

var viewNames = []string{"Timer", "Insights", "Settings"}

// --- Messages ---

// snapshotMsg carries a timer snapshot, either from a command reply or a
// backend tick. The newest one always replaces the displayed state.
type snapshotMsg struct {
	snap countdown.Snapshot
}

type insightsMsg struct {
	insights backend.Insights
}

type phaseCompletedMsg struct {
	event backend.PhaseCompleted
}

// loadedMsg is the result of the initial parallel load.
type loadedMsg struct {
	snap     countdown.Snapshot
	insights backend.Insights
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errStatus(op string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", op, err), isError: true}
}

func formatMinutes(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return d.String()
}
