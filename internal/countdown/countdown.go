// Package countdown derives what the timer panel shows from the last timer
// snapshot received from the backend and the current wall-clock time.
package countdown

import (
	"fmt"
	"time"

	"github.com/sadopc/pomotrend/internal/locale"
)

// RefreshInterval is how often a running countdown is resampled.
const RefreshInterval = 200 * time.Millisecond

const (
	DefaultFocusMs        int64 = 25 * 60_000
	DefaultShortBreakMs   int64 = 5 * 60_000
	DefaultLongBreakMs    int64 = 15 * 60_000
	DefaultLongBreakEvery       = 4
)

// Phase is a segment of the pomodoro cycle.
type Phase string

const (
	Focus      Phase = "focus"
	ShortBreak Phase = "shortBreak"
	LongBreak  Phase = "longBreak"
)

var phaseLabels = map[Phase]string{
	Focus:      "FOCUS",
	ShortBreak: "SHORT BREAK",
	LongBreak:  "LONG BREAK",
}

// Label is the display name of p.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// Settings are the user-configurable timer options.
type Settings struct {
	FocusMs        int64  `json:"focusMs"`
	ShortBreakMs   int64  `json:"shortBreakMs"`
	LongBreakMs    int64  `json:"longBreakMs"`
	LongBreakEvery int    `json:"longBreakEvery"`
	NotifyEnabled  bool   `json:"notifyEnabled"`
	SoundEnabled   bool   `json:"soundEnabled"`
	Locale         string `json:"locale"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		FocusMs:        DefaultFocusMs,
		ShortBreakMs:   DefaultShortBreakMs,
		LongBreakMs:    DefaultLongBreakMs,
		LongBreakEvery: DefaultLongBreakEvery,
		NotifyEnabled:  true,
		SoundEnabled:   true,
		Locale:         string(locale.Default),
	}
}

// SanitizeSettings replaces sub-second durations and a non-positive cadence
// with defaults and normalizes the locale.
func SanitizeSettings(s Settings) Settings {
	s.FocusMs = SanitizeMs(s.FocusMs, DefaultFocusMs)
	s.ShortBreakMs = SanitizeMs(s.ShortBreakMs, DefaultShortBreakMs)
	s.LongBreakMs = SanitizeMs(s.LongBreakMs, DefaultLongBreakMs)
	if s.LongBreakEvery <= 0 {
		s.LongBreakEvery = DefaultLongBreakEvery
	}
	s.Locale = string(locale.Normalize(s.Locale))
	return s
}

// SanitizeMs returns fallback when v is shorter than one second.
func SanitizeMs(v, fallback int64) int64 {
	if v < 1000 {
		return fallback
	}
	return v
}

// Duration returns the configured length of phase p in milliseconds.
func (s Settings) Duration(p Phase) int64 {
	switch p {
	case ShortBreak:
		return s.ShortBreakMs
	case LongBreak:
		return s.LongBreakMs
	}
	return s.FocusMs
}

// Snapshot is the backend's view of the timer at one instant.
// EndAtMs is set exactly when IsRunning is true.
type Snapshot struct {
	Phase       Phase    `json:"phase"`
	IsRunning   bool     `json:"isRunning"`
	CycleCount  int      `json:"cycleCount"`
	EndAtMs     *int64   `json:"endAtMs"`
	RemainingMs int64    `json:"remainingMs"`
	Settings    Settings `json:"settings"`
}

// Action is the primary button offered for a snapshot.
type Action string

const (
	Start   Action = "start"
	Resume  Action = "resume"
	Abandon Action = "abandon"
)

// State is what the timer panel displays.
type State struct {
	DisplayedRemainingMs int64
	IsFreshPhase         bool
	PrimaryAction        Action
}

// PhaseDuration returns the configured duration of the snapshot's phase,
// never less than 1 so it is safe as a divisor.
func PhaseDuration(s Snapshot) int64 {
	return max(s.Settings.Duration(s.Phase), 1)
}

// Derive computes the displayed state of s at now.
func Derive(s Snapshot, now time.Time) State {
	st := State{
		IsFreshPhase:         s.RemainingMs >= PhaseDuration(s),
		DisplayedRemainingMs: max(s.RemainingMs, 0),
	}
	if s.IsRunning && s.EndAtMs != nil {
		st.DisplayedRemainingMs = max(*s.EndAtMs-now.UnixMilli(), 0)
	}
	switch {
	case s.IsRunning:
		st.PrimaryAction = Abandon
	case st.IsFreshPhase:
		st.PrimaryAction = Start
	default:
		st.PrimaryAction = Resume
	}
	return st
}

// Progress returns the consumed fraction of the phase in [0, 1].
func (st State) Progress(s Snapshot) float64 {
	total := PhaseDuration(s)
	p := 1 - float64(st.DisplayedRemainingMs)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Format renders ms as MM:SS, rounding up to the next whole second so the
// display reaches 00:00 only when no time is left.
func Format(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := (ms + 999) / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
