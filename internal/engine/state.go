package engine

import (
	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/store"
)

// timerState is the phase machine. Methods take the current epoch
// milliseconds explicitly and never touch the clock or storage.
type timerState struct {
	phase       countdown.Phase
	isRunning   bool
	cycleCount  int
	endAtMs     *int64
	remainingMs int64
	settings    countdown.Settings
}

type completion struct {
	finished  countdown.Phase
	next      countdown.Phase
	longCycle bool
	settings  countdown.Settings
}

func freshState(settings countdown.Settings) timerState {
	return timerState{
		phase:       countdown.Focus,
		remainingMs: settings.Duration(countdown.Focus),
		settings:    settings,
	}
}

// restoreState rebuilds the machine from persisted runtime state. A phase
// whose end time passed while the app was closed is completed; a running
// phase without an end time is stopped at its full duration.
func restoreState(settings countdown.Settings, rt *store.RuntimeState, now int64) (timerState, *completion) {
	if rt == nil {
		return freshState(settings), nil
	}
	st := timerState{
		phase:       parsePhase(rt.Phase),
		isRunning:   rt.IsRunning,
		cycleCount:  max(rt.CycleCount, 0),
		endAtMs:     rt.EndAtMs,
		remainingMs: rt.RemainingMs,
		settings:    settings,
	}
	st.remainingMs = countdown.SanitizeMs(st.remainingMs, st.duration())

	var done *completion
	if st.isRunning {
		if st.endAtMs == nil {
			st.isRunning = false
			st.remainingMs = st.duration()
		} else if *st.endAtMs <= now {
			c := st.completePhase()
			done = &c
		} else {
			st.remainingMs = *st.endAtMs - now
		}
	} else {
		st.endAtMs = nil
	}
	return st, done
}

func parsePhase(s string) countdown.Phase {
	switch p := countdown.Phase(s); p {
	case countdown.Focus, countdown.ShortBreak, countdown.LongBreak:
		return p
	}
	return countdown.Focus
}

func (t *timerState) duration() int64 {
	return t.settings.Duration(t.phase)
}

func (t *timerState) currentRemaining(now int64) int64 {
	if t.isRunning && t.endAtMs != nil {
		return max(*t.endAtMs-now, 0)
	}
	return max(t.remainingMs, 0)
}

func (t *timerState) snapshot(now int64) countdown.Snapshot {
	var end *int64
	if t.isRunning && t.endAtMs != nil {
		v := *t.endAtMs
		end = &v
	}
	return countdown.Snapshot{
		Phase:       t.phase,
		IsRunning:   t.isRunning,
		CycleCount:  t.cycleCount,
		EndAtMs:     end,
		RemainingMs: t.currentRemaining(now),
		Settings:    t.settings,
	}
}

func (t *timerState) runtime(now int64) store.RuntimeState {
	snap := t.snapshot(now)
	return store.RuntimeState{
		Phase:       string(snap.Phase),
		IsRunning:   snap.IsRunning,
		CycleCount:  snap.CycleCount,
		EndAtMs:     snap.EndAtMs,
		RemainingMs: snap.RemainingMs,
	}
}

// run starts or resumes the current phase. It reports false if the timer
// was already running.
func (t *timerState) run(now int64) bool {
	if t.isRunning {
		return false
	}
	if t.remainingMs <= 0 {
		t.remainingMs = t.duration()
	}
	end := now + t.remainingMs
	t.endAtMs = &end
	t.isRunning = true
	return true
}

func (t *timerState) pause(now int64) bool {
	if !t.isRunning {
		return false
	}
	t.remainingMs = t.currentRemaining(now)
	t.isRunning = false
	t.endAtMs = nil
	return true
}

// abandon stops the phase and gives back its full duration.
func (t *timerState) abandon() {
	t.isRunning = false
	t.endAtMs = nil
	t.remainingMs = t.duration()
}

func (t *timerState) reset() {
	t.phase = countdown.Focus
	t.isRunning = false
	t.cycleCount = 0
	t.endAtMs = nil
	t.remainingMs = t.settings.FocusMs
}

// completePhase advances to the next phase. Every longBreakEvery-th focus
// phase is followed by a long break.
func (t *timerState) completePhase() completion {
	c := completion{finished: t.phase, settings: t.settings}

	switch t.phase {
	case countdown.Focus:
		t.cycleCount++
		if t.cycleCount%max(t.settings.LongBreakEvery, 1) == 0 {
			t.phase = countdown.LongBreak
			c.longCycle = true
		} else {
			t.phase = countdown.ShortBreak
		}
	default:
		t.phase = countdown.Focus
	}

	t.isRunning = false
	t.endAtMs = nil
	t.remainingMs = t.duration()
	c.next = t.phase
	return c
}

func (t *timerState) applySettings(s countdown.Settings, now int64) {
	t.settings = s
	if t.isRunning {
		remaining := t.currentRemaining(now)
		end := now + remaining
		t.endAtMs = &end
		t.remainingMs = remaining
		return
	}
	t.remainingMs = t.duration()
	t.endAtMs = nil
}
