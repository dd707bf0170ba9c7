package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomotrend/internal/countdown"
)

// refreshMsg asks the countdown armed with tag to resample.
type refreshMsg struct {
	tag int
	at  time.Time
}

// countdownModel keeps the displayed remaining time in step with the last
// snapshot. While the snapshot is running and the view is active a tick
// loop resamples it every interval. Every (re)arm bumps tag, so at most one
// loop is ever live and ticks from an older loop are dropped.
type countdownModel struct {
	snap     countdown.Snapshot
	loaded   bool
	state    countdown.State
	active   bool
	tag      int
	interval time.Duration
	now      func() time.Time
}

func newCountdownModel(interval time.Duration) countdownModel {
	if interval <= 0 {
		interval = countdown.RefreshInterval
	}
	return countdownModel{interval: interval, now: time.Now}
}

func (c countdownModel) ticking() bool {
	return c.active && c.loaded && c.snap.IsRunning
}

func (c *countdownModel) arm() tea.Cmd {
	c.tag++
	tag := c.tag
	return tea.Tick(c.interval, func(t time.Time) tea.Msg {
		return refreshMsg{tag: tag, at: t}
	})
}

// setSnapshot replaces the displayed snapshot. The last one to arrive wins.
func (c countdownModel) setSnapshot(s countdown.Snapshot) (countdownModel, tea.Cmd) {
	c.snap = s
	c.loaded = true
	c.state = countdown.Derive(s, c.now())
	if c.ticking() {
		return c, c.arm()
	}
	c.tag++
	return c, nil
}

func (c countdownModel) setActive(active bool) (countdownModel, tea.Cmd) {
	if c.active == active {
		return c, nil
	}
	c.active = active
	if c.ticking() {
		c.state = countdown.Derive(c.snap, c.now())
		return c, c.arm()
	}
	c.tag++
	return c, nil
}

func (c countdownModel) update(msg tea.Msg) (countdownModel, tea.Cmd) {
	m, ok := msg.(refreshMsg)
	if !ok || m.tag != c.tag || !c.ticking() {
		return c, nil
	}
	c.state = countdown.Derive(c.snap, m.at)
	return c, c.arm()
}

func (c countdownModel) progress() float64 {
	return c.state.Progress(c.snap)
}
