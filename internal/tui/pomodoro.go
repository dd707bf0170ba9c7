package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/countdown"
)

var actionLabels = map[countdown.Action]string{
	countdown.Start:   "start",
	countdown.Resume:  "resume",
	countdown.Abandon: "abandon",
}

// pomodoroModel is the timer view: the live countdown of the current phase
// and the controls that drive the backend.
type pomodoroModel struct {
	ctx     context.Context
	backend backend.Backend
	width   int
	height  int

	countdown countdownModel
	bar       progress.Model
}

func newPomodoroModel(ctx context.Context, b backend.Backend, opts Options) pomodoroModel {
	return pomodoroModel{
		ctx:       ctx,
		backend:   b,
		countdown: newCountdownModel(opts.RefreshInterval),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(min(w-16, 60), 10)
}

func (p pomodoroModel) snapshot() countdown.Snapshot {
	return p.countdown.snap
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		var cmd tea.Cmd
		p.countdown, cmd = p.countdown.update(msg)
		return p, cmd

	case tea.KeyMsg:
		if !p.countdown.loaded {
			return p, nil
		}
		switch {
		case key.Matches(msg, keys.Primary):
			return p, p.primary()
		case key.Matches(msg, keys.Pause):
			if p.countdown.snap.IsRunning {
				return p, p.call("pause", p.backend.Pause)
			}
		case key.Matches(msg, keys.Skip):
			return p, p.call("skip", p.backend.Skip)
		case key.Matches(msg, keys.Reset):
			return p, p.call("reset", p.backend.Reset)
		}
	}
	return p, nil
}

// primary runs the action offered for the displayed snapshot.
func (p pomodoroModel) primary() tea.Cmd {
	switch p.countdown.state.PrimaryAction {
	case countdown.Abandon:
		return p.call("abandon", p.backend.Abandon)
	case countdown.Resume:
		return p.call("resume", p.backend.Resume)
	}
	return p.call("start", p.backend.Start)
}

func (p pomodoroModel) call(op string, fn func(context.Context) (countdown.Snapshot, error)) tea.Cmd {
	ctx := p.ctx
	return func() tea.Msg {
		snap, err := fn(ctx)
		if err != nil {
			return errStatus(op, err)
		}
		return snapshotMsg{snap: snap}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	title := titleStyle.Render("Pomodoro")

	if !p.countdown.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Center, title, "", mutedStyle.Render("Connecting...")),
		)
	}

	snap := p.countdown.snap
	st := p.countdown.state

	style := phaseStyle(snap.Phase)
	timeDisplay := style.Width(w - 6).Align(lipgloss.Center).
		Render(countdown.Format(st.DisplayedRemainingMs))

	phaseLabel := style.Render(snap.Phase.Label())
	switch {
	case snap.IsRunning:
	case st.IsFreshPhase:
		phaseLabel += mutedStyle.Render("  ready")
	default:
		phaseLabel += warningStyle.Render("  paused")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		p.bar.ViewAs(p.countdown.progress()),
		"",
		p.renderCycle(),
	)

	controls := []string{"s: " + actionLabels[st.PrimaryAction]}
	if snap.IsRunning {
		controls = append(controls, "space: pause")
	}
	controls = append(controls, "n: skip", "r: reset")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", mutedStyle.Render(strings.Join(controls, "  "))),
	)
}

// renderCycle draws one dot per focus phase of the current long-break cycle.
func (p pomodoroModel) renderCycle() string {
	snap := p.countdown.snap
	every := max(snap.Settings.LongBreakEvery, 1)
	done := snap.CycleCount % every
	if snap.Phase == countdown.LongBreak && snap.CycleCount > 0 && done == 0 {
		done = every
	}

	var parts []string
	for i := range every {
		switch {
		case i < done:
			parts = append(parts, cycleDoneStyle.Render("●"))
		case i == done && snap.Phase == countdown.Focus:
			parts = append(parts, cycleCurrentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d  total %d", done, every, snap.CycleCount))
	return strings.Join(parts, " ") + counter
}
