package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

// settingsForm holds the form values. The model is copied on every update,
// so huh binds to these through a pointer.
type settingsForm struct {
	focusMin      string
	shortBreakMin string
	longBreakMin  string
	longEvery     string
	notify        bool
	sound         bool
	locale        string

	dailyFocus   string
	dailyLong    string
	weeklyFocus  string
	weeklyLong   string
	monthlyFocus string
	monthlyLong  string
}

type settingsModel struct {
	ctx     context.Context
	backend backend.Backend
	width   int
	height  int

	settings countdown.Settings
	goals    trends.GoalSettings

	formActive bool
	form       *huh.Form
	values     *settingsForm
}

func newSettingsModel(ctx context.Context, b backend.Backend) settingsModel {
	return settingsModel{
		ctx:      ctx,
		backend:  b,
		settings: countdown.DefaultSettings(),
		goals:    trends.DefaultGoals(),
		values:   &settingsForm{},
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Enter) {
		return s.showForm()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	v := s.values
	*v = settingsForm{
		focusMin:      msToMin(s.settings.FocusMs),
		shortBreakMin: msToMin(s.settings.ShortBreakMs),
		longBreakMin:  msToMin(s.settings.LongBreakMs),
		longEvery:     strconv.Itoa(s.settings.LongBreakEvery),
		notify:        s.settings.NotifyEnabled,
		sound:         s.settings.SoundEnabled,
		locale:        string(locale.Normalize(s.settings.Locale)),
		dailyFocus:    strconv.Itoa(s.goals.Daily.FocusTarget),
		dailyLong:     strconv.Itoa(s.goals.Daily.LongCycleTarget),
		weeklyFocus:   strconv.Itoa(s.goals.Weekly.FocusTarget),
		weeklyLong:    strconv.Itoa(s.goals.Weekly.LongCycleTarget),
		monthlyFocus:  strconv.Itoa(s.goals.Monthly.FocusTarget),
		monthlyLong:   strconv.Itoa(s.goals.Monthly.LongCycleTarget),
	}

	localeOpts := make([]huh.Option[string], 0, len(locale.Supported))
	for _, c := range locale.Supported {
		localeOpts = append(localeOpts, huh.NewOption(string(c), string(c)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(&v.focusMin).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(&v.shortBreakMin).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(&v.longBreakMin).Validate(positiveInt),
			huh.NewInput().Title("Focus sessions before long break").Value(&v.longEvery).Validate(positiveInt),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Notify on phase change").Value(&v.notify),
			huh.NewConfirm().Title("Play sound").Value(&v.sound),
			huh.NewSelect[string]().Title("Locale").Options(localeOpts...).Value(&v.locale),
		).Title("General"),
		huh.NewGroup(
			huh.NewInput().Title("Daily focus target").Value(&v.dailyFocus).Validate(positiveInt),
			huh.NewInput().Title("Daily long-cycle target").Value(&v.dailyLong).Validate(positiveInt),
			huh.NewInput().Title("Weekly focus target").Value(&v.weeklyFocus).Validate(positiveInt),
			huh.NewInput().Title("Weekly long-cycle target").Value(&v.weeklyLong).Validate(positiveInt),
			huh.NewInput().Title("Monthly focus target").Value(&v.monthlyFocus).Validate(positiveInt),
			huh.NewInput().Title("Monthly long-cycle target").Value(&v.monthlyLong).Validate(positiveInt),
		).Title("Goals"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s, s.save()
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

// save pushes the edited settings and goals to the backend. The replies
// come back as snapshot and insights messages.
func (s settingsModel) save() tea.Cmd {
	v := *s.values
	next := s.settings
	next.FocusMs = minToMs(v.focusMin, next.FocusMs)
	next.ShortBreakMs = minToMs(v.shortBreakMin, next.ShortBreakMs)
	next.LongBreakMs = minToMs(v.longBreakMin, next.LongBreakMs)
	next.LongBreakEvery = atoiOr(v.longEvery, next.LongBreakEvery)
	next.NotifyEnabled = v.notify
	next.SoundEnabled = v.sound
	next.Locale = v.locale

	goals := trends.GoalSettings{
		Daily:   trends.GoalPair{FocusTarget: atoiOr(v.dailyFocus, 0), LongCycleTarget: atoiOr(v.dailyLong, 0)},
		Weekly:  trends.GoalPair{FocusTarget: atoiOr(v.weeklyFocus, 0), LongCycleTarget: atoiOr(v.weeklyLong, 0)},
		Monthly: trends.GoalPair{FocusTarget: atoiOr(v.monthlyFocus, 0), LongCycleTarget: atoiOr(v.monthlyLong, 0)},
	}

	ctx, b := s.ctx, s.backend
	return tea.Batch(
		func() tea.Msg {
			snap, err := b.UpdateSettings(ctx, next)
			if err != nil {
				return errStatus("save settings", err)
			}
			return snapshotMsg{snap: snap}
		},
		func() tea.Msg {
			ins, err := b.UpdateGoals(ctx, goals)
			if err != nil {
				return errStatus("save goals", err)
			}
			return insightsMsg{insights: ins}
		},
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	add := func(label, value string) {
		l := lipgloss.NewStyle().Width(28).Render(label)
		rows = append(rows, fmt.Sprintf("  %s %s", l, valueStyle.Render(value)))
	}
	add("Focus", formatMinutes(s.settings.FocusMs))
	add("Short break", formatMinutes(s.settings.ShortBreakMs))
	add("Long break", formatMinutes(s.settings.LongBreakMs))
	add("Long break every", fmt.Sprintf("%d focus sessions", s.settings.LongBreakEvery))
	add("Notifications", onOff(s.settings.NotifyEnabled))
	add("Sound", onOff(s.settings.SoundEnabled))
	add("Locale", s.settings.Locale)
	rows = append(rows, "")
	add("Daily goal", formatGoal(s.goals.Daily))
	add("Weekly goal", formatGoal(s.goals.Weekly))
	add("Monthly goal", formatGoal(s.goals.Monthly))
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatGoal(g trends.GoalPair) string {
	return fmt.Sprintf("%d focus / %d long cycles", g.FocusTarget, g.LongCycleTarget)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func msToMin(ms int64) string {
	return strconv.FormatInt(ms/60_000, 10)
}

func minToMs(s string, fallback int64) int64 {
	mins, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return mins * 60_000
}
