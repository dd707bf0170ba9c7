package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/countdown"
	"github.com/sadopc/pomotrend/internal/export"
	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

// Options configure the client.
type Options struct {
	RefreshInterval time.Duration
	Dimension       trends.Dimension
	// Locale, when set, overrides the locale stored in the timer settings.
	Locale    string
	ExportDir string
	Logger    zerolog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	ctx     context.Context
	backend backend.Backend
	sub     *subscription
	opts    Options
	log     zerolog.Logger

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	pomodoro pomodoroModel
	insights insightsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(ctx context.Context, b backend.Backend, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	a := App{
		ctx:        ctx,
		backend:    b,
		opts:       opts,
		log:        opts.Logger.With().Str("component", "tui").Logger(),
		activeView: viewTimer,
		pomodoro:   newPomodoroModel(ctx, b, opts),
		insights:   newInsightsModel(opts.Dimension),
		settings:   newSettingsModel(ctx, b),
		help:       h,
	}
	a.pomodoro.countdown.active = true
	return a
}

// Run subscribes to b, runs the program until the user quits or ctx is
// cancelled, and releases the subscription.
func Run(ctx context.Context, b backend.Backend, opts Options) error {
	sub := subscribe(b)
	defer sub.close()

	app := NewApp(ctx, b, opts)
	app.sub = sub

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.load()}
	if a.sub != nil {
		cmds = append(cmds, a.sub.listen())
	}
	return tea.Batch(cmds...)
}

// load fetches the timer state and insights in parallel.
func (a App) load() tea.Cmd {
	ctx, b := a.ctx, a.backend
	return func() tea.Msg {
		var msg loadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			msg.snap, err = b.GetState(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.insights, err = b.GetInsights(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return errStatus("load", err)
		}
		return msg
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.insights.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case subEvent:
		model, cmd := a.Update(msg.msg)
		if a.sub == nil {
			return model, cmd
		}
		return model, tea.Batch(cmd, a.sub.listen())

	case loadedMsg:
		a.insights = a.insights.setInsights(msg.insights)
		a.settings.goals = msg.insights.Goals
		return a.applySnapshot(msg.snap)

	case snapshotMsg:
		return a.applySnapshot(msg.snap)

	case insightsMsg:
		a.insights = a.insights.setInsights(msg.insights)
		a.settings.goals = msg.insights.Goals
		return a, nil

	case phaseCompletedMsg:
		a.log.Info().
			Str("finished", string(msg.event.FinishedPhase)).
			Str("next", string(msg.event.NextPhase)).
			Msg("phase completed")
		text := fmt.Sprintf("%s complete, next: %s", msg.event.FinishedPhase.Label(), msg.event.NextPhase.Label())
		if msg.event.SoundEnabled {
			text += " \a"
		}
		a.status, a.statusError = text, false
		return a, nil

	case refreshMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, cmd

	case statusMsg:
		if msg.isError {
			a.log.Error().Msg(msg.text)
		}
		a.status, a.statusError = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.statusError = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child form captures all input.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewInsights)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}
	}

	return a.updateActiveView(msg)
}

// applySnapshot makes s the displayed snapshot and follows its locale.
func (a App) applySnapshot(s countdown.Snapshot) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.pomodoro.countdown, cmd = a.pomodoro.countdown.setSnapshot(s)
	a.settings.settings = s.Settings
	a.insights = a.insights.setConvention(a.convention(s.Settings))
	return a, cmd
}

func (a App) convention(s countdown.Settings) locale.WeekConvention {
	tag := s.Locale
	if a.opts.Locale != "" {
		tag = a.opts.Locale
	}
	return locale.ConventionFor(locale.Normalize(tag))
}

// switchView activates v. The countdown only ticks while the timer view is
// showing.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	var cmd tea.Cmd
	a.pomodoro.countdown, cmd = a.pomodoro.countdown.setActive(v == viewTimer)
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewInsights:
		a.insights, cmd = a.insights.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.pomodoro.view()
	case viewInsights:
		content = a.insights.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomotrend")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator while another view is showing.
	timerInfo := ""
	if c := a.pomodoro.countdown; c.loaded && a.activeView != viewTimer {
		remaining := countdown.Format(c.state.DisplayedRemainingMs)
		if c.snap.IsRunning {
			timerInfo = successStyle.Render(" ● " + remaining)
		} else if !c.state.IsFreshPhase {
			timerInfo = warningStyle.Render(" ⏸ " + remaining)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON", "Heatmap CSV"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render(fmt.Sprintf("Export %s series", a.insights.dim))
	rows := []string{title, ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the displayed series, or the heatmap, to the export
// directory.
func (a App) doExport(format int) tea.Cmd {
	if !a.insights.loaded {
		return func() tea.Msg {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
	}
	report := export.Report{
		Dimension:  a.insights.dim,
		Convention: a.insights.conv,
		FocusMs:    a.settings.settings.FocusMs,
		Points:     a.insights.series,
		Heatmap:    a.insights.insights.Heatmap,
	}
	dir := a.opts.ExportDir
	dateStr := time.Now().Format("2006-01-02")

	return func() tea.Msg {
		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(dir, fmt.Sprintf("pomotrend-%s-%s.csv", report.Dimension, dateStr))
			err = export.ToCSV(report.Points, report.FocusMs, path)
		case 1:
			path = filepath.Join(dir, fmt.Sprintf("pomotrend-%s-%s.json", report.Dimension, dateStr))
			err = export.ToJSON(report, path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("pomotrend-heatmap-%s.csv", dateStr))
			err = export.HeatmapToCSV(report.Heatmap, path)
		}
		if err != nil {
			return errStatus("export", err)
		}
		return exportDoneMsg{path: path}
	}
}
