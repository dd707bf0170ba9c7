package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomotrend/internal/countdown"
)

var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorMuted     = lipgloss.Color("#666666")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")

	colorFocus      = lipgloss.Color("#FF6B6B")
	colorShortBreak = lipgloss.Color("#2ECC71")
	colorLongBreak  = lipgloss.Color("#7AA2F7")
	colorPaused     = lipgloss.Color("#F39C12")
	colorError      = lipgloss.Color("#E74C3C")
)

// Heatmap levels 0 through 4, from no activity to the busiest days.
var heatColors = []lipgloss.Color{
	colorSubtle,
	lipgloss.Color("#0E4429"),
	lipgloss.Color("#006D32"),
	lipgloss.Color("#26A641"),
	lipgloss.Color("#39D353"),
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorShortBreak)
	warningStyle = lipgloss.NewStyle().Foreground(colorPaused)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
	valueStyle        = lipgloss.NewStyle().Foreground(colorLongBreak)
)

// Countdown digits and labels take the color of the phase they belong to.
var (
	focusStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	shortBreakStyle = lipgloss.NewStyle().Bold(true).Foreground(colorShortBreak)
	longBreakStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorLongBreak)
	timerStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	cycleDoneStyle    = lipgloss.NewStyle().Foreground(colorShortBreak)
	cycleCurrentStyle = lipgloss.NewStyle().Foreground(colorFocus)
)

func phaseStyle(p countdown.Phase) lipgloss.Style {
	switch p {
	case countdown.Focus:
		return focusStyle
	case countdown.ShortBreak:
		return shortBreakStyle
	case countdown.LongBreak:
		return longBreakStyle
	}
	return timerStyle
}
