package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

const seriesCacheSize = 32

// seriesKey identifies a built series. rev changes with every insights
// payload, so cached series never outlive the data they came from.
type seriesKey struct {
	rev  int
	dim  trends.Dimension
	conv locale.WeekConvention
}

type insightsModel struct {
	width  int
	height int

	insights backend.Insights
	loaded   bool
	rev      int

	dim    trends.Dimension
	conv   locale.WeekConvention
	series []trends.TrendPoint
	err    error

	cache *lru.Cache[seriesKey, []trends.TrendPoint]
	chart barchart.Model
	bar   progress.Model
}

func newInsightsModel(dim trends.Dimension) insightsModel {
	cache, _ := lru.New[seriesKey, []trends.TrendPoint](seriesCacheSize)
	if dim.Window() == 0 {
		dim = trends.Weekly
	}
	return insightsModel{
		dim:   dim,
		cache: cache,
		chart: barchart.New(60, 12),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
	}
}

func (m *insightsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m insightsModel) setInsights(ins backend.Insights) insightsModel {
	m.insights = ins
	m.loaded = true
	m.rev++
	m.rebuild()
	return m
}

func (m insightsModel) setConvention(conv locale.WeekConvention) insightsModel {
	if m.conv == conv {
		return m
	}
	m.conv = conv
	m.rebuild()
	return m
}

func (m insightsModel) setDimension(dim trends.Dimension) insightsModel {
	m.dim = dim
	m.rebuild()
	return m
}

func (m insightsModel) update(msg tea.Msg) (insightsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		i := slices.Index(trends.Dimensions, m.dim)
		n := len(trends.Dimensions)
		switch {
		case key.Matches(msg, keys.Dimension), key.Matches(msg, keys.Right):
			return m.setDimension(trends.Dimensions[(i+1)%n]), nil
		case key.Matches(msg, keys.Left):
			return m.setDimension(trends.Dimensions[(i+n-1)%n]), nil
		}
	}
	return m, nil
}

// rebuild refreshes the displayed series, reusing a cached one when the
// payload, dimension and week convention are unchanged.
func (m *insightsModel) rebuild() {
	if !m.loaded {
		return
	}
	k := seriesKey{rev: m.rev, dim: m.dim, conv: m.conv}
	if s, ok := m.cache.Get(k); ok {
		m.series, m.err = s, nil
		m.buildChart()
		return
	}
	s, err := trends.BuildSeries(m.insights.Heatmap, m.dim, m.conv)
	m.series, m.err = s, err
	if err == nil {
		m.cache.Add(k, s)
	}
	m.buildChart()
}

func (m *insightsModel) buildChart() {
	chartWidth := max(m.width-8, 20)
	chartHeight := 10
	if m.height > 36 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	focusStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	longStyle := lipgloss.NewStyle().Foreground(colorSecondary)

	bars := make([]barchart.BarData, 0, len(m.series))
	for _, p := range m.series {
		bars = append(bars, barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{
				{Name: "Focus", Value: float64(p.FocusCompleted), Style: focusStyle},
				{Name: "Long cycles", Value: float64(p.LongCycleCompleted), Style: longStyle},
			},
		})
	}
	if len(bars) == 0 {
		return
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m insightsModel) view() string {
	w := m.width - 4

	var tabs []string
	for _, d := range trends.Dimensions {
		name := strings.ToUpper(string(d[:1])) + string(d[1:])
		if d == m.dim {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Insights"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "  ",
		mutedStyle.Render("weeks start "+m.conv.String()),
	)

	if !m.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  Loading...")),
		)
	}

	var chartView string
	switch {
	case m.err != nil:
		chartView = errorStyle.Render("  " + m.err.Error())
	case len(m.series) == 0:
		chartView = mutedStyle.Render("  No completed focus sessions yet")
	default:
		chartView = lipgloss.JoinVertical(lipgloss.Left, m.chart.View(), m.renderLegend())
	}

	nav := mutedStyle.Render("  d/←/→: switch dimension  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", m.renderSummaries(), "", m.renderHeatmap(w-6), "", nav,
		),
	)
}

func (m insightsModel) renderLegend() string {
	focus := lipgloss.NewStyle().Foreground(colorPrimary).Render("●")
	long := lipgloss.NewStyle().Foreground(colorSecondary).Render("●")
	return fmt.Sprintf("  %s Focus  %s Long cycles", focus, long)
}

func (m insightsModel) renderSummaries() string {
	s := m.insights.Summaries
	rows := []string{
		m.renderSummary("Today", s.Daily),
		m.renderSummary("This week", s.Weekly),
		m.renderSummary("This month", s.Monthly),
	}
	return strings.Join(rows, "\n")
}

func (m insightsModel) renderSummary(label string, s trends.PeriodSummary) string {
	mark := mutedStyle.Render("○")
	if s.Completed {
		mark = successStyle.Render("●")
	}
	return fmt.Sprintf("  %s %-11s %s %3d/%-3d focus  %s %2d/%-2d long",
		mark, label,
		m.bar.ViewAs(s.FocusRate), s.FocusCompleted, s.FocusTarget,
		m.bar.ViewAs(s.LongCycleRate), s.LongCycleCompleted, s.LongCycleTarget,
	)
}

// renderHeatmap lays days out in weekly columns, oldest on the left, as
// many weeks as fit in width.
func (m insightsModel) renderHeatmap(width int) string {
	days := m.insights.Heatmap
	if len(days) == 0 {
		return ""
	}
	cols := min((len(days)+6)/7, max(width/2, 1))
	if n := cols * 7; len(days) > n {
		days = days[len(days)-n:]
	}

	rows := make([][]string, 7)
	for i, d := range days {
		cell := lipgloss.NewStyle().Foreground(heatColors[trends.Intensity(d.FocusCompleted)]).Render("■")
		rows[i%7] = append(rows[i%7], cell)
	}
	lines := make([]string, 0, 8)
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %s .. %s", days[0].Date, days[len(days)-1].Date)))
	for _, r := range rows {
		lines = append(lines, "  "+strings.Join(r, " "))
	}
	return strings.Join(lines, "\n")
}
