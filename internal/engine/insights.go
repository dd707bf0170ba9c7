package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/calendar"
	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

// GetInsights returns the zero-filled heatmap ending today, the summaries of
// today, this week and this month, and the current goals.
func (e *Engine) GetInsights(ctx context.Context) (backend.Insights, error) {
	if err := ctx.Err(); err != nil {
		return backend.Insights{}, err
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return backend.Insights{}, backend.ErrClosed
	}
	conv := locale.ConventionFor(locale.Normalize(e.state.settings.Locale))
	e.mu.Unlock()

	today := calendar.FromTime(e.opts.Clock.Now())
	from, err := calendar.AddDays(today, -(e.opts.HeatmapDays - 1))
	if err != nil {
		return backend.Insights{}, err
	}
	weekStart, err := calendar.WeekStart(today, conv == locale.MondayStart)
	if err != nil {
		return backend.Insights{}, err
	}
	monthStart := today[:8] + "01"

	var (
		ins     backend.Insights
		heatmap []trends.HeatmapDay
		sums    [3][2]int
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		heatmap, err = e.heatmap(from, today)
		return err
	})
	g.Go(func() (err error) {
		ins.Goals, err = e.store.GetGoals()
		return err
	})
	for i, start := range []string{today, weekStart, monthStart} {
		g.Go(func() error {
			f, l, err := e.store.SumDailyMetrics(start, today)
			sums[i] = [2]int{f, l}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return backend.Insights{}, fmt.Errorf("insights: %w", err)
	}

	ins.Goals = trends.SanitizeGoals(ins.Goals)
	ins.Heatmap = heatmap
	ins.Summaries = trends.PeriodSummaries{
		Daily:   trends.Summarize(sums[0][0], sums[0][1], ins.Goals.Daily),
		Weekly:  trends.Summarize(sums[1][0], sums[1][1], ins.Goals.Weekly),
		Monthly: trends.Summarize(sums[2][0], sums[2][1], ins.Goals.Monthly),
	}
	return ins, nil
}

// heatmap lists every day in [from, to], filling days without activity
// with zero counts.
func (e *Engine) heatmap(from, to string) ([]trends.HeatmapDay, error) {
	rows, err := e.store.ListDailyMetrics(from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]trends.HeatmapDay, len(rows))
	for _, r := range rows {
		byDay[r.Day] = trends.HeatmapDay{
			Date:               r.Day,
			FocusCompleted:     r.FocusCompleted,
			LongCycleCompleted: r.LongCycleCompleted,
		}
	}

	days := make([]trends.HeatmapDay, 0, e.opts.HeatmapDays)
	for day := from; day <= to; {
		d, ok := byDay[day]
		if !ok {
			d = trends.HeatmapDay{Date: day}
		}
		days = append(days, d)
		if day, err = calendar.AddDays(day, 1); err != nil {
			return nil, err
		}
	}
	return days, nil
}
