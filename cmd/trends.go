package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/engine"
	"github.com/sadopc/pomotrend/internal/locale"
	"github.com/sadopc/pomotrend/internal/trends"
)

const barWidth = 30

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print the focus trend",
	Long: `Print completed focus sessions and long cycles per day, week or month,
followed by progress against the daily, weekly and monthly goals.

Examples:
  pomotrend trends                     # Default dimension from config
  pomotrend trends -d daily            # Last 30 days
  pomotrend trends -d weekly -l zh-CN  # Weeks starting on Monday
  pomotrend trends --json              # Output as JSON`,
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)

	addSeriesFlags(trendsCmd)
	trendsCmd.Flags().Bool("json", false, "output as JSON")
}

func addSeriesFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dimension", "d", "", "daily, weekly or monthly (default from config)")
	cmd.Flags().StringP("locale", "l", "", "locale deciding the first day of the week")
}

// series is a trend series together with the options that produced it.
type series struct {
	dim      trends.Dimension
	conv     locale.WeekConvention
	insights backend.Insights
	points   []trends.TrendPoint
	focusMs  int64
}

// loadSeries builds the series selected by the dimension and locale flags.
// The locale falls back to the config and then to the stored settings.
func loadSeries(ctx context.Context, cmd *cobra.Command, eng *engine.Engine) (series, error) {
	dim := cfg.UI.Dimension()
	if name, _ := cmd.Flags().GetString("dimension"); name != "" {
		d, err := trends.ParseDimension(name)
		if err != nil {
			return series{}, err
		}
		dim = d
	}

	snap, err := eng.GetState(ctx)
	if err != nil {
		return series{}, err
	}
	tag := snap.Settings.Locale
	if cfg.UI.Locale != "" {
		tag = cfg.UI.Locale
	}
	if l, _ := cmd.Flags().GetString("locale"); l != "" {
		tag = l
	}
	conv := locale.ConventionFor(locale.Normalize(tag))

	ins, err := eng.GetInsights(ctx)
	if err != nil {
		return series{}, err
	}
	points, err := trends.BuildSeries(ins.Heatmap, dim, conv)
	if err != nil {
		return series{}, fmt.Errorf("building %s series: %w", dim, err)
	}

	return series{
		dim:      dim,
		conv:     conv,
		insights: ins,
		points:   points,
		focusMs:  snap.Settings.FocusMs,
	}, nil
}

func runTrends(cmd *cobra.Command, args []string) error {
	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	s, err := loadSeries(cmd.Context(), cmd, eng)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, struct {
			Dimension trends.Dimension       `json:"dimension"`
			WeekStart string                 `json:"weekStart"`
			Points    []trends.TrendPoint    `json:"points"`
			Summaries trends.PeriodSummaries `json:"summaries"`
			Goals     trends.GoalSettings    `json:"goals"`
		}{s.dim, s.conv.String(), s.points, s.insights.Summaries, s.insights.Goals})
	}
	return printTrends(w, s)
}

func printTrends(w io.Writer, s series) error {
	title := strings.ToUpper(string(s.dim[:1])) + string(s.dim[1:])
	headerColor.Fprintf(w, "%s focus trend", title)
	if s.dim == trends.Weekly {
		mutedColor.Fprintf(w, " (weeks start %s)", s.conv)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	if len(s.points) == 0 {
		mutedColor.Fprintln(w, "No completed focus sessions yet")
	} else {
		peak := 1
		for _, p := range s.points {
			peak = max(peak, p.FocusCompleted)
		}
		rows := make([][]string, 0, len(s.points))
		for _, p := range s.points {
			rows = append(rows, []string{
				p.Label,
				strconv.Itoa(p.FocusCompleted),
				strconv.Itoa(p.LongCycleCompleted),
				strings.Repeat("█", p.FocusCompleted*barWidth/peak),
			})
		}
		if err := renderTable(w, []string{"Period", "Focus", "Long cycles", ""}, rows); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Goals")
	sum := s.insights.Summaries
	printSummary(w, "Today", sum.Daily)
	printSummary(w, "This week", sum.Weekly)
	printSummary(w, "This month", sum.Monthly)
	return nil
}

func printSummary(w io.Writer, label string, s trends.PeriodSummary) {
	mark := mutedColor.Sprint("○")
	if s.Completed {
		mark = goodColor.Sprint("●")
	}
	fmt.Fprintf(w, "  %s %-11s %3d/%-3d focus (%3.0f%%)  %2d/%-2d long cycles (%3.0f%%)\n",
		mark, label,
		s.FocusCompleted, s.FocusTarget, s.FocusRate*100,
		s.LongCycleCompleted, s.LongCycleTarget, s.LongCycleRate*100,
	)
}
