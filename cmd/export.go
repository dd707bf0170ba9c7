package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrend/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the trend series or the heatmap to a file",
	Long: `Write the selected trend series as CSV or JSON, or the full daily heatmap
as CSV. Files go to the export directory from the config unless --output
names a file.

Examples:
  pomotrend export                      # Weekly series as CSV
  pomotrend export -f json -d monthly   # Monthly series as JSON
  pomotrend export -f heatmap -o days.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addSeriesFlags(exportCmd)
	exportCmd.Flags().StringP("format", "f", "csv", "csv, json or heatmap")
	exportCmd.Flags().StringP("output", "o", "", "output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv", "json", "heatmap":
	default:
		return fmt.Errorf("unknown export format %q: must be csv, json or heatmap", format)
	}

	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	s, err := loadSeries(cmd.Context(), cmd, eng)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = filepath.Join(cfg.Export.Dir, exportFileName(format, s, time.Now()))
	}

	switch format {
	case "json":
		err = export.ToJSON(export.Report{
			Dimension:  s.dim,
			Convention: s.conv,
			FocusMs:    s.focusMs,
			Points:     s.points,
			Heatmap:    s.insights.Heatmap,
		}, path)
	case "heatmap":
		err = export.HeatmapToCSV(s.insights.Heatmap, path)
	default:
		err = export.ToCSV(s.points, s.focusMs, path)
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", format, err)
	}

	logger.Info().Str("format", format).Str("path", path).Msg("exported")
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func exportFileName(format string, s series, now time.Time) string {
	date := now.Format("2006-01-02")
	switch format {
	case "json":
		return fmt.Sprintf("pomotrend-%s-%s.json", s.dim, date)
	case "heatmap":
		return fmt.Sprintf("pomotrend-heatmap-%s.csv", date)
	}
	return fmt.Sprintf("pomotrend-%s-%s.csv", s.dim, date)
}
