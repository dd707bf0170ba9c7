package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrend/internal/countdown"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer phase",
	Long: `Show the current phase, its remaining time and the action the timer
offers next.

Examples:
  pomotrend status             # Human readable
  pomotrend status --json      # Raw snapshot as JSON`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("json", false, "output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	snap, err := eng.GetState(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	printStatus(cmd.OutOrStdout(), snap, time.Now())
	return nil
}

func printStatus(w io.Writer, snap countdown.Snapshot, now time.Time) {
	st := countdown.Derive(snap, now)

	var state string
	switch {
	case snap.IsRunning:
		state = goodColor.Sprint("running")
	case st.IsFreshPhase:
		state = mutedColor.Sprint("ready")
	default:
		state = warnColor.Sprint("paused")
	}

	phaseColor(snap.Phase).Fprint(w, snap.Phase.Label())
	fmt.Fprintf(w, "  %s  %s\n", countdown.Format(st.DisplayedRemainingMs), state)

	every := max(snap.Settings.LongBreakEvery, 1)
	fmt.Fprintf(w, "Focus sessions: %d (long break every %d)\n", snap.CycleCount, every)
	if snap.IsRunning && snap.EndAtMs != nil {
		end := time.UnixMilli(*snap.EndAtMs).Local()
		fmt.Fprintf(w, "Ends at:        %s\n", end.Format("15:04:05"))
	}
	fmt.Fprintf(w, "Next action:    %s\n", st.PrimaryAction)
}
