package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrend/internal/countdown"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Control the timer without opening it",
	Long: `Control the timer from the shell. A running phase keeps its end time, so a
phase started here completes and is recorded the next time pomotrend runs.

Examples:
  pomotrend timer start        # Start or resume the current phase
  pomotrend timer pause        # Pause it
  pomotrend timer skip         # Move on without recording the phase`,
}

type timerAction struct {
	use   string
	short string
	run   func(b timerBackend, ctx context.Context) (countdown.Snapshot, error)
}

// timerBackend is the part of the engine the timer commands drive.
type timerBackend interface {
	Start(context.Context) (countdown.Snapshot, error)
	Resume(context.Context) (countdown.Snapshot, error)
	Pause(context.Context) (countdown.Snapshot, error)
	Abandon(context.Context) (countdown.Snapshot, error)
	Skip(context.Context) (countdown.Snapshot, error)
	Reset(context.Context) (countdown.Snapshot, error)
}

var timerActions = []timerAction{
	{"start", "Start the current phase", timerBackend.Start},
	{"resume", "Resume a paused phase", timerBackend.Resume},
	{"pause", "Pause the running phase", timerBackend.Pause},
	{"abandon", "Stop the phase and restore its full duration", timerBackend.Abandon},
	{"skip", "Finish the phase without recording it", timerBackend.Skip},
	{"reset", "Return to the first focus phase", timerBackend.Reset},
}

func init() {
	rootCmd.AddCommand(timerCmd)

	for _, a := range timerActions {
		timerCmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTimerAction(cmd, a)
			},
		})
	}
}

func runTimerAction(cmd *cobra.Command, a timerAction) error {
	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	snap, err := a.run(eng, cmd.Context())
	if err != nil {
		return err
	}
	logger.Info().Str("action", a.use).Str("phase", string(snap.Phase)).Msg("timer updated")

	printStatus(cmd.OutOrStdout(), snap, time.Now())
	return nil
}
