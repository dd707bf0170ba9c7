// Package cmd contains the pomotrend CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sadopc/pomotrend/internal/config"
	"github.com/sadopc/pomotrend/internal/engine"
	"github.com/sadopc/pomotrend/internal/store"
	"github.com/sadopc/pomotrend/internal/tui"
)

var (
	version    = "dev"
	configPath string
	cfg        *config.Config
	logger     = zerolog.Nop()
	logFile    io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomotrend",
	Short: "Pomodoro timer with focus trends",
	Long: `pomotrend is a terminal pomodoro timer. It runs focus and break phases,
records every completed focus session and charts them as daily, weekly and
monthly trends against your goals.

Example usage:
  pomotrend                        # Open the timer
  pomotrend status                 # Show the current phase
  pomotrend timer start            # Start the current phase
  pomotrend trends -d monthly      # Print the monthly trend
  pomotrend export -f json         # Write the weekly series as JSON`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to configuration file")
	cobra.OnFinalize(closeLog)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// initConfig loads the configuration and opens the log file.
func initConfig() error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c

	l, f, err := setupLogger(cfg.Logging)
	if err != nil {
		return err
	}
	closeLog()
	logger, logFile = l, f
	log.Logger = logger

	logger.Debug().
		Str("config", configPath).
		Str("database", cfg.Database.Path).
		Msg("configuration loaded")
	return nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// openEngine opens the database and the timer engine on top of it. The
// returned func saves the timer position and closes both.
func openEngine() (*engine.Engine, func(), error) {
	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	eng, err := engine.New(st, engine.Options{Logger: logger})
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("starting timer: %w", err)
	}

	return eng, func() {
		if err := eng.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to save timer state")
		}
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close database")
		}
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	logger.Info().
		Str("version", version).
		Str("database", cfg.Database.Path).
		Msg("Starting pomotrend")

	eng.Run(ctx)

	err = tui.Run(ctx, eng, tui.Options{
		RefreshInterval: cfg.UI.RefreshInterval,
		Dimension:       cfg.UI.Dimension(),
		Locale:          cfg.UI.Locale,
		ExportDir:       cfg.Export.Dir,
		Logger:          logger,
	})
	if err != nil && !errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("running timer: %w", err)
	}

	logger.Info().Msg("pomotrend stopped")
	return nil
}
