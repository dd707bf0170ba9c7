package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/pomotrend/internal/config"
)

// setupLogger configures the logger based on configuration. The timer owns
// the terminal, so everything is written to cfg.File.
func setupLogger(cfg config.LoggingConfig) (zerolog.Logger, *os.File, error) {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	if cfg.Format == "text" {
		w := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}
		return zerolog.New(w).With().Timestamp().Logger(), f, nil
	}

	// Default to JSON
	return zerolog.New(f).With().Timestamp().Logger(), f, nil
}
