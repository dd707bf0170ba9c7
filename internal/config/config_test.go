package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomotrend/internal/trends"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Logging.File)
	assert.Equal(t, "pomotrend.db", filepath.Base(cfg.Database.Path))
	assert.Equal(t, 200*time.Millisecond, cfg.UI.RefreshInterval)
	assert.Equal(t, trends.Weekly, cfg.UI.Dimension())
	assert.Empty(t, cfg.UI.Locale)
	assert.Equal(t, ".", cfg.Export.Dir)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/custom.db
logging:
  level: debug
  format: text
ui:
  locale: zh_cn
  refresh_interval: 500ms
  default_dimension: Monthly
export:
  dir: /tmp/out
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "zh-CN", cfg.UI.Locale)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.RefreshInterval)
	assert.Equal(t, trends.Monthly, cfg.UI.Dimension())
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POMOTREND_LOGGING_LEVEL", "warn")
	t.Setenv("POMOTREND_DATABASE_PATH", "/tmp/env.db")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"level", "logging:\n  level: loud\n"},
		{"format", "logging:\n  format: xml\n"},
		{"refresh too fast", "ui:\n  refresh_interval: 1ms\n"},
		{"dimension", "ui:\n  default_dimension: yearly\n"},
		{"malformed yaml", "logging: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
