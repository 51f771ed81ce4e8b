package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "mysql", cfg.Database.Type)
	require.Equal(t, 1024, cfg.Activity.QueueSize)
	require.Equal(t, 90, cfg.Cleanup.RetentionDays)
	require.Equal(t, 10000, cfg.Cleanup.MaxDeletionCount)
	require.Equal(t, "02:00", cfg.Cleanup.DailyRunTime)
	require.True(t, cfg.Intake.RateLimitEnabled)
	require.Equal(t, 10, cfg.Intake.RequestsPerMinute)
	require.Equal(t, "Africa/Addis_Ababa", cfg.Timezone)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/app.yaml")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	data := `
server:
  port: 9090
database:
  type: postgres
cleanup:
  retention_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "postgres", cfg.Database.Type)
	require.Equal(t, 30, cfg.Cleanup.RetentionDays)
	// Untouched sections keep their defaults
	require.Equal(t, 1024, cfg.Activity.QueueSize)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestGetFlushInterval(t *testing.T) {
	c := ActivityConfig{FlushInterval: 10}
	require.Equal(t, 10*time.Second, c.GetFlushInterval())

	c = ActivityConfig{}
	require.Equal(t, 5*time.Second, c.GetFlushInterval())
}
