package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/tovald/powerlogd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	resetArgs(t)

	configContent := []byte(`
interval = 30
logfile = "/tmp/power.csv"
camera_device = "/dev/video2"
log_level = "debug"
telemetry = true
database = "/tmp/telemetry.db"
`)
	configPath := filepath.Join(t.TempDir(), "powerlogd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("POWERLOGD_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Interval, "Expected Interval 30")
	assert.Equal(t, "/tmp/power.csv", cfg.LogFile, "Expected LogFile /tmp/power.csv")
	assert.Equal(t, "/dev/video2", cfg.CameraDevice, "Expected CameraDevice /dev/video2")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/tmp/telemetry.db", cfg.Database, "Expected Database /tmp/telemetry.db")
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("POWERLOGD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 10, cfg.Interval, "Expected default Interval 10")
	assert.Equal(t, "/var/log/powerlogd/power.csv", cfg.LogFile)
	assert.Equal(t, "/dev/video0", cfg.CameraDevice)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	resetArgs(t)

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(t.TempDir(), "powerlogd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("POWERLOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestInvalidLogLevel(t *testing.T) {
	resetArgs(t)

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(t.TempDir(), "powerlogd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("POWERLOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestInvalidInterval(t *testing.T) {
	resetArgs(t)

	configContent := []byte(`
interval = 0
`)
	configPath := filepath.Join(t.TempDir(), "powerlogd.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	t.Setenv("POWERLOGD_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval")
}

func TestLogLevelFlag(t *testing.T) {
	resetArgs(t)
	t.Setenv("POWERLOGD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	os.Args = []string{"powerlogd", "--log-level", "debug", "--interval", "5"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 5, cfg.Interval, "Expected Interval to be set by flag")
}

func resetArgs(t *testing.T) {
	t.Helper()
	oldArgs := os.Args
	os.Args = []string{"powerlogd"}
	t.Cleanup(func() { os.Args = oldArgs })
}
