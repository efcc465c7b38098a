package model

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultStoreKey, cfg.Storage.Key)
	assert.Equal(t, time.Second, cfg.LoadDelay())
	assert.Equal(t, time.Minute, cfg.RefreshInterval())
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  backend: keyring
  key: my-board
startup:
  load_delay_ms: 0
display:
  refresh_interval_sec: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendKeyring, cfg.Storage.Backend)
	assert.Equal(t, "my-board", cfg.Storage.Key)
	assert.Equal(t, time.Duration(0), cfg.LoadDelay())
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval())
	// Unset keys keep their defaults.
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("KANBAN_STORAGE_KEY", "from-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Storage.Key)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: s3\n"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown storage.backend")
}

func TestLoadConfigBoundsRefreshInterval(t *testing.T) {
	tests := []struct {
		sec     int
		wantErr bool
	}{
		{sec: 1},
		{sec: MaxRefreshIntervalSec},
		{sec: MaxRefreshIntervalSec + 1, wantErr: true},
		{sec: 300, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.sec), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := fmt.Sprintf("display:\n  refresh_interval_sec: %d\n", tt.sec)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				assert.ErrorContains(t, err, "refresh_interval_sec must be at most")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Duration(tt.sec)*time.Second, cfg.RefreshInterval())
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Storage.Key = "saved-key"
	cfg.Startup.LoadDelayMs = 250

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-key", loaded.Storage.Key)
	assert.Equal(t, 250*time.Millisecond, loaded.LoadDelay())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y.db"), expandHome("~/x/y.db"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

func TestLoadConfigReadsDotEnvBesideConfig(t *testing.T) {
	const name = "KANBAN_DISPLAY_REFRESH_INTERVAL_SEC"
	// Register cleanup for the variable godotenv is about to set.
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(name+"=15\n"), 0o600))

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.RefreshInterval())
}

func TestLoadConfigEnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KANBAN_STORAGE_KEY=from-file\n"), 0o600))
	t.Setenv("KANBAN_STORAGE_KEY", "from-env")

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Storage.Key)
}
