package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backend names accepted in StorageConfig.Backend.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// DefaultStoreKey is the byte-store entry holding the board blob.
const DefaultStoreKey = "kanban-data-store"

// StorageConfig selects and configures the byte store the board is
// persisted to.
type StorageConfig struct {
	// Backend is "sqlite" (default) or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`

	// Key is the entry name the board blob is stored under.
	Key string `mapstructure:"key" yaml:"key"`

	// KeyringDir is where the keyring file backend keeps its data when
	// no system keyring is available.
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir"`
}

// MaxRefreshIntervalSec caps display.refresh_interval_sec so card ages
// are recomputed at least once a minute.
const MaxRefreshIntervalSec = 60

// StartupConfig controls the initial board load.
type StartupConfig struct {
	// LoadDelayMs is an artificial delay before the stored board is read,
	// so the loading state is visible.
	LoadDelayMs int `mapstructure:"load_delay_ms" yaml:"load_delay_ms"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	RefreshIntervalSec int  `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
	Mouse              bool `mapstructure:"mouse" yaml:"mouse"`
}

// LogConfig controls where the TUI writes its log.
type LogConfig struct {
	// File is the log destination while the TUI runs. Empty disables it.
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Startup StartupConfig `mapstructure:"startup" yaml:"startup"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// LoadDelay returns the configured startup latency.
func (c *AppConfig) LoadDelay() time.Duration {
	if c.Startup.LoadDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.Startup.LoadDelayMs) * time.Millisecond
}

// RefreshInterval returns how often card ages are recomputed.
func (c *AppConfig) RefreshInterval() time.Duration {
	if c.Display.RefreshIntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(c.Display.RefreshIntervalSec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/kanban/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configHome(), "config.yaml")
}

func configHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "kanban")
}

func dataHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "kanban")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			Path:       filepath.Join(dataHome(), "kanban.db"),
			Key:        DefaultStoreKey,
			KeyringDir: filepath.Join(configHome(), "keyring"),
		},
		Startup: StartupConfig{
			LoadDelayMs: 1000,
		},
		Display: DisplayConfig{
			RefreshIntervalSec: 60,
			Mouse:              true,
		},
		Log: LogConfig{
			File: filepath.Join(dataHome(), "kanban.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Any key
// can be overridden with a KANBAN_ environment variable, for example
// KANBAN_STORAGE_BACKEND=keyring. A .env file next to the config file is
// read first; variables already set in the environment win over it.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("KANBAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("storage.keyring_dir", def.Storage.KeyringDir)
	v.SetDefault("startup.load_delay_ms", def.Startup.LoadDelayMs)
	v.SetDefault("display.refresh_interval_sec", def.Display.RefreshIntervalSec)
	v.SetDefault("display.mouse", def.Display.Mouse)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Storage.KeyringDir = expandHome(cfg.Storage.KeyringDir)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case BackendKeyring:
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Startup.LoadDelayMs < 0 {
		return fmt.Errorf("startup.load_delay_ms must not be negative")
	}
	if c.Display.RefreshIntervalSec > MaxRefreshIntervalSec {
		return fmt.Errorf(
			"display.refresh_interval_sec must be at most %d, got %d",
			MaxRefreshIntervalSec, c.Display.RefreshIntervalSec,
		)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("startup", cfg.Startup)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
