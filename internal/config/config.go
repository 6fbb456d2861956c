// ABOUTME: wxhistory configuration management with backend selection
// ABOUTME: Reads the JSON config file, overlays .env and environment values, and opens storage

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/wxhistory/internal/charm"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvAPIKey  = "WEATHERAPI_API_KEY"
	EnvBackend = "WXHISTORY_BACKEND"
	EnvDataDir = "WXHISTORY_DATA_DIR"
	EnvLevel   = "LOG_LEVEL"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists every supported backend name.
func Backends() []string {
	return []string{BackendSQLite, BackendBadger, BackendCharm, BackendFile, BackendMemory}
}

// Config stores wxhistory configuration.
type Config struct {
	// Backend selects the storage backend: sqlite (default), badger, charm, file or memory.
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local backends.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/wxhistory.
	DataDir string `json:"data_dir,omitempty"`

	// Slot names the collection inside the backend.
	Slot string `json:"slot,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	WeatherAPIKey string `json:"weather_api_key,omitempty"`

	CharmHost string `json:"charm_host,omitempty"`
	AutoSync  *bool  `json:"auto_sync,omitempty"`
}

// LoadEnv loads .env files that exist. Variables already set in the
// environment win over file values.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	b := strings.ToLower(envOr(EnvBackend, c.Backend))
	if b == "" {
		return BackendSQLite
	}
	return b
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	dir := envOr(EnvDataDir, c.DataDir)
	if dir == "" {
		return defaultDataDir()
	}
	return ExpandPath(dir)
}

// GetSlot returns the collection slot name.
func (c *Config) GetSlot() string {
	if c.Slot == "" {
		return storage.DefaultSlot
	}
	return c.Slot
}

// GetAPIKey returns the WeatherAPI.com key.
func (c *Config) GetAPIKey() string {
	return envOr(EnvAPIKey, c.WeatherAPIKey)
}

// GetLogLevel returns the log level name, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if lvl := envOr(EnvLevel, c.LogLevel); lvl != "" {
		return lvl
	}
	return "info"
}

// GetLogFormat returns "text" or "json".
func (c *Config) GetLogFormat() string {
	if strings.EqualFold(c.LogFormat, "json") {
		return "json"
	}
	return "text"
}

// GetCharmHost returns the charm server host.
func (c *Config) GetCharmHost() string {
	if c.CharmHost != "" {
		return c.CharmHost
	}
	return charm.DefaultConfig().CharmHost
}

// GetAutoSync reports whether charm writes sync immediately. Defaults to true.
func (c *Config) GetAutoSync() bool {
	if c.AutoSync == nil {
		return true
	}
	return *c.AutoSync
}

// defaultDataDir returns the default XDG data directory for wxhistory.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "wxhistory")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenBackend creates the storage backend named by the config.
func (c *Config) OpenBackend() (storage.Backend, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir(), c)
}

// OpenBackend opens a named backend rooted at dataDir. cfg supplies charm settings.
func OpenBackend(name, dataDir string, cfg *Config) (storage.Backend, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	switch name {
	case BackendSQLite:
		return storage.NewSQLiteBackend(filepath.Join(dataDir, "wxhistory.db"))
	case BackendBadger:
		return storage.NewBadgerBackend(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return charm.NewClient(&charm.Config{
			CharmHost: cfg.GetCharmHost(),
			AutoSync:  cfg.GetAutoSync(),
			DBName:    charm.DBName,
		})
	case BackendFile:
		return storage.NewFileBackend(filepath.Join(dataDir, "records"))
	case BackendMemory:
		return storage.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (use %s)", name, strings.Join(Backends(), ", "))
	}
}

// OpenStore opens the configured backend and wraps it in a record store.
func (c *Config) OpenStore(logger *slog.Logger) (*storage.Store, error) {
	backend, err := c.OpenBackend()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(backend, storage.WithSlot(c.GetSlot()), storage.WithLogger(logger)), nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "wxhistory", "config.json")
}

// Load reads config from disk. A missing file yields the defaults, which are
// written out so the user has a file to edit.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path) //nolint:gosec // path comes from XDG config location
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{Backend: BackendSQLite}
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWrite(path, data)
}
