// ABOUTME: fit configuration management with backend selection.
// ABOUTME: Handles storage, coach settings, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/storage"
)

// Backend names accepted in the config file.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Environment variables consulted for the coach credential, in order.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
)

// Config stores fit tool configuration.
type Config struct {
	// Backend selects the storage backend: "memory" (default), "sqlite", or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts fit.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fit.
	DataDir string `json:"data_dir,omitempty"`

	// CoachModel overrides the generative model used by the coach.
	CoachModel string `json:"coach_model,omitempty"`

	// APIKeyEnv names an extra environment variable checked before the defaults.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// RequestTimeoutSeconds bounds a single coach request.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty"`
}

// Keys lists the settable config keys.
func Keys() []string {
	keys := []string{"backend", "data_dir", "coach_model", "api_key_env", "request_timeout_seconds"}
	sort.Strings(keys)
	return keys
}

// GetBackend returns the configured backend, defaulting to "memory".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendMemory
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetCoachModel returns the configured model, defaulting to the coach default.
func (c *Config) GetCoachModel() string {
	if c.CoachModel == "" {
		return coach.DefaultModel
	}
	return c.CoachModel
}

// GetRequestTimeout returns the per-request coach timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return coach.DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// APIKey returns the coach credential from the environment. The variable
// named by APIKeyEnv wins, then GEMINI_API_KEY, then API_KEY.
func (c *Config) APIKey() string {
	names := []string{EnvGeminiAPIKey, EnvAPIKey}
	if c.APIKeyEnv != "" {
		names = append([]string{c.APIKeyEnv}, names...)
	}
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Set assigns a config value by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		switch value {
		case BackendMemory, BackendSQLite, BackendCharm:
			c.Backend = value
		default:
			return fmt.Errorf("unknown backend: %q", value)
		}
	case "data_dir":
		c.DataDir = value
	case "coach_model":
		c.CoachModel = value
	case "api_key_env":
		c.APIKeyEnv = value
	case "request_timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid timeout: %q", value)
		}
		c.RequestTimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key: %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
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

// OpenStorage creates a Repository implementation based on the configured
// backend. The memory backend starts from the demo workouts dated around now.
func (c *Config) OpenStorage(now time.Time) (storage.Repository, error) {
	backend := c.GetBackend()

	switch backend {
	case BackendMemory:
		return storage.NewDemoStore(now), nil
	case BackendSQLite:
		dbPath := filepath.Join(c.GetDataDir(), "fit.db")
		return storage.Open(dbPath)
	case BackendCharm:
		return storage.OpenCharm()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fit", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
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
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
