// Package config loads application configuration from a YAML file and
// environment variables, layered over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"file-categorizer/internal/store"
)

// appName is the directory name under the XDG base directories.
const appName = "filecat"

// Defaults applied when neither the config file nor the environment
// sets a value.
const (
	DefaultWebHost       = "127.0.0.1"
	DefaultWebPort       = 8080
	DefaultSearchLimit   = store.DefaultLimit
	DefaultMaxFileSizeMB = 0 // unlimited
)

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ScanConfig configures directory scans.
type ScanConfig struct {
	Recursive     bool `mapstructure:"recursive"`
	IncludeHidden bool `mapstructure:"include_hidden"`
	MaxFileSizeMB int  `mapstructure:"max_file_size_mb"`
	BatchSize     int  `mapstructure:"batch_size"`
}

// CleanupConfig configures existence-reconciliation sweeps.
type CleanupConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// WebConfig configures the HTTP server.
type WebConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Compression bool   `mapstructure:"compression"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// SearchConfig configures query defaults.
type SearchConfig struct {
	Limit int `mapstructure:"limit"`
}

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Web      WebConfig      `mapstructure:"web"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Search   SearchConfig   `mapstructure:"search"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/filecat/config.yaml
//   - $HOME/.config/filecat/config.yaml
//
// Environment variables are prefixed with FILECAT_
// (e.g., FILECAT_WEB_PORT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, appName))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", appName))

	v.SetEnvPrefix("FILECAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file not found is acceptable; we use defaults.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.Database.Path, "~") {
		cfg.Database.Path = filepath.Join(homeDir, cfg.Database.Path[1:])
	}

	return &cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDBPath())

	v.SetDefault("scan.recursive", true)
	v.SetDefault("scan.include_hidden", false)
	v.SetDefault("scan.max_file_size_mb", DefaultMaxFileSizeMB)
	v.SetDefault("scan.batch_size", 100)

	v.SetDefault("cleanup.batch_size", store.DefaultCleanupBatchSize)

	v.SetDefault("web.host", DefaultWebHost)
	v.SetDefault("web.port", DefaultWebPort)
	v.SetDefault("web.compression", true)

	v.SetDefault("logging.level", "info")

	v.SetDefault("search.limit", DefaultSearchLimit)
}

// Validate rejects configurations that cannot produce a working
// process.
func (c *Config) Validate() error {
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port %d out of range", c.Web.Port)
	}
	if c.Scan.BatchSize < 1 {
		return fmt.Errorf("scan.batch_size must be positive, got %d", c.Scan.BatchSize)
	}
	if c.Cleanup.BatchSize < 1 {
		return fmt.Errorf("cleanup.batch_size must be positive, got %d", c.Cleanup.BatchSize)
	}
	if c.Scan.MaxFileSizeMB < 0 {
		return fmt.Errorf("scan.max_file_size_mb must be non-negative, got %d", c.Scan.MaxFileSizeMB)
	}
	if c.Search.Limit < store.MinSearchLimit || c.Search.Limit > store.MaxSearchLimit {
		return fmt.Errorf("search.limit must be between %d and %d, got %d",
			store.MinSearchLimit, store.MaxSearchLimit, c.Search.Limit)
	}
	return nil
}

// MaxFileSizeBytes converts the configured megabyte limit to bytes;
// zero means unlimited.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Scan.MaxFileSizeMB) * 1024 * 1024
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// DataDir returns $XDG_DATA_HOME/filecat/ for the database file.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "files.db")
}

// WriteDefault writes a commented default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# File Categorizer Configuration

database:
  # SQLite database file location
  path: %s

scan:
  # Descend into subdirectories by default
  recursive: true
  # Include files and directories starting with a dot
  include_hidden: false
  # Skip files larger than this many megabytes (0 = unlimited)
  max_file_size_mb: %d
  # Records written per database transaction
  batch_size: 100

cleanup:
  # Records probed per batch during existence sweeps
  batch_size: %d

web:
  host: %s
  port: %d
  compression: true

logging:
  # Log level: debug, info, warn, error
  level: info

search:
  # Default page size for queries
  limit: %d
`, DefaultDBPath(), DefaultMaxFileSizeMB, store.DefaultCleanupBatchSize,
		DefaultWebHost, DefaultWebPort, DefaultSearchLimit)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}
