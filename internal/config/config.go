// Package config loads craft's logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
)

// Config represents the complete craft configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig tunes the transports used in debug mode. Debug mode itself
// is not configurable here: it follows the build, --debug and CRAFT_DEBUG.
type LoggingConfig struct {
	// Dir is the directory holding main.log.
	Dir string `yaml:"dir" json:"dir"`
	// MaxSizeMB is the size in megabytes that triggers rotation. Default: 5.
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb"`
	// MaxBackups is the number of rotated files kept; 0 keeps all of them.
	// Default: 1.
	MaxBackups int `yaml:"max_backups" json:"max_backups"`
	// ConsoleLevel is the minimum console level. Default: debug.
	ConsoleLevel string `yaml:"console_level" json:"console_level"`
	// FileLevel is the minimum file level. Default: silly.
	FileLevel string `yaml:"file_level" json:"file_level"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			Dir:          logging.DefaultLogDir(),
			MaxSizeMB:    5,
			MaxBackups:   1,
			ConsoleLevel: "debug",
			FileLevel:    "silly",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/craft/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/craft/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, logging.AppName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", logging.AppName, "config.yaml")
	}
	return filepath.Join(home, ".config", logging.AppName, "config.yaml")
}

// Load loads configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (GetUserConfigPath)
//  3. Environment variables (CRAFT_LOG_*)
func Load() (*Config, error) {
	return LoadFile(GetUserConfigPath())
}

// LoadFile is Load with an explicit config file path. A missing file is fine.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()

	if _, err := os.Stat(path); err == nil {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err).
			WithDetail("path", path)
	}

	return cfg, nil
}

// loadYAML decodes a YAML file over c. Keys absent from the file keep
// their current values; keys present, zero included, replace them.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	parsed := *c
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithSuggestion("Check the YAML syntax of " + path)
	}
	parsed.Logging.Dir = expandHome(parsed.Logging.Dir)

	*c = parsed
	return nil
}

// applyEnvOverrides applies CRAFT_LOG_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CRAFT_LOG_DIR"); v != "" {
		c.Logging.Dir = expandHome(v)
	}
	if v := os.Getenv("CRAFT_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.Logging.MaxSizeMB = n
		}
	}
	if v := os.Getenv("CRAFT_LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			c.Logging.MaxBackups = n
		}
	}
	if v := os.Getenv("CRAFT_LOG_CONSOLE_LEVEL"); v != "" {
		c.Logging.ConsoleLevel = v
	}
	if v := os.Getenv("CRAFT_LOG_FILE_LEVEL"); v != "" {
		c.Logging.FileLevel = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Logging.Dir == "" {
		return errors.ValidationError("logging.dir must not be empty", nil)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return errors.ValidationError(fmt.Sprintf("logging.max_size_mb must be positive, got %d", c.Logging.MaxSizeMB), nil)
	}
	if c.Logging.MaxBackups < 0 {
		return errors.ValidationError(fmt.Sprintf("logging.max_backups must be non-negative, got %d", c.Logging.MaxBackups), nil)
	}
	if !logging.ValidLevel(c.Logging.ConsoleLevel) {
		return errors.New(errors.ErrCodeInvalidLevel, fmt.Sprintf("logging.console_level must be silly, debug, verbose, info, warn, or error, got %s", c.Logging.ConsoleLevel), nil)
	}
	if !logging.ValidLevel(c.Logging.FileLevel) {
		return errors.New(errors.ErrCodeInvalidLevel, fmt.Sprintf("logging.file_level must be silly, debug, verbose, info, warn, or error, got %s", c.Logging.FileLevel), nil)
	}
	return nil
}

// LogPath returns the log file path inside the configured directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.Logging.Dir, logging.LogFileName)
}

// Apply copies the file settings onto a logging config. The debug flag is
// left untouched.
func (c *Config) Apply(lc logging.Config) logging.Config {
	lc.FilePath = c.LogPath()
	lc.MaxSizeMB = c.Logging.MaxSizeMB
	lc.MaxBackups = c.Logging.MaxBackups
	lc.ConsoleLevel = logging.ParseLevel(c.Logging.ConsoleLevel)
	lc.FileLevel = logging.ParseLevel(c.Logging.FileLevel)
	return lc
}

// YAML returns the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError("failed to write config file", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
