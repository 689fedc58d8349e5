package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/craft/configs"
	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
)

// clearEnv blanks every CRAFT_LOG_* override for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CRAFT_LOG_DIR",
		"CRAFT_LOG_MAX_SIZE_MB",
		"CRAFT_LOG_MAX_BACKUPS",
		"CRAFT_LOG_CONSOLE_LEVEL",
		"CRAFT_LOG_FILE_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// =============================================================================
// Defaults
// =============================================================================

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, logging.DefaultLogDir(), cfg.Logging.Dir)
	assert.Equal(t, 5, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 1, cfg.Logging.MaxBackups)
	assert.Equal(t, "debug", cfg.Logging.ConsoleLevel)
	assert.Equal(t, "silly", cfg.Logging.FileLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	// Given: no configuration file exists
	clearEnv(t)

	// When: loading
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))

	// Then: defaults apply
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestGetUserConfigPath_XDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Equal(t, filepath.Join(xdg, "craft", "config.yaml"), GetUserConfigPath())
}

// =============================================================================
// YAML layering
// =============================================================================

func TestLoadFile_MergesYAML(t *testing.T) {
	// Given: a file that sets some fields
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, "logging:\n  dir: "+dir+"\n  max_backups: 4\n  console_level: warn\n")

	// When: loading
	cfg, err := LoadFile(path)

	// Then: file values override, the rest keep their defaults
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Logging.Dir)
	assert.Equal(t, 4, cfg.Logging.MaxBackups)
	assert.Equal(t, "warn", cfg.Logging.ConsoleLevel)
	assert.Equal(t, 5, cfg.Logging.MaxSizeMB)
	assert.Equal(t, "silly", cfg.Logging.FileLevel)
}

func TestLoadFile_ExplicitZeroOverridesDefault(t *testing.T) {
	// Given: a file that asks to keep every rotated file
	clearEnv(t)
	path := writeConfig(t, "logging:\n  max_backups: 0\n")

	// When: loading
	cfg, err := LoadFile(path)

	// Then: the zero wins over the default of one backup
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Logging.MaxBackups)
	assert.Equal(t, 5, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 0, cfg.Apply(logging.Config{}).MaxBackups)
}

func TestLoadFile_ExpandsHome(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := writeConfig(t, "logging:\n  dir: ~/craft-logs\n")

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "craft-logs"), cfg.Logging.Dir)
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "logging: [unclosed\n")

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Contains(t, ce.Suggestion, "YAML")
}

func TestLoadFile_InvalidLevel(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "logging:\n  file_level: loud\n")

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_level")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, path, ce.Details["path"])
}

// =============================================================================
// Environment overrides
// =============================================================================

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	// Given: a file and environment setting the same fields
	clearEnv(t)
	envDir := t.TempDir()
	path := writeConfig(t, "logging:\n  max_size_mb: 2\n  file_level: info\n")
	t.Setenv("CRAFT_LOG_DIR", envDir)
	t.Setenv("CRAFT_LOG_MAX_SIZE_MB", "9")
	t.Setenv("CRAFT_LOG_MAX_BACKUPS", "0")
	t.Setenv("CRAFT_LOG_FILE_LEVEL", "error")
	t.Setenv("CRAFT_LOG_CONSOLE_LEVEL", "verbose")

	// When: loading
	cfg, err := LoadFile(path)

	// Then: environment wins
	require.NoError(t, err)
	assert.Equal(t, envDir, cfg.Logging.Dir)
	assert.Equal(t, 9, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 0, cfg.Logging.MaxBackups)
	assert.Equal(t, "error", cfg.Logging.FileLevel)
	assert.Equal(t, "verbose", cfg.Logging.ConsoleLevel)
}

func TestLoadFile_IgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRAFT_LOG_MAX_SIZE_MB", "lots")
	t.Setenv("CRAFT_LOG_MAX_BACKUPS", "-2")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 1, cfg.Logging.MaxBackups)
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"empty dir", func(c *Config) { c.Logging.Dir = "" }, errors.ErrCodeInvalidInput},
		{"zero size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, errors.ErrCodeInvalidInput},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, errors.ErrCodeInvalidInput},
		{"bad console level", func(c *Config) { c.Logging.ConsoleLevel = "chatty" }, errors.ErrCodeInvalidLevel},
		{"bad file level", func(c *Config) { c.Logging.FileLevel = "" }, errors.ErrCodeInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

// =============================================================================
// Logging integration
// =============================================================================

func TestApply_KeepsDebugFlag(t *testing.T) {
	cfg := NewConfig()
	cfg.Logging.Dir = "/var/log/craft"
	cfg.Logging.MaxSizeMB = 7
	cfg.Logging.MaxBackups = 2
	cfg.Logging.ConsoleLevel = "warn"
	cfg.Logging.FileLevel = "info"

	lc := cfg.Apply(logging.DefaultConfig(true))

	assert.True(t, lc.Debug)
	assert.Equal(t, filepath.Join("/var/log/craft", logging.LogFileName), lc.FilePath)
	assert.Equal(t, 7, lc.MaxSizeMB)
	assert.Equal(t, 2, lc.MaxBackups)
	assert.Equal(t, logging.LevelWarn, lc.ConsoleLevel)
	assert.Equal(t, logging.LevelInfo, lc.FileLevel)

	assert.False(t, cfg.Apply(logging.DefaultConfig(false)).Debug)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := NewConfig()
	cfg.Logging.MaxBackups = 3

	require.NoError(t, cfg.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed Config
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, 3, parsed.Logging.MaxBackups)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestUserConfigTemplate_MatchesDefaults(t *testing.T) {
	// Given: the embedded template written as the user config
	clearEnv(t)
	path := writeConfig(t, configs.UserConfigTemplate)

	// When: loading it
	cfg, err := LoadFile(path)

	// Then: it resolves to the built-in defaults
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}
