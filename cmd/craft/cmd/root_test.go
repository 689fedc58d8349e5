package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
)

// newTestApp returns an app for a packaged build whose debug environment
// variable is debugEnv, logging into a temp directory.
func newTestApp(t *testing.T, debugEnv string, args ...string) (*app, string) {
	t.Helper()
	logDir := t.TempDir()
	t.Setenv("CRAFT_LOG_DIR", logDir)
	t.Setenv("CRAFT_LOG_CONSOLE_LEVEL", "")
	t.Setenv("CRAFT_LOG_FILE_LEVEL", "")

	return &app{
		env: logging.Environment{
			Packaged: func() bool { return true },
			Args:     append([]string{"craft"}, args...),
			Getenv: func(key string) string {
				if key == logging.DebugEnvVar {
					return debugEnv
				}
				return ""
			},
		},
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
	}, logDir
}

func execute(t *testing.T, a *app, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd(a)
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	t.Cleanup(func() { _ = a.stopLogging(nil, nil) })
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func readLogLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), "log line must be JSON: %s", scanner.Text())
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	// Given: a root command
	a, _ := newTestApp(t, "")

	// When: executing with --help
	stdout, _, err := execute(t, a, "--help")

	// Then: it should show usage information
	require.NoError(t, err)
	assert.Contains(t, stdout, "craft")
	assert.Contains(t, stdout, "--debug")
	assert.Contains(t, stdout, "log-path")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	a, _ := newTestApp(t, "")

	stdout, _, err := execute(t, a, "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "craft version")
}

func TestLogPathCmd_ProductionModeReportsDisabled(t *testing.T) {
	// Given: a packaged build without --debug or CRAFT_DEBUG
	a, logDir := newTestApp(t, "")

	// When: asking for the log path
	stdout, stderr, err := execute(t, a, "log-path")

	// Then: no path is printed and no log file exists
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "file logging is disabled")
	_, statErr := os.Stat(filepath.Join(logDir, logging.LogFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogPathCmd_DebugWithValueDoesNotEnable(t *testing.T) {
	// Given: a packaged build launched with --debug=true rather than --debug
	a, logDir := newTestApp(t, "", "--debug=true")

	// When: cobra parses the flag and the log path is requested
	stdout, stderr, err := execute(t, a, "--debug=true", "log-path")

	// Then: only the exact --debug token enables file logging
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "file logging is disabled")
	_, statErr := os.Stat(filepath.Join(logDir, logging.LogFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogCmd_ProductionModeWritesNothing(t *testing.T) {
	// Given: a packaged build without debug
	a, logDir := newTestApp(t, "0")

	// When: logging an entry
	_, stderr, err := execute(t, a, "log", "--scope", "session", "hello")

	// Then: nothing is printed or written
	require.NoError(t, err)
	assert.Empty(t, stderr)
	entries, _ := os.ReadDir(logDir)
	assert.Empty(t, entries)
}

func TestLogPathCmd_DebugEnvPrintsPath(t *testing.T) {
	// Given: CRAFT_DEBUG=1
	a, logDir := newTestApp(t, "1")

	// When: asking for the log path twice
	first, _, err := execute(t, a, "log-path")
	require.NoError(t, err)
	second, _, err := execute(t, a, "log-path")
	require.NoError(t, err)

	// Then: the same absolute path inside the configured directory
	assert.Equal(t, filepath.Join(logDir, logging.LogFileName), strings.TrimSpace(first))
	assert.Equal(t, first, second)
}

func TestLogCmd_DebugFlagWritesFileAndConsole(t *testing.T) {
	// Given: a packaged build launched with --debug
	a, logDir := newTestApp(t, "", "--debug")

	// When: logging a string and an object on the session scope
	_, stderr, err := execute(t, a, "--debug", "log", "--scope", "session", "hello", `{"a":1}`)
	require.NoError(t, err)

	// Then: the console line carries the scope and the JSON object
	assert.Contains(t, stderr, "[session]")
	assert.Contains(t, stderr, `{"a":1}`)
	assert.Contains(t, stderr, " INFO  [session] hello {\"a\":1}")

	// And: the file holds a JSON line with the original values
	lines := readLogLines(t, filepath.Join(logDir, logging.LogFileName))
	var found map[string]any
	for _, line := range lines {
		if line["scope"] == logging.ScopeSession {
			found = line
		}
	}
	require.NotNil(t, found, "expected a session entry in %v", lines)
	assert.Equal(t, "info", found["level"])
	assert.Equal(t, []any{"hello", map[string]any{"a": float64(1)}}, found["message"])
	assert.NotEmpty(t, found["timestamp"])
}

func TestLogCmd_StartupEntryOnMainScope(t *testing.T) {
	a, logDir := newTestApp(t, "1")

	_, _, err := execute(t, a, "log", "ping")
	require.NoError(t, err)

	lines := readLogLines(t, filepath.Join(logDir, logging.LogFileName))
	require.NotEmpty(t, lines)
	assert.Equal(t, logging.ScopeMain, lines[0]["scope"])
	assert.Equal(t, "debug logging enabled", lines[0]["message"].([]any)[0])
}

func TestLogCmd_InvalidLevel(t *testing.T) {
	a, _ := newTestApp(t, "1")

	_, _, err := execute(t, a, "log", "--level", "loud", "hello")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidLevel, errors.GetCode(err))
}

func TestParseValues(t *testing.T) {
	values := parseValues([]string{"hello", `{"a":1}`, "[1,2]", "{not json", "42"})

	assert.Equal(t, "hello", values[0])
	assert.Equal(t, map[string]any{"a": float64(1)}, values[1])
	assert.Equal(t, []any{float64(1), float64(2)}, values[2])
	assert.Equal(t, "{not json", values[3])
	assert.Equal(t, "42", values[4])
}
