package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// AppName names the per-user log directory.
const AppName = "craft"

// LogFileName is the base name of the active log file.
const LogFileName = "main.log"

// DefaultLogDir returns the platform log directory:
// ~/Library/Logs/craft on macOS, <user config dir>/craft/logs elsewhere.
// Falls back to the temp directory if neither is available.
func DefaultLogDir() string {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Logs", AppName)
		}
	} else if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName, "logs")
	}
	return filepath.Join(os.TempDir(), AppName, "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), LogFileName)
}

// FindLogFile attempts to find the log file for viewing.
// Priority:
// 1. Explicit path (if provided)
// 2. DefaultLogPath()
//
// Returns an error if no log file is found.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no log file found. craft may not have run in debug mode yet (--debug or %s=1).\nExpected at: %s", DebugEnvVar, path)
}

// FindLogFiles returns every log file belonging to the log file at path:
// the file itself, its rotated backups and per-process siblings, oldest
// modification first.
func FindLogFiles(path string) ([]string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	matches, err := filepath.Glob(stem + "-*" + ext)
	if err != nil {
		return nil, fmt.Errorf("failed to find rotated files: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		matches = append(matches, path)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no log files found next to %s", path)
	}

	type logFile struct {
		path string
		mod  int64
	}
	files := make([]logFile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, logFile{path: m, mod: info.ModTime().UnixNano()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].mod < files[j].mod
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}
