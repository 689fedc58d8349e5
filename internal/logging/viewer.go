package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// LogEntry represents a parsed line of the file transport.
type LogEntry struct {
	Time    time.Time `json:"timestamp"`
	Level   string    `json:"level"`
	Scope   string    `json:"scope,omitempty"`
	Message []any     `json:"message"`
	Raw     string    `json:"-"` // Original line
	IsValid bool      `json:"-"` // Whether JSON parsing succeeded
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level   string         // Minimum level (silly, debug, verbose, info, warn, error)
	Scope   string         // Only entries with this scope
	Pattern *regexp.Regexp // Filter by pattern on the raw line
	NoColor bool           // Disable colors
}

// Viewer provides log viewing and filtering capabilities.
type Viewer struct {
	config ViewerConfig
	out    io.Writer
	styles viewerStyles
}

type viewerStyles struct {
	time  lipgloss.Style
	scope lipgloss.Style
	level map[Level]lipgloss.Style
}

func defaultViewerStyles() viewerStyles {
	return viewerStyles{
		time:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		scope: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		level: map[Level]lipgloss.Style{
			LevelSilly:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			LevelVerbose: lipgloss.NewStyle().Foreground(lipgloss.Color("106")),
			LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("154")),
			LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
	}
}

// NewViewer creates a new log viewer.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	return &Viewer{
		config: cfg,
		out:    out,
		styles: defaultViewerStyles(),
	}
}

// Tail reads the last n lines from a log file and returns matching entries.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	lines, err := readLastLines(path, n)
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, line := range lines {
		entry := ParseLine(line)
		if v.matchesFilter(entry) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// TailMultiple reads the last n lines from several log files and returns the
// matching entries merged by timestamp. Unreadable files are skipped.
// As with Tail, n <= 0 means every line.
func (v *Viewer) TailMultiple(ctx context.Context, paths []string, n int) ([]LogEntry, error) {
	results := make([][]LogEntry, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			entries, err := v.Tail(path, n)
			if err != nil {
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []LogEntry
	for _, entries := range results {
		all = append(all, entries...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Time.Before(all[j].Time)
	})
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// Follow watches a log file for new entries and sends them to the channel.
// Rotation is handled by reopening the file when it is recreated.
// Blocks until ctx is cancelled.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- LogEntry) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve log path: %w", err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: rotation replaces the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	reader := bufio.NewReader(file)
	var partial string

	drain := func() bool {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				partial += line
				return true
			}
			line = strings.TrimSuffix(partial+line, "\n")
			partial = ""
			if line == "" {
				continue
			}
			entry := ParseLine(line)
			if !v.matchesFilter(entry) {
				continue
			}
			select {
			case entries <- entry:
			case <-ctx.Done():
				return false
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			switch {
			case event.Op&fsnotify.Write != 0:
				if !drain() {
					return nil
				}
			case event.Op&fsnotify.Create != 0:
				// Finish the old file, then continue from the start of the new one.
				if !drain() {
					return nil
				}
				next, err := os.Open(abs)
				if err != nil {
					continue
				}
				_ = file.Close()
				file = next
				reader = bufio.NewReader(file)
				partial = ""
				if !drain() {
					return nil
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log file: %w", err)
		}
	}
}

// FormatEntry formats a log entry in the console line format.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		return entry.Raw
	}

	if v.config.NoColor {
		return FormatConsoleLine(entry.Time, entry.Level, entry.Scope, NewPayload(entry.Message...).String())
	}

	level := ParseLevel(entry.Level)
	scope := ""
	if entry.Scope != "" {
		scope = v.styles.scope.Render("[" + entry.Scope + "]")
	}
	return fmt.Sprintf("%s %s %s %s",
		v.styles.time.Render(formatTimestamp(entry.Time)),
		v.styles.level[level].Render(padLevel(entry.Level)),
		scope,
		NewPayload(entry.Message...).String())
}

// Print prints entries to the output.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// ParseLine parses one line of the file transport into a LogEntry.
// Lines that are not JSON are returned with IsValid false.
func ParseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}

	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var parsed LogEntry
	if err := dec.Decode(&parsed); err != nil {
		return entry
	}

	parsed.Raw = line
	parsed.IsValid = true
	return parsed
}

// matchesFilter checks if an entry matches the configured filters.
func (v *Viewer) matchesFilter(entry LogEntry) bool {
	if v.config.Level != "" && entry.IsValid {
		if ParseLevel(entry.Level) < ParseLevel(v.config.Level) {
			return false
		}
	}

	if v.config.Scope != "" && entry.Scope != v.config.Scope {
		return false
	}

	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}

	return true
}

// readLastLines returns up to the last n lines of the file at path.
func readLastLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	// Increase buffer size for long log lines
	const maxCapacity = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, string(line))
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return lines, nil
}
