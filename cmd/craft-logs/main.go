// Package main provides the craft-logs command - a viewer for craft's debug logs.
//
// Usage:
//
//	craft-logs [flags]
//
// Flags:
//
//	-f, --follow         Follow log output (like tail -f)
//	-n, --lines int      Number of lines to show (default 50)
//	    --level string   Minimum level (silly|debug|verbose|info|warn|error)
//	    --scope string   Only entries from this scope
//	    --filter string  Filter by pattern (regex)
//	    --no-color       Disable colored output
//	    --file string    Custom log file path
//	    --all            Include rotated and per-process log files
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
	"github.com/Aman-CERP/craft/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, errors.FormatForCLI(err))
		os.Exit(1)
	}
}

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	scope   string
	filter  string
	noColor bool
	logFile string
	all     bool
}

func newRootCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "craft-logs",
		Short: "View craft debug logs",
		Long: `View and tail the JSON log written by craft in debug mode.

By default, shows the last 50 entries of the active log file. Use -f to
follow new entries in real-time (like 'tail -f').

Examples:
  craft-logs                    # Show last 50 entries
  craft-logs -n 100             # Show last 100 entries
  craft-logs -f                 # Follow logs in real-time
  craft-logs --scope agent      # Only the agent scope
  craft-logs --level warn       # Warnings and errors
  craft-logs --all              # Include rotated files
  craft-logs --filter "session" # Filter by pattern`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of entries to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum log level (silly|debug|verbose|info|warn|error)")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Only show entries from this scope")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by keyword/pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Include rotated and per-process log files")

	return cmd
}

func runLogs(ctx context.Context, out, status io.Writer, opts logsOptions) error {
	if opts.level != "" && !logging.ValidLevel(opts.level) {
		return errors.New(errors.ErrCodeInvalidLevel, fmt.Sprintf("unknown level %q", opts.level), nil).
			WithSuggestion("Use silly, debug, verbose, info, warn, or error")
	}

	path, err := logging.FindLogFile(opts.logFile)
	if err != nil {
		return errors.New(errors.ErrCodeFileNotFound, "no log file to show", err)
	}

	paths := []string{path}
	if opts.all {
		paths, err = logging.FindLogFiles(path)
		if err != nil {
			return errors.IOError("failed to list log files", err)
		}
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return errors.ValidationError("invalid filter pattern", err)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Scope:   opts.scope,
		Pattern: pattern,
		NoColor: opts.noColor || noColor(out),
	}, out)

	if len(paths) == 1 {
		fmt.Fprintf(status, "Log file: %s\n", paths[0])
	} else {
		fmt.Fprintf(status, "Log files: %s\n", strings.Join(paths, ", "))
	}
	if opts.follow {
		fmt.Fprintf(status, "Following... (Ctrl+C to stop)\n")
	}
	fmt.Fprintln(status, "---")

	if opts.follow {
		return runFollow(ctx, out, status, viewer, path)
	}

	var entries []logging.LogEntry
	if len(paths) == 1 {
		entries, err = viewer.Tail(paths[0], opts.lines)
	} else {
		entries, err = viewer.TailMultiple(ctx, paths, opts.lines)
	}
	if err != nil {
		return err
	}

	viewer.Print(entries)
	return nil
}

func runFollow(ctx context.Context, out, status io.Writer, viewer *logging.Viewer, path string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			fmt.Fprintln(out, viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			fmt.Fprintln(status, "\n---")
			fmt.Fprintln(status, "Stopped.")
			return nil
		}
	}
}

// noColor reports whether colors must be off for w: NO_COLOR is set or w
// is not a terminal.
func noColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
