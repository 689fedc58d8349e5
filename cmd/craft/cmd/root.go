// Package cmd provides the CLI commands for craft.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/craft/internal/config"
	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
	"github.com/Aman-CERP/craft/internal/output"
	"github.com/Aman-CERP/craft/pkg/version"
)

// app carries the process-wide logging state shared by all commands.
type app struct {
	env        logging.Environment
	configPath string

	facility *logging.Facility
	cleanup  func()
}

// annotationLenientConfig marks a command subtree that must keep working
// when the user config file is invalid, so the file can be inspected or
// replaced.
const annotationLenientConfig = "craft/lenient-config"

// NewRootCmd creates the root command for the craft CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newApp() *app {
	return &app{
		env:        logging.ProcessEnvironment(),
		configPath: config.GetUserConfigPath(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "craft",
		Short: "craft desktop host",
		Long: `craft hosts the desktop application's main process.

Logging is enabled in debug mode: when running from source, with --debug,
or with CRAFT_DEBUG=1. Debug logs go to a rotating JSON file and the console.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("craft version {{.Version}}\n")

	// Debug mode is decided from the raw process arguments, where only the
	// exact --debug token counts. The flag is declared so that cobra accepts it.
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to file and console")

	cmd.PersistentPreRunE = a.startLogging
	cmd.PersistentPostRunE = a.stopLogging

	cmd.AddCommand(newLogCmd(a))
	cmd.AddCommand(newLogPathCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

// startLogging builds the logging facility once per process and installs it
// as the slog default.
func (a *app) startLogging(cmd *cobra.Command, _ []string) error {
	if a.facility != nil {
		return nil
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		if !lenientConfig(cmd) {
			return err
		}
		output.New(cmd.ErrOrStderr()).Warningf("ignoring invalid config, using defaults: %v", err)
		cfg = config.NewConfig()
	}

	lc := cfg.Apply(logging.Configure(a.env))
	// Console lines share stderr so stdout stays clean for command output.
	lc.Stdout = cmd.ErrOrStderr()
	lc.Stderr = cmd.ErrOrStderr()

	facility, cleanup, err := logging.Setup(lc)
	if err != nil {
		return errors.New(errors.ErrCodeLogDir, "failed to set up logging", err).
			WithDetail("path", lc.FilePath).
			WithSuggestion("Set CRAFT_LOG_DIR to a writable directory")
	}
	a.facility = facility
	a.cleanup = cleanup
	slog.SetDefault(facility.Slog().With(slog.String("scope", logging.ScopeMain)))

	if path, ok := facility.FilePath(); ok {
		facility.Main.Info("debug logging enabled", map[string]string{
			"log_file": path,
			"version":  version.Short(),
		})
	}
	return nil
}

// lenientConfig reports whether cmd or one of its parents tolerates an
// invalid config file.
func lenientConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationLenientConfig]; ok {
			return true
		}
	}
	return false
}

// stopLogging flushes and closes the log file. Safe to call more than once.
func (a *app) stopLogging(_ *cobra.Command, _ []string) error {
	if a.cleanup != nil {
		a.facility.Main.Debug("debug logging stopped")
		a.cleanup()
		a.cleanup = nil
	}
	a.facility = nil
	return nil
}

// Execute runs the root command. The log file is closed even when a
// command fails, since cobra skips post-run hooks on error.
func Execute() error {
	a := newApp()
	defer func() { _ = a.stopLogging(nil, nil) }()
	return newRootCmd(a).Execute()
}

func newLogPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "log-path",
		Short: "Print the active log file path",
		Long: `Print the absolute path of the active log file.

Prints nothing and reports on stderr when file logging is disabled.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, ok := a.facility.FilePath()
			if !ok {
				out := output.New(cmd.ErrOrStderr())
				out.Warning("file logging is disabled (not in debug mode)")
				out.Status("", "Enable it with --debug or "+logging.DebugEnvVar+"=1")
				return nil
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
