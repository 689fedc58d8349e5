package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/logging"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		scope string
		level string
	)

	cmd := &cobra.Command{
		Use:   "log [values...]",
		Short: "Write an entry through a scoped logger",
		Long: `Write one log entry through the shared logging facility.

Arguments that parse as a JSON object or array are logged as structured
values, everything else as plain text. Nothing is written outside debug mode.`,
		Example: `  craft log --scope session hello '{"a":1}'
  craft log --scope agent --level warn "tool call failed"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !logging.ValidLevel(level) {
				return errors.New(errors.ErrCodeInvalidLevel, fmt.Sprintf("unknown level %q", level), nil).
					WithSuggestion("Use silly, debug, verbose, info, warn, or error")
			}
			handle := a.facility.Logger()
			if scope != "" {
				handle = a.facility.Scope(scope)
			}
			handle.Log(logging.ParseLevel(level), parseValues(args)...)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", logging.ScopeMain, "Scope label (main, session, ipc, window, agent, search, or empty)")
	cmd.Flags().StringVar(&level, "level", "info", "Log level (silly|debug|verbose|info|warn|error)")

	return cmd
}

// parseValues turns CLI arguments into log values. JSON objects and arrays
// become structured values; anything else stays a string.
func parseValues(args []string) []any {
	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = arg
		trimmed := strings.TrimSpace(arg)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			values[i] = v
		}
	}
	return values
}
