package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/craft/pkg/version"
)

// versionReport is the --json form: build info plus the logging state of
// this process.
type versionReport struct {
	version.BuildInfo
	Debug   bool   `json:"debug"`
	LogFile string `json:"log_file,omitempty"`
}

func newVersionCmd(a *app) *cobra.Command {
	var jsonOutput bool
	var shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including git commit, build date, whether
this is a packaged build, and whether debug logging is active.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shortOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return err
			}

			report := versionReport{BuildInfo: version.GetInfo()}
			if a.facility != nil {
				report.Debug = a.facility.Debug()
				report.LogFile, _ = a.facility.FilePath()
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			state := "off"
			if report.LogFile != "" {
				state = "on, " + report.LogFile
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\ndebug logging: %s\n", version.String(), state)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")

	return cmd
}
