package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/craft/configs"
	"github.com/Aman-CERP/craft/internal/config"
	"github.com/Aman-CERP/craft/internal/errors"
	"github.com/Aman-CERP/craft/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect logging configuration",
		Long: `Inspect the user configuration for logging.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/craft/config.yaml)
  3. Environment variables (CRAFT_LOG_*)

Debug mode is not part of the configuration: it follows the build,
the --debug flag and CRAFT_DEBUG=1.`,
		Example: `  # Show effective configuration
  craft config show

  # Print user config file path
  craft config path

  # Write the commented template to the user config file
  craft config init

  # Write the effective configuration (file and CRAFT_LOG_* applied)
  craft config init --effective --force`,
		Annotations: map[string]string{annotationLenientConfig: "true"},
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))
	cmd.AddCommand(newConfigInitCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(a.configPath)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force, effective bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fileExists(a.configPath) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", a.configPath)
			}

			if effective {
				cfg, err := config.LoadFile(a.configPath)
				if err != nil {
					return err
				}
				if err := cfg.WriteYAML(a.configPath); err != nil {
					return err
				}
			} else if err := writeTemplate(a.configPath); err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Successf("Created %s", a.configPath)
			out.Code("craft config show")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&effective, "effective", false, "Write the effective configuration instead of the template")

	return cmd
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("failed to create config directory", err)
	}
	if err := os.WriteFile(path, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return errors.IOError("failed to write config file", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
