package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vistula/vistulabot/internal/config"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration",
		Long: `Inspect or create the vistulabot configuration.

Values are layered: defaults, the JSON config file, a .env file in the
working directory, VISTULABOT_* environment variables and finally the
command-line flags.`,
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd(deps))
	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCmd(deps *Dependencies) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				ok, err := deps.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
					fmt.Sprintf("%s already exists. Overwrite?", path))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted, configuration left unchanged")
					return nil
				}
			}

			if err := config.SaveConfigTo(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite without asking")
	return cmd
}

func configPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	return config.GetConfigPath()
}
