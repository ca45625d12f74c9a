package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filekit/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the filekit configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Long: `Write the effective settings (defaults, overridden by the environment and
any existing config file) as YAML to --config, or to
$HOME/.config/filekit/config.yaml.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.allowMissingConfig = true
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if err := config.Save(a.settings, path, force); err != nil {
				return err
			}
			a.logger.Info("Config file written", zap.String("path", path))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(a.settings)
			if err != nil {
				return err
			}
			if a.configUsed != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", a.configUsed)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
