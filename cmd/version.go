package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"filekit/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var (
		short  bool
		output string
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of filekit",
		Long:  `Display the version, commit and toolchain filekit was built with.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version.Get()
			out := cmd.OutOrStdout()

			switch {
			case short:
				fmt.Fprintln(out, v.Version)
			case output == "yaml":
				data, err := yaml.Marshal(v)
				if err != nil {
					return fmt.Errorf("failed to marshal version info: %w", err)
				}
				_, err = out.Write(data)
				return err
			case output == "" || output == "text":
				fmt.Fprintln(out, v.String())
			default:
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}
			return nil
		},
	}

	versionCmd.Flags().BoolVarP(&short, "short", "s", false, "Print the version number only")
	versionCmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")
	return versionCmd
}
