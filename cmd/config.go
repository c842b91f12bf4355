package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			res, err := config.Load(path)
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), res.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to ~/.config/ugwp/ugwp.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Generate()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	})

	return cmd
}
