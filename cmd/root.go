package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ugwp",
		Short: "Check Ultimate Geography names against Wikipedia",
		Long: `ugwp compares the country and capital names of the Ultimate Geography
Anki deck with Wikipedia.

English capitals come from country infoboxes and translations from
interlanguage links. Each value is matched exactly, then with Wikipedia
disambiguation suffixes, then fuzzily, and the cells needing a human look are
listed with summary counts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file (default ./ugwp.yaml or ~/.config/ugwp/ugwp.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "Verbose logging")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
