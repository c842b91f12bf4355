package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/checkcmd"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Deck vs Wikipedia comparison tools",
		Long: `Tools for comparing the deck's data.csv with Wikipedia.

Supports scraping Wikipedia into dated snapshot files, comparing the deck with
the newest snapshot, inspecting values side by side and managing the snapshot
cache.`,
	}

	cmd.AddCommand(checkcmd.NewRunCmd())
	cmd.AddCommand(checkcmd.NewFetchCmd())
	cmd.AddCommand(checkcmd.NewInspectCmd())
	cmd.AddCommand(checkcmd.NewCacheCmd())

	return cmd
}
