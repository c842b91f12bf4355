package checkcmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
)

// NewCacheCmd creates the cache command listing or clearing snapshots.
func NewCacheCmd() *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List or remove Wikipedia snapshots",
		Example: `  ugwp check cache
  ugwp check cache --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			return executeCache(cfg, clearAll, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all snapshots")

	return cmd
}

func executeCache(cfg *config.Config, clearAll bool, out io.Writer) error {
	store := newStore(cfg)

	if clearAll {
		n, err := store.Clear()
		if err != nil {
			return err
		}
		slog.Info("Snapshots removed", "count", n, "dir", store.Dir())
		return nil
	}

	all, err := store.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		_, err := fmt.Fprintf(out, "No snapshots in %s\n", store.Dir())
		return err
	}

	table := tablewriter.NewTable(out)
	table.Header("Snapshot", "Date", "Age", "Size")
	for _, info := range all {
		if err := table.Append(
			filepath.Base(info.Path),
			info.Date.Format("2006-01-02"),
			humanize.Time(info.Date),
			humanize.Bytes(uint64(info.Size)),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
