package checkcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
)

// NewFetchCmd creates the fetch command writing a fresh snapshot.
func NewFetchCmd() *cobra.Command {
	var source string
	var format string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Scrape Wikipedia and save a new snapshot",
		Long: `Scrape country and capital names for every entity of the deck and save
them as data_wikipedia_<YYYYMMDD>.csv (or .parquet) in the snapshot directory.

The MediaWiki API is called at most once per configured delay, so a full
scrape of the deck takes several minutes.`,
		Example: `  ugwp check fetch
  ugwp check fetch --snapshot-format parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				cfg.Reference.Source = source
			}
			if cmd.Flags().Changed("snapshot-format") {
				cfg.Snapshot.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			path, err := executeFetch(cmd.Context(), cfg, os.Stderr, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "URL or path of the deck's data.csv")
	cmd.Flags().StringVar(&format, "snapshot-format", "", "Snapshot format (csv or parquet)")

	return cmd
}

func executeFetch(ctx context.Context, cfg *config.Config, progress io.Writer, now time.Time) (string, error) {
	ref, err := newLoader(cfg).Load(ctx)
	if err != nil {
		return "", err
	}

	scraped, err := newScraper(cfg, progress).Scrape(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to scrape Wikipedia: %w", err)
	}
	return newStore(cfg).Save(scraped, now)
}
