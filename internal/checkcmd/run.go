package checkcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
	"github.com/ultimate-geography/ugwp/internal/geodata"
	"github.com/ultimate-geography/ugwp/internal/reconcile"
	"github.com/ultimate-geography/ugwp/internal/report"
	"github.com/ultimate-geography/ugwp/internal/snapshot"
)

type runOptions struct {
	refresh  bool
	format   string
	only     []string
	progress io.Writer
	now      time.Time
}

// NewRunCmd creates the run command comparing the deck against Wikipedia.
func NewRunCmd() *cobra.Command {
	var refresh bool
	var format string
	var only string
	var source string
	var scope string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare deck data with Wikipedia and print the differences",
		Long: `Compare the Ultimate Geography country and capital names with Wikipedia.

English capitals are read from country infoboxes, translations from the
interlanguage links of the English articles. Wikipedia data is cached in dated
snapshot files; the newest snapshot is reused unless --refresh is given.`,
		Example: `  # Compare using the newest snapshot, scraping only if none exists
  ugwp check run

  # Scrape again and print machine readable output
  ugwp check run --refresh --format json

  # Check two countries against a local copy of the deck
  ugwp check run --source ./src/data.csv --only Bolivia,Eswatini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				cfg.Reference.Source = source
			}
			if cmd.Flags().Changed("suffix-scope") {
				cfg.Match.SuffixScope = scope
			}
			if cmd.Flags().Changed("format") {
				cfg.Report.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return executeRun(cmd.Context(), cfg, runOptions{
				refresh:  refresh,
				format:   cfg.Report.Format,
				only:     parseOnly(only),
				progress: os.Stderr,
				now:      time.Now(),
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Scrape Wikipedia even if a snapshot exists")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText,
		"Output format ("+strings.Join(report.Formats(), ", ")+")")
	cmd.Flags().StringVar(&only, "only", "", "Comma separated list of entities to check")
	cmd.Flags().StringVar(&source, "source", "", "URL or path of the deck's data.csv")
	cmd.Flags().StringVar(&scope, "suffix-scope", "", "Attributes that accept disambiguation suffixes (all, country, capital, none)")

	return cmd
}

func executeRun(ctx context.Context, cfg *config.Config, opts runOptions, out io.Writer) error {
	ref, err := newLoader(cfg).Load(ctx)
	if err != nil {
		return err
	}
	if len(opts.only) > 0 {
		if ref, err = ref.Subset(opts.only); err != nil {
			return fmt.Errorf("invalid --only: %w", err)
		}
	}

	scraped, snapshotPath, err := wikipediaData(ctx, cfg, ref, opts)
	if err != nil {
		return err
	}

	res, err := newReconciler(cfg).Reconcile(ref, scraped)
	if err != nil {
		var sm *geodata.StructuralMismatchError
		if errors.As(err, &sm) {
			slog.Error("Reference and Wikipedia data do not have identical structure",
				"missing_entities", sm.MissingEntities,
				"extra_entities", sm.ExtraEntities,
				"missing_attributes", sm.MissingAttributes,
				"extra_attributes", sm.ExtraAttributes)
			return fmt.Errorf("%w\n\nTry deleting %s* files (ugwp check cache --clear) or run with --refresh",
				err, cfg.Snapshot.Prefix)
		}
		return err
	}

	summary := reconcile.Summarize(ref, scraped, res)
	slog.Info("Comparison finished",
		"matching", summary.Matching,
		"fuzzy", summary.Fuzzy,
		"mismatch", summary.Mismatch,
		"no_source", summary.NoSource)

	return report.Write(out, opts.format, &report.Report{
		Generated: opts.now,
		Source:    cfg.Reference.Source,
		Snapshot:  snapshotPath,
		Summary:   summary,
	})
}

// wikipediaData returns the newest snapshot, or scrapes Wikipedia when
// there is none or a refresh is requested. A partial scrape for --only is
// not saved.
func wikipediaData(ctx context.Context, cfg *config.Config, ref *geodata.Table, opts runOptions) (*geodata.Table, string, error) {
	store := newStore(cfg)

	if !opts.refresh {
		latest, err := store.Latest()
		switch {
		case err == nil:
			t, err := store.Load(latest.Path)
			if err != nil {
				return nil, "", err
			}
			t, err = restrict(t, opts.only)
			if err != nil {
				return nil, "", err
			}
			return t, latest.Path, nil
		case errors.Is(err, snapshot.ErrNoSnapshot):
			slog.Info("No Wikipedia snapshot found, scraping", "dir", store.Dir())
		default:
			return nil, "", err
		}
	}

	scraped, err := newScraper(cfg, opts.progress).Scrape(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to scrape Wikipedia: %w", err)
	}
	if len(opts.only) > 0 {
		return scraped, "", nil
	}

	path, err := store.Save(scraped, opts.now)
	if err != nil {
		return nil, "", err
	}
	return scraped, path, nil
}
