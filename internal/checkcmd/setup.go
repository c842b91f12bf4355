// Package checkcmd implements the "ugwp check" subcommands.
package checkcmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
	"github.com/ultimate-geography/ugwp/internal/dataset"
	"github.com/ultimate-geography/ugwp/internal/geodata"
	"github.com/ultimate-geography/ugwp/internal/logger"
	"github.com/ultimate-geography/ugwp/internal/reconcile"
	"github.com/ultimate-geography/ugwp/internal/snapshot"
	"github.com/ultimate-geography/ugwp/internal/wikipedia"
)

// setup loads the configuration named by the global --config flag and
// installs the default logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	res, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	if verbose {
		cfg.Log.Level = "debug"
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))
	slog.Debug("Configuration loaded", "source", res.Source, "path", res.SourcePath)
	return cfg, nil
}

func newLoader(cfg *config.Config) *dataset.Loader {
	return dataset.NewLoader(cfg.Reference.Source,
		dataset.OptIndexColumn(cfg.Reference.IndexColumn),
		dataset.OptBases(cfg.Reference.Bases),
	)
}

func newStore(cfg *config.Config) *snapshot.Store {
	return snapshot.NewStore(cfg.Snapshot.Dir,
		snapshot.OptPrefix(cfg.Snapshot.Prefix),
		snapshot.OptFormat(cfg.Snapshot.Format),
		snapshot.OptIndexColumn(cfg.Reference.IndexColumn),
	)
}

func newScraper(cfg *config.Config, progress io.Writer) *wikipedia.Scraper {
	client := wikipedia.NewClient(
		wikipedia.OptEndpoint(cfg.Wikipedia.Endpoint),
		wikipedia.OptUserAgent(cfg.Wikipedia.UserAgent),
		wikipedia.OptDelay(cfg.Wikipedia.Delay),
	)
	client.HTTPClient = &http.Client{Timeout: cfg.Wikipedia.Timeout}

	return wikipedia.NewScraper(client,
		wikipedia.OptLanguageMap(cfg.Wikipedia.LanguageMap),
		wikipedia.OptIndexBase(cfg.Reference.IndexColumn),
		wikipedia.OptProgress(progress),
	)
}

func newReconciler(cfg *config.Config) *reconcile.Reconciler {
	m := reconcile.NewMatcher(
		reconcile.NewNormalizer(cfg.Match.Substitutions),
		reconcile.NewExpander(cfg.Match.Suffixes),
	)
	return reconcile.NewReconciler(m, reconcile.SuffixScope(cfg.Match.SuffixScope))
}

// parseOnly splits a comma separated entity list.
func parseOnly(s string) []string {
	var res []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			res = append(res, e)
		}
	}
	return res
}

// restrict keeps the listed entities that t knows about.
func restrict(t *geodata.Table, only []string) (*geodata.Table, error) {
	if len(only) == 0 {
		return t, nil
	}
	var known []string
	for _, e := range only {
		if t.HasEntity(e) {
			known = append(known, e)
		}
	}
	res, err := t.Subset(known)
	if err != nil {
		return nil, fmt.Errorf("failed to filter entities: %w", err)
	}
	return res, nil
}
