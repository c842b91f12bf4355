package checkcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ultimate-geography/ugwp/internal/config"
	"github.com/ultimate-geography/ugwp/internal/wikitext"
)

// NewInspectCmd creates the inspect command showing deck and snapshot values
// side by side.
func NewInspectCmd() *cobra.Command {
	var snapshotPath string
	var only string
	var limit int
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show deck and Wikipedia values side by side",
		Long: `Print the deck value and the cached Wikipedia value of every attribute,
one entity at a time. Useful for looking at raw infobox markup before
adjusting suffixes or substitutions.`,
		Example: `  # Inspect the first 5 entities of the newest snapshot
  ugwp check inspect --limit 5

  # Show the plain text of infobox values for two countries
  ugwp check inspect --only Bolivia,Netherlands --plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			return executeInspect(cmd.Context(), cfg, snapshotPath, parseOnly(only), limit, plain, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file (defaults to the newest)")
	cmd.Flags().StringVar(&only, "only", "", "Comma separated list of entities to show")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entities to show (0 for all)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Strip wiki markup from Wikipedia values")

	return cmd
}

func executeInspect(ctx context.Context, cfg *config.Config, snapshotPath string, only []string, limit int, plain bool, out io.Writer) error {
	ref, err := newLoader(cfg).Load(ctx)
	if err != nil {
		return err
	}
	if len(only) > 0 {
		if ref, err = ref.Subset(only); err != nil {
			return fmt.Errorf("invalid --only: %w", err)
		}
	}

	store := newStore(cfg)
	if snapshotPath == "" {
		latest, err := store.Latest()
		if err != nil {
			return fmt.Errorf("%w in %s, run ugwp check fetch first", err, store.Dir())
		}
		snapshotPath = latest.Path
	}
	scraped, err := store.Load(snapshotPath)
	if err != nil {
		return err
	}

	entities := ref.Entities()
	if limit > 0 && limit < len(entities) {
		entities = entities[:limit]
	}

	width := 0
	for _, a := range ref.Attributes() {
		width = max(width, len(a))
	}

	p := &printer{w: out}
	p.printf("Showing %d of %d entities from %s\n", len(entities), len(ref.Entities()), snapshotPath)
	p.println(strings.Repeat("=", 80))

	for i, entity := range entities {
		select {
		case <-ctx.Done():
			p.println("\nInspection interrupted.")
			return p.err
		default:
		}

		p.printf("\nENTITY %d/%d: %s", i+1, len(entities), entity)
		if !scraped.HasEntity(entity) {
			p.printf(" (not in snapshot)")
		}
		p.println("\n" + strings.Repeat("-", 80))

		for _, attr := range ref.Attributes() {
			wp := scraped.Get(entity, attr)
			wpText := wp.String()
			if plain && wp.Present {
				wpText = strings.TrimSpace(wikitext.StripCode(wp.Text))
			}
			p.printf("%-*s UG=%s\n%-*s WP=%s\n",
				width, attr, ref.Get(entity, attr),
				width, "", wpText)
		}
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}
