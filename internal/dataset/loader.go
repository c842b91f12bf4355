// Package dataset loads the Ultimate Geography reference data.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

const (
	// DefaultSource is the deck's data file on GitHub.
	DefaultSource = "https://github.com/axelboc/anki-ultimate-geography/raw/master/src/data.csv"

	// DefaultIndexColumn holds the English country name.
	DefaultIndexColumn = "Country"
)

// DefaultBases are the attribute families compared against Wikipedia.
var DefaultBases = []string{"Capital", "Country"}

// Loader reads the reference CSV from a URL or a local file.
type Loader struct {
	source      string
	indexColumn string
	bases       []string
	client      *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// OptIndexColumn sets the column providing entity keys.
func OptIndexColumn(s string) Option {
	return func(l *Loader) {
		if s = strings.TrimSpace(s); s != "" {
			l.indexColumn = s
		}
	}
}

// OptBases sets the attribute families to keep, e.g. "Capital" keeps
// "Capital" and every "Capital:<lang>" column.
func OptBases(bases []string) Option {
	return func(l *Loader) {
		if len(bases) > 0 {
			l.bases = bases
		}
	}
}

// OptHTTPClient replaces the HTTP client used for remote sources.
func OptHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// NewLoader creates a loader for source, an http(s) URL or a file path.
func NewLoader(source string, opts ...Option) *Loader {
	if source == "" {
		source = DefaultSource
	}
	l := &Loader{
		source:      source,
		indexColumn: DefaultIndexColumn,
		bases:       DefaultBases,
		client:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the reference table.
func (l *Loader) Load(ctx context.Context) (*geodata.Table, error) {
	slog.Debug("Opening reference data", "source", l.source)

	rc, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := geodata.ReadCSV(rc, l.indexColumn, l.keep)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference data %s: %w", l.source, err)
	}

	slog.Info("Reference data loaded",
		"entities", humanize.Comma(int64(len(t.Entities()))),
		"attributes", len(t.Attributes()),
		"languages", strings.Join(t.Languages(), ","))
	return t, nil
}

// keep selects the base columns and their translations. The index column
// is never an attribute.
func (l *Loader) keep(column string) bool {
	for _, b := range l.bases {
		if column == b || strings.HasPrefix(column, b+":") {
			return true
		}
	}
	return false
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !isURL(l.source) {
		f, err := os.Open(l.source)
		if err != nil {
			return nil, fmt.Errorf("failed to open reference data: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download reference data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("reference data download failed with status: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
