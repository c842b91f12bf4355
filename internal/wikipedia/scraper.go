package wikipedia

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

// DefaultLanguageMap maps deck language codes to Wikipedia codes where they
// differ.
var DefaultLanguageMap = map[string]string{
	"nb": "no",
}

// DefaultIndexBase is the attribute family named by the entity key itself.
const DefaultIndexBase = "Country"

// Source is what the scraper needs from Wikipedia.
type Source interface {
	LangLinks(ctx context.Context, title string) (map[string]string, error)
	Infobox(ctx context.Context, title, field string) (string, error)
}

// Scraper builds a table of Wikipedia values shaped like a reference table.
type Scraper struct {
	src       Source
	langMap   map[string]string
	indexBase string
	progress  io.Writer
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// OptLanguageMap replaces the deck to Wikipedia language code mapping.
func OptLanguageMap(m map[string]string) ScraperOption {
	return func(s *Scraper) {
		if m != nil {
			s.langMap = m
		}
	}
}

// OptIndexBase sets the attribute family whose English value is the entity
// key, so its translations come from the entity page.
func OptIndexBase(base string) ScraperOption {
	return func(s *Scraper) {
		if base != "" {
			s.indexBase = base
		}
	}
}

// OptProgress sets where the progress bar is drawn. Nil hides it.
func OptProgress(w io.Writer) ScraperOption {
	return func(s *Scraper) {
		s.progress = w
	}
}

// NewScraper creates a scraper reading from src.
func NewScraper(src Source, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		src:       src,
		langMap:   DefaultLanguageMap,
		indexBase: DefaultIndexBase,
		progress:  os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WikiLanguage maps a deck language code to a Wikipedia one.
func (s *Scraper) WikiLanguage(lang string) string {
	if wp, ok := s.langMap[lang]; ok {
		return wp
	}
	return lang
}

type stats struct {
	lookups int
	missing int
}

// Scrape fetches a value for every cell of ref that Wikipedia can provide.
// Lookups that find nothing leave the cell absent. Only a cancelled context
// stops the scrape.
func (s *Scraper) Scrape(ctx context.Context, ref *geodata.Table) (*geodata.Table, error) {
	out := geodata.EmptyLike(ref)
	entities := ref.Entities()

	slog.Info("Scraping Wikipedia",
		"entities", humanize.Comma(int64(len(entities))),
		"languages", strings.Join(ref.Languages(), ","))

	bar := pb.Full.New(len(entities))
	bar.Set("prefix", "Scraping Wikipedia: ")
	bar.Set(pb.CleanOnFinish, true)
	if s.progress == nil {
		bar.SetWriter(io.Discard)
	} else {
		bar.SetWriter(s.progress)
	}
	bar.Start()
	defer bar.Finish()

	families := s.families(ref)
	order := familyOrder(ref)
	var st stats
	for _, entity := range entities {
		for _, base := range order {
			if err := s.scrapeFamily(ctx, ref, out, entity, base, families[base], &st); err != nil {
				return nil, err
			}
		}
		bar.Increment()
	}

	slog.Info("Wikipedia scrape finished",
		"lookups", humanize.Comma(int64(st.lookups)),
		"missing", humanize.Comma(int64(st.missing)))
	return out, nil
}

// family lists the attributes sharing a base name.
type family struct {
	bare         bool
	translations []string
}

func (s *Scraper) families(ref *geodata.Table) map[string]*family {
	res := make(map[string]*family)
	for _, attr := range ref.Attributes() {
		base := geodata.BaseOf(attr)
		f, ok := res[base]
		if !ok {
			f = &family{}
			res[base] = f
		}
		if geodata.LanguageOf(attr) == "" {
			f.bare = true
		} else {
			f.translations = append(f.translations, attr)
		}
	}
	return res
}

func familyOrder(ref *geodata.Table) []string {
	var res []string
	seen := make(map[string]bool)
	for _, attr := range ref.Attributes() {
		base := geodata.BaseOf(attr)
		if !seen[base] {
			seen[base] = true
			res = append(res, base)
		}
	}
	return res
}

func (s *Scraper) scrapeFamily(
	ctx context.Context,
	ref, out *geodata.Table,
	entity, base string,
	f *family,
	st *stats,
) error {
	// The entity key is the English title of the index family. Other
	// families are looked up by their English reference value, and only
	// when that value exists.
	title := entity
	if base != s.indexBase {
		v := ref.Get(entity, base)
		if !v.Present {
			return nil
		}
		title = v.Text

		if f.bare {
			field := strings.ToLower(base)
			st.lookups++
			val, err := s.src.Infobox(ctx, entity, field)
			if stop := s.lookupFailed(ctx, err, st, "No infobox value found", entity, base); stop != nil {
				return stop
			}
			if err == nil {
				_ = out.Set(entity, base, geodata.Some(val))
			}
		}
	}

	if len(f.translations) == 0 {
		return nil
	}

	st.lookups++
	links, err := s.src.LangLinks(ctx, title)
	if stop := s.lookupFailed(ctx, err, st, "No Wikipedia langlinks found", entity, base); stop != nil {
		return stop
	}
	if err != nil {
		return nil
	}

	for _, attr := range f.translations {
		lang := geodata.LanguageOf(attr)
		tr, ok := links[s.WikiLanguage(lang)]
		if !ok {
			st.missing++
			slog.Debug("No Wikipedia translation found", "entity", entity, "attribute", attr)
			continue
		}
		_ = out.Set(entity, attr, geodata.Some(tr))
	}
	return nil
}

// lookupFailed logs a failed lookup and returns an error only when the scrape
// must stop.
func (*Scraper) lookupFailed(ctx context.Context, err error, st *stats, msg, entity, attr string) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	st.missing++
	if errors.Is(err, ErrNotFound) {
		slog.Warn(msg, "entity", entity, "attribute", attr)
		return nil
	}
	slog.Warn(msg, "entity", entity, "attribute", attr, "error", err)
	return nil
}
