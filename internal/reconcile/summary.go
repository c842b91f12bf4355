package reconcile

import (
	"slices"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

// Category is the review bucket of a cell.
type Category string

const (
	CategoryMatch       Category = "match"
	CategoryFuzzy       Category = "fuzzy"
	CategoryMismatch    Category = "mismatch"
	CategoryNoSource    Category = "no_source"
	CategoryNoReference Category = "no_reference"
)

// DefaultLanguage is the language of attributes without a language code.
const DefaultLanguage = "en"

// Classify puts a reconciled cell in its review bucket.
func Classify(ref, scraped geodata.Value, strict, fuzzy bool) Category {
	switch {
	case !strict && !scraped.Present:
		return CategoryNoSource
	case strict && !ref.Present:
		return CategoryNoReference
	case strict:
		return CategoryMatch
	case fuzzy:
		return CategoryFuzzy
	}
	return CategoryMismatch
}

// Entry is a cell that needs human attention.
type Entry struct {
	Entity    string        `json:"entity" yaml:"entity"`
	Attribute string        `json:"attribute" yaml:"attribute"`
	Reference geodata.Value `json:"-" yaml:"-"`
	Scraped   geodata.Value `json:"-" yaml:"-"`
	Category  Category      `json:"category" yaml:"category"`
	Method    Method        `json:"method" yaml:"method"`
}

// Language returns the language of the entry's attribute.
func (e Entry) Language() string {
	if lang := geodata.LanguageOf(e.Attribute); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Summary aggregates a reconciliation run.
type Summary struct {
	Total              int            `json:"total" yaml:"total"`
	TotalWithReference int            `json:"total_with_reference" yaml:"total_with_reference"`
	Matching           int            `json:"matching" yaml:"matching"`
	NoSource           int            `json:"no_source" yaml:"no_source"`
	Fuzzy              int            `json:"fuzzy" yaml:"fuzzy"`
	Mismatch           int            `json:"mismatch" yaml:"mismatch"`
	MismatchByLanguage map[string]int `json:"mismatch_by_language" yaml:"mismatch_by_language"`

	// Languages lists the mismatch breakdown keys in print order.
	Languages []string `json:"languages" yaml:"languages"`

	NoSourceEntries []Entry `json:"no_source_entries" yaml:"no_source_entries"`
	FuzzyEntries    []Entry `json:"fuzzy_entries" yaml:"fuzzy_entries"`
	MismatchEntries []Entry `json:"mismatch_entries" yaml:"mismatch_entries"`

	// MatchingEntities are entities whose every cell strictly matches.
	MatchingEntities []string `json:"matching_entities" yaml:"matching_entities"`
}

// Summarize classifies every cell of a reconciled pair of tables. Entries
// keep table order: entities outer, attributes inner.
func Summarize(ref, scraped *geodata.Table, res *Result) *Summary {
	s := &Summary{
		Total:              ref.Len(),
		MismatchByLanguage: map[string]int{DefaultLanguage: 0},
		Languages:          []string{DefaultLanguage},
	}
	for _, lang := range ref.Languages() {
		if !slices.Contains(s.Languages, lang) {
			s.Languages = append(s.Languages, lang)
		}
		s.MismatchByLanguage[lang] = 0
	}

	var noRef int
	for _, entity := range ref.Entities() {
		for _, attr := range ref.Attributes() {
			e := Entry{
				Entity:    entity,
				Attribute: attr,
				Reference: ref.Get(entity, attr),
				Scraped:   scraped.Get(entity, attr),
				Method:    res.Method(entity, attr),
			}
			e.Category = Classify(e.Reference, e.Scraped,
				res.Strict.Get(entity, attr), res.Fuzzy.Get(entity, attr))

			switch e.Category {
			case CategoryNoReference:
				noRef++
			case CategoryNoSource:
				s.NoSource++
				s.NoSourceEntries = append(s.NoSourceEntries, e)
			case CategoryFuzzy:
				s.Fuzzy++
				s.FuzzyEntries = append(s.FuzzyEntries, e)
			case CategoryMismatch:
				s.Mismatch++
				s.MismatchByLanguage[e.Language()]++
				s.MismatchEntries = append(s.MismatchEntries, e)
			}
		}
		if res.Strict.AllEntity(entity) {
			s.MatchingEntities = append(s.MatchingEntities, entity)
		}
	}

	s.TotalWithReference = s.Total - noRef
	s.Matching = s.TotalWithReference - s.Fuzzy - s.NoSource - s.Mismatch
	return s
}
