// Package reconcile decides, cell by cell, whether a reference value and a
// value scraped from Wikipedia describe the same name.
//
// Matching is tiered: exact equality of the plain text, exact equality with a
// disambiguation suffix appended to the reference, and finally substring
// containment after case, diacritic and punctuation folding. The fuzzy flag is
// a superset of the strict flag.
package reconcile

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ultimate-geography/ugwp/internal/wikitext"
)

// Substitution replaces Pattern with Replacement during fuzzy folding.
type Substitution struct {
	Pattern     string `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Replacement string `mapstructure:"replacement" yaml:"replacement" json:"replacement"`
}

// DefaultSubstitutions is applied in order, once per candidate.
var DefaultSubstitutions = []Substitution{
	{"saint", "st"},
	{".", ""},
	{"-", " "},
	{"`", "'"},
}

// Normalizer folds strings into comparison candidates.
type Normalizer struct {
	subs []Substitution
}

// NewNormalizer creates a Normalizer. A nil table means
// DefaultSubstitutions.
func NewNormalizer(subs []Substitution) *Normalizer {
	if subs == nil {
		subs = DefaultSubstitutions
	}
	return &Normalizer{subs: subs}
}

// Normalize returns the candidate forms of text.
//
// Without fuzzy it returns the raw text, its markup-stripped plain text and
// the trimmed plain text. With fuzzy it returns lower-cased and case-folded
// forms of those, followed by their ASCII transliterations, each passed
// through the substitution table.
func (n *Normalizer) Normalize(text string, fuzzy bool) []string {
	stripped := wikitext.StripCode(text)
	plain := []string{text, stripped, strings.TrimSpace(stripped)}
	if !fuzzy {
		return plain
	}

	folded := make([]string, 0, 4*len(plain))
	for _, p := range plain {
		folded = append(folded, strings.ToLower(p))
	}
	for _, p := range plain {
		folded = append(folded, cases.Fold().String(p))
	}
	for _, f := range folded[:len(folded):len(folded)] {
		folded = append(folded, toASCII(f))
	}
	for i, f := range folded {
		folded[i] = n.substitute(f)
	}
	return folded
}

func (n *Normalizer) substitute(s string) string {
	for _, sub := range n.subs {
		if sub.Pattern != "" && strings.Contains(s, sub.Pattern) {
			s = strings.ReplaceAll(s, sub.Pattern, sub.Replacement)
		}
	}
	return s
}

// toASCII drops combining marks and transliterates what is left.
func toASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		res = s
	}
	return unidecode.Unidecode(res)
}
