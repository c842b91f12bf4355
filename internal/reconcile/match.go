package reconcile

import (
	"slices"
	"strings"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

// Method tells which tier decided a cell.
type Method string

const (
	MethodBothAbsent Method = "both_absent"
	MethodNoSource   Method = "no_source"
	MethodExact      Method = "exact"
	MethodSuffix     Method = "suffix"
	MethodFuzzy      Method = "fuzzy"
	MethodNone       Method = "none"
)

// CellResult is the outcome of comparing one cell.
type CellResult struct {
	Strict bool
	Fuzzy  bool
	Method Method
}

// Matcher compares a reference value with a scraped value.
type Matcher struct {
	norm *Normalizer
	exp  *Expander
}

// NewMatcher creates a Matcher from its collaborators. Nil arguments fall
// back to the defaults.
func NewMatcher(n *Normalizer, e *Expander) *Matcher {
	if n == nil {
		n = NewNormalizer(nil)
	}
	if e == nil {
		e = NewExpander(nil)
	}
	return &Matcher{norm: n, exp: e}
}

// Match classifies one cell. When expand is false the reference is compared
// without disambiguation suffixes.
//
// A scraped value that is absent never reaches the fuzzy tier.
func (m *Matcher) Match(ref, scraped geodata.Value, expand bool) CellResult {
	switch {
	case !ref.Present && !scraped.Present:
		return CellResult{Strict: true, Fuzzy: true, Method: MethodBothAbsent}
	case !scraped.Present:
		return CellResult{Method: MethodNoSource}
	case !ref.Present:
		return CellResult{Method: MethodNone}
	}

	refs := []string{ref.Text}
	if expand {
		refs = m.exp.Expand(ref.Text)
	}

	plain := m.norm.Normalize(scraped.Text, false)
	for i, r := range refs {
		if slices.Contains(plain, r) {
			method := MethodExact
			if i > 0 {
				method = MethodSuffix
			}
			return CellResult{Strict: true, Fuzzy: true, Method: method}
		}
	}

	scrapedFolded := m.norm.Normalize(scraped.Text, true)
	for _, r := range refs {
		for _, rf := range m.norm.Normalize(r, true) {
			if rf == "" {
				continue
			}
			for _, sf := range scrapedFolded {
				if strings.Contains(sf, rf) {
					return CellResult{Fuzzy: true, Method: MethodFuzzy}
				}
			}
		}
	}

	return CellResult{Method: MethodNone}
}
