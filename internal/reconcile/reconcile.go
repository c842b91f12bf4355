package reconcile

import (
	"fmt"
	"strings"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

// SuffixScope selects the attributes whose reference values are expanded
// with disambiguation suffixes.
type SuffixScope string

const (
	ScopeAll     SuffixScope = "all"
	ScopeCountry SuffixScope = "country"
	ScopeCapital SuffixScope = "capital"
	ScopeNone    SuffixScope = "none"
)

// Valid reports whether s is a known scope.
func (s SuffixScope) Valid() bool {
	switch s {
	case ScopeAll, ScopeCountry, ScopeCapital, ScopeNone:
		return true
	}
	return false
}

// Applies reports whether suffix expansion is used for attribute.
func (s SuffixScope) Applies(attribute string) bool {
	base := strings.ToLower(geodata.BaseOf(attribute))
	switch s {
	case ScopeAll:
		return true
	case ScopeCountry:
		return base == "country"
	case ScopeCapital:
		return base == "capital"
	}
	return false
}

// Cell addresses one (entity, attribute) slot.
type Cell struct {
	Entity    string
	Attribute string
}

// Result holds the two boolean tables produced by Reconcile.
type Result struct {
	Strict  *geodata.Grid
	Fuzzy   *geodata.Grid
	methods map[Cell]Method
}

// Method returns the tier that decided a cell.
func (r *Result) Method(entity, attribute string) Method {
	return r.methods[Cell{entity, attribute}]
}

// Reconciler applies a Matcher to every cell of two aligned tables.
type Reconciler struct {
	matcher *Matcher
	scope   SuffixScope
}

// NewReconciler creates a Reconciler. An empty scope means ScopeAll.
func NewReconciler(m *Matcher, scope SuffixScope) *Reconciler {
	if m == nil {
		m = NewMatcher(nil, nil)
	}
	if scope == "" {
		scope = ScopeAll
	}
	return &Reconciler{matcher: m, scope: scope}
}

// Reconcile compares ref and scraped cell by cell. Tables with different key
// sets fail with geodata.ErrStructuralMismatch and no result.
func (r *Reconciler) Reconcile(ref, scraped *geodata.Table) (*Result, error) {
	if err := ref.SameShape(scraped); err != nil {
		return nil, fmt.Errorf("cannot compare reference and Wikipedia data: %w", err)
	}

	res := &Result{
		Strict:  geodata.NewGrid(ref),
		Fuzzy:   geodata.NewGrid(ref),
		methods: make(map[Cell]Method, ref.Len()),
	}

	for _, attr := range ref.Attributes() {
		expand := r.scope.Applies(attr)
		for _, entity := range ref.Entities() {
			cr := r.matcher.Match(ref.Get(entity, attr), scraped.Get(entity, attr), expand)
			res.Strict.Set(entity, attr, cr.Strict)
			res.Fuzzy.Set(entity, attr, cr.Fuzzy || cr.Strict)
			res.methods[Cell{entity, attr}] = cr.Method
		}
	}
	return res, nil
}
