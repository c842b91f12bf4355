// Package geodata holds the two-dimensional tables compared by ugwp.
//
// A Table maps (entity, attribute) pairs to optional string values. Entities
// are English country names; attributes are "Capital", "Capital:<lang>" and
// "Country:<lang>". Tables are built once by a loader or scraper and treated
// as read-only afterwards.
package geodata

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrStructuralMismatch is returned when two tables do not share identical
// entity and attribute key sets.
var ErrStructuralMismatch = errors.New("tables do not have identical structure")

// Value is an optional cell value. The zero Value is absent.
type Value struct {
	Text    string
	Present bool
}

// Some returns a present Value.
func Some(s string) Value {
	return Value{Text: s, Present: true}
}

// None returns an absent Value.
func None() Value {
	return Value{}
}

// String renders absent values the way the report shows them.
func (v Value) String() string {
	if !v.Present {
		return "NaN"
	}
	return v.Text
}

// Table is an entity x attribute grid of optional strings.
type Table struct {
	entities   []string
	attributes []string
	entityIdx  map[string]int
	attrIdx    map[string]int
	cells      [][]Value
}

// NewTable creates an empty table with the given keys. Duplicate keys are
// rejected.
func NewTable(entities, attributes []string) (*Table, error) {
	t := &Table{
		entities:   slices.Clone(entities),
		attributes: slices.Clone(attributes),
		entityIdx:  make(map[string]int, len(entities)),
		attrIdx:    make(map[string]int, len(attributes)),
	}

	for i, e := range t.entities {
		if _, dup := t.entityIdx[e]; dup {
			return nil, fmt.Errorf("duplicate entity key %q", e)
		}
		t.entityIdx[e] = i
	}
	for i, a := range t.attributes {
		if _, dup := t.attrIdx[a]; dup {
			return nil, fmt.Errorf("duplicate attribute key %q", a)
		}
		t.attrIdx[a] = i
	}

	t.cells = make([][]Value, len(t.entities))
	for i := range t.cells {
		t.cells[i] = make([]Value, len(t.attributes))
	}
	return t, nil
}

// EmptyLike returns a table with the same keys as t and every cell absent.
func EmptyLike(t *Table) *Table {
	// keys of an existing table are already unique
	res, _ := NewTable(t.entities, t.attributes)
	return res
}

// Entities returns the entity keys in table order.
func (t *Table) Entities() []string {
	return slices.Clone(t.entities)
}

// Attributes returns the attribute keys in table order.
func (t *Table) Attributes() []string {
	return slices.Clone(t.attributes)
}

// Len returns the number of cells.
func (t *Table) Len() int {
	return len(t.entities) * len(t.attributes)
}

// Has reports whether the table has the (entity, attribute) cell.
func (t *Table) Has(entity, attribute string) bool {
	_, okE := t.entityIdx[entity]
	_, okA := t.attrIdx[attribute]
	return okE && okA
}

// HasEntity reports whether the table has a row for entity.
func (t *Table) HasEntity(entity string) bool {
	_, ok := t.entityIdx[entity]
	return ok
}

// Get returns the value of a cell. Unknown keys yield an absent value.
func (t *Table) Get(entity, attribute string) Value {
	i, okE := t.entityIdx[entity]
	j, okA := t.attrIdx[attribute]
	if !okE || !okA {
		return None()
	}
	return t.cells[i][j]
}

// Set writes a cell. It is meant for loaders while the table is being built.
func (t *Table) Set(entity, attribute string, v Value) error {
	i, okE := t.entityIdx[entity]
	if !okE {
		return fmt.Errorf("unknown entity %q", entity)
	}
	j, okA := t.attrIdx[attribute]
	if !okA {
		return fmt.Errorf("unknown attribute %q", attribute)
	}
	t.cells[i][j] = v
	return nil
}

// Subset returns a copy restricted to the given entities, keeping table
// order. Unknown entities are reported as an error.
func (t *Table) Subset(entities []string) (*Table, error) {
	keep := make(map[string]bool, len(entities))
	for _, e := range entities {
		if _, ok := t.entityIdx[e]; !ok {
			return nil, fmt.Errorf("unknown entity %q", e)
		}
		keep[e] = true
	}

	var ents []string
	for _, e := range t.entities {
		if keep[e] {
			ents = append(ents, e)
		}
	}

	res, err := NewTable(ents, t.attributes)
	if err != nil {
		return nil, err
	}
	for _, e := range ents {
		copy(res.cells[res.entityIdx[e]], t.cells[t.entityIdx[e]])
	}
	return res, nil
}

// StructuralMismatchError lists the keys that differ between two tables.
type StructuralMismatchError struct {
	MissingEntities   []string // in the first table only
	ExtraEntities     []string // in the second table only
	MissingAttributes []string
	ExtraAttributes   []string
}

func (e *StructuralMismatchError) Error() string {
	var parts []string
	add := func(label string, keys []string) {
		if len(keys) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(keys, ", ")))
		}
	}
	add("entities only in first", e.MissingEntities)
	add("entities only in second", e.ExtraEntities)
	add("attributes only in first", e.MissingAttributes)
	add("attributes only in second", e.ExtraAttributes)
	return ErrStructuralMismatch.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *StructuralMismatchError) Unwrap() error {
	return ErrStructuralMismatch
}

// SameShape checks that t and other share identical key sets. Key order is
// not significant.
func (t *Table) SameShape(other *Table) error {
	me := &StructuralMismatchError{
		MissingEntities:   keyDiff(t.entities, other.entityIdx),
		ExtraEntities:     keyDiff(other.entities, t.entityIdx),
		MissingAttributes: keyDiff(t.attributes, other.attrIdx),
		ExtraAttributes:   keyDiff(other.attributes, t.attrIdx),
	}
	if len(me.MissingEntities)+len(me.ExtraEntities)+
		len(me.MissingAttributes)+len(me.ExtraAttributes) == 0 {
		return nil
	}
	return me
}

func keyDiff(keys []string, idx map[string]int) []string {
	var res []string
	for _, k := range keys {
		if _, ok := idx[k]; !ok {
			res = append(res, k)
		}
	}
	return res
}

// LanguageOf returns the language code of an attribute such as "Capital:de",
// or "" for a base attribute.
func LanguageOf(attribute string) string {
	if pos := strings.Index(attribute, ":"); pos > 0 {
		return attribute[pos+1:]
	}
	return ""
}

// BaseOf returns the attribute name without its language code.
func BaseOf(attribute string) string {
	if pos := strings.Index(attribute, ":"); pos > 0 {
		return attribute[:pos]
	}
	return attribute
}

// Languages returns the distinct language codes used by attributes, in
// first-seen order.
func (t *Table) Languages() []string {
	var res []string
	for _, a := range t.attributes {
		if lang := LanguageOf(a); lang != "" && !slices.Contains(res, lang) {
			res = append(res, lang)
		}
	}
	return res
}
