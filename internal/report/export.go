package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ultimate-geography/ugwp/internal/geodata"
	"github.com/ultimate-geography/ugwp/internal/reconcile"
)

// Document is the machine readable form of a report.
type Document struct {
	Generated          string         `json:"generated,omitempty" yaml:"generated,omitempty"`
	Source             string         `json:"source,omitempty" yaml:"source,omitempty"`
	Snapshot           string         `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Total              int            `json:"total" yaml:"total"`
	TotalWithReference int            `json:"total_with_reference" yaml:"total_with_reference"`
	Matching           int            `json:"matching" yaml:"matching"`
	NoSource           int            `json:"no_source" yaml:"no_source"`
	Fuzzy              int            `json:"fuzzy" yaml:"fuzzy"`
	Mismatch           int            `json:"mismatch" yaml:"mismatch"`
	MismatchByLanguage map[string]int `json:"mismatch_by_language" yaml:"mismatch_by_language"`
	MatchingEntities   []string       `json:"matching_entities" yaml:"matching_entities"`
	Entries            []EntryRecord  `json:"entries" yaml:"entries"`
}

// EntryRecord is a cell that needs review.
type EntryRecord struct {
	Entity     string             `json:"entity" yaml:"entity"`
	Attribute  string             `json:"attribute" yaml:"attribute"`
	Language   string             `json:"language" yaml:"language"`
	Category   reconcile.Category `json:"category" yaml:"category"`
	Method     reconcile.Method   `json:"method" yaml:"method"`
	Reference  *string            `json:"reference" yaml:"reference"`
	Wikipedia  *string            `json:"wikipedia" yaml:"wikipedia"`
	Similarity *float64           `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

// NewDocument converts r to its machine readable form.
func NewDocument(r *Report) *Document {
	s := r.Summary
	doc := &Document{
		Source:             r.Source,
		Snapshot:           r.Snapshot,
		Total:              s.Total,
		TotalWithReference: s.TotalWithReference,
		Matching:           s.Matching,
		NoSource:           s.NoSource,
		Fuzzy:              s.Fuzzy,
		Mismatch:           s.Mismatch,
		MismatchByLanguage: s.MismatchByLanguage,
		MatchingEntities:   s.MatchingEntities,
		Entries:            make([]EntryRecord, 0, len(s.NoSourceEntries)+len(s.FuzzyEntries)+len(s.MismatchEntries)),
	}
	if !r.Generated.IsZero() {
		doc.Generated = r.Generated.Format(time.RFC3339)
	}

	for _, list := range [][]reconcile.Entry{s.NoSourceEntries, s.FuzzyEntries, s.MismatchEntries} {
		for _, e := range list {
			rec := EntryRecord{
				Entity:    e.Entity,
				Attribute: e.Attribute,
				Language:  e.Language(),
				Category:  e.Category,
				Method:    e.Method,
				Reference: optional(e.Reference),
				Wikipedia: optional(e.Scraped),
			}
			if e.Category == reconcile.CategoryMismatch {
				sim := Similarity(e)
				rec.Similarity = &sim
			}
			doc.Entries = append(doc.Entries, rec)
		}
	}
	return doc
}

func optional(v geodata.Value) *string {
	if !v.Present {
		return nil
	}
	s := v.Text
	return &s
}

// WriteJSON prints r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(r))
}

// WriteYAML prints r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(NewDocument(r)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteCSV prints one row per reviewed cell.
func WriteCSV(w io.Writer, r *Report) error {
	writer := csv.NewWriter(w)

	header := []string{"Entity", "Attribute", "Language", "Category", "Method", "UG", "WP", "Similarity"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range NewDocument(r).Entries {
		row := []string{
			rec.Entity,
			rec.Attribute,
			rec.Language,
			string(rec.Category),
			string(rec.Method),
			deref(rec.Reference),
			deref(rec.Wikipedia),
			"",
		}
		if rec.Similarity != nil {
			row[7] = strconv.FormatFloat(*rec.Similarity, 'f', 4, 64)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
