package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/olekukonko/tablewriter"

	"github.com/ultimate-geography/ugwp/internal/reconcile"
	"github.com/ultimate-geography/ugwp/internal/wikitext"
)

// WriteText prints the three review listings followed by the summary counts.
func WriteText(w io.Writer, r *Report) error {
	s := r.Summary
	p := &printer{w: w}

	p.println(strings.Repeat("=", 70))
	p.println("Ultimate Geography vs Wikipedia")
	p.println(strings.Repeat("=", 70))
	if !r.Generated.IsZero() {
		p.printf("Generated: %s\n", r.Generated.Format("2006-01-02 15:04:05"))
	}
	if r.Source != "" {
		p.printf("Reference: %s\n", r.Source)
	}
	if r.Snapshot != "" {
		p.printf("Wikipedia: %s\n", r.Snapshot)
	}

	al := newAligner(s)

	p.println("\nFields for which UG data exists, but Wikipedia data could not be found:")
	p.println(strings.Repeat("-", 70))
	for _, e := range s.NoSourceEntries {
		p.printf("%s (UG=%s)\n", e.Entity+":"+e.Attribute, e.Reference)
	}

	p.println("\nFields which probably match, but should get human verification for")
	p.println("missing accents, capitalization, abbreviations (St. vs Saint) or")
	p.println("countries with more than one capital:")
	p.println(strings.Repeat("-", 70))
	for _, e := range s.FuzzyEntries {
		p.println(al.line(e))
	}

	p.println("\nMismatches between UG and Wikipedia:")
	p.println(strings.Repeat("-", 70))
	for _, e := range s.MismatchEntries {
		p.printf("%s  (%.0f%% similar)\n", al.line(e), Similarity(e)*100)
	}
	if p.err != nil {
		return p.err
	}

	p.println("")
	if err := writeCounts(w, s); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return p.err
}

// Similarity compares the reference value with the plain text of the
// Wikipedia value: 1 means identical, 0 means nothing in common.
func Similarity(e reconcile.Entry) float64 {
	a := e.Reference.Text
	b := strings.TrimSpace(wikitext.StripCode(e.Scraped.Text))
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

type countRow struct {
	label string
	value int
}

// counts returns the summary counts in print order.
func counts(s *reconcile.Summary) []countRow {
	rows := []countRow{
		{"Total values (incl. UG=NaN)", s.Total},
		{"Total values (w/o UG=NaN)", s.TotalWithReference},
		{"Values matching", s.Matching},
		{"Values w/o Wikipedia data", s.NoSource},
		{"Values with fuzzy matching", s.Fuzzy},
		{"Values not matching", s.Mismatch},
	}
	for _, lang := range s.Languages {
		rows = append(rows, countRow{
			label: fmt.Sprintf("Values not matching (%s)", lang),
			value: s.MismatchByLanguage[lang],
		})
	}
	return rows
}

func writeCounts(w io.Writer, s *reconcile.Summary) error {
	table := tablewriter.NewTable(w)
	table.Header("Summary", "Count")
	for _, row := range counts(s) {
		if err := table.Append(row.label, strconv.Itoa(row.value)); err != nil {
			return err
		}
	}
	return table.Render()
}

// aligner pads review lines so UG and WP values line up in columns.
type aligner struct {
	keyWidth int
	refWidth int
}

func newAligner(s *reconcile.Summary) aligner {
	var al aligner
	for _, list := range [][]reconcile.Entry{s.NoSourceEntries, s.FuzzyEntries, s.MismatchEntries} {
		for _, e := range list {
			al.keyWidth = max(al.keyWidth, utf8.RuneCountInString(e.Entity+":"+e.Attribute))
			al.refWidth = max(al.refWidth, utf8.RuneCountInString(e.Reference.String()))
		}
	}
	return al
}

func (al aligner) line(e reconcile.Entry) string {
	return fmt.Sprintf("%-*s UG=%-*s WP=%s",
		al.keyWidth, e.Entity+":"+e.Attribute,
		al.refWidth, e.Reference.String(),
		e.Scraped.String())
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
