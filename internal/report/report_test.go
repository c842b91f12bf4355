package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ultimate-geography/ugwp/internal/geodata"
	"github.com/ultimate-geography/ugwp/internal/reconcile"
)

func sampleReport() *Report {
	noSource := reconcile.Entry{
		Entity: "Egypt", Attribute: "Capital:nb",
		Reference: geodata.Some("Kairo"), Scraped: geodata.None(),
		Category: reconcile.CategoryNoSource, Method: reconcile.MethodNoSource,
	}
	fuzzy := reconcile.Entry{
		Entity: "Russia", Attribute: "Capital:de",
		Reference: geodata.Some("St. Petersburg"), Scraped: geodata.Some("Sankt Petersburg"),
		Category: reconcile.CategoryFuzzy, Method: reconcile.MethodFuzzy,
	}
	mismatch := reconcile.Entry{
		Entity: "Bolivia", Attribute: "Capital",
		Reference: geodata.Some("Sucre"), Scraped: geodata.Some("[[La Paz]]"),
		Category: reconcile.CategoryMismatch, Method: reconcile.MethodNone,
	}
	return &Report{
		Generated: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		Source:    "data.csv",
		Snapshot:  "data_wikipedia_20240309.csv",
		Summary: &reconcile.Summary{
			Total:              12,
			TotalWithReference: 10,
			Matching:           7,
			NoSource:           1,
			Fuzzy:              1,
			Mismatch:           1,
			MismatchByLanguage: map[string]int{"en": 1, "de": 0, "nb": 0},
			Languages:          []string{"en", "de", "nb"},
			NoSourceEntries:    []reconcile.Entry{noSource},
			FuzzyEntries:       []reconcile.Entry{fuzzy},
			MismatchEntries:    []reconcile.Entry{mismatch},
			MatchingEntities:   []string{"Antarctica"},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Egypt:Capital:nb (UG=Kairo)")
	assert.Contains(t, out, "Russia:Capital:de UG=St. Petersburg WP=Sankt Petersburg")
	assert.Contains(t, out, "Bolivia:Capital"+strings.Repeat(" ", 3)+"UG=Sucre"+strings.Repeat(" ", 10)+"WP=[[La Paz]]")
	assert.Contains(t, out, "Values not matching (nb)")
	assert.Contains(t, out, "Values w/o Wikipedia data")

	noSourceAt := strings.Index(out, "could not be found")
	fuzzyAt := strings.Index(out, "human verification")
	mismatchAt := strings.Index(out, "Mismatches between")
	assert.True(t, noSourceAt < fuzzyAt && fuzzyAt < mismatchAt, "listings keep their order")
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		scraped string
		want    float64
	}{
		{"identical after markup removal", "Sucre", "[[Sucre]]", 1},
		{"one edit", "Kairo", "Cairo", 0.8},
		{"both empty", "", "", 1},
		{"nothing in common", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := reconcile.Entry{Reference: geodata.Some(tt.ref), Scraped: geodata.Some(tt.scraped)}
			assert.InDelta(t, tt.want, Similarity(e), 1e-9)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 7, doc.Matching)
	assert.Equal(t, "2024-03-09T12:00:00Z", doc.Generated)
	require.Len(t, doc.Entries, 3)
	assert.Nil(t, doc.Entries[0].Wikipedia)
	assert.Equal(t, "Kairo", *doc.Entries[0].Reference)
	assert.Nil(t, doc.Entries[1].Similarity)
	require.NotNil(t, doc.Entries[2].Similarity)
	assert.Equal(t, "en", doc.Entries[2].Language)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleReport()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 12, doc["total"])
	assert.Len(t, doc["entries"], 3)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Entity", records[0][0])
	assert.Equal(t, []string{"Egypt", "Capital:nb", "nb", "no_source", "no_source", "Kairo", "", ""}, records[1])
	assert.Equal(t, "mismatch", records[3][3])
	assert.NotEmpty(t, records[3][7])
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", sampleReport())
	assert.ErrorContains(t, err, "unsupported format")
	assert.True(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat("xml"))
}
