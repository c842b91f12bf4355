package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultimate-geography/ugwp/internal/geodata"
)

func TestClassify(t *testing.T) {
	s, n := geodata.Some("x"), geodata.None()

	assert.Equal(t, CategoryNoReference, Classify(n, n, true, true))
	assert.Equal(t, CategoryNoSource, Classify(s, n, false, false))
	assert.Equal(t, CategoryMatch, Classify(s, s, true, true))
	assert.Equal(t, CategoryFuzzy, Classify(s, s, false, true))
	assert.Equal(t, CategoryMismatch, Classify(s, s, false, false))
	assert.Equal(t, CategoryMismatch, Classify(n, s, false, false))
}

func TestSummarize(t *testing.T) {
	ref, scraped := sampleTables(t)
	res, err := NewReconciler(nil, ScopeAll).Reconcile(ref, scraped)
	require.NoError(t, err)

	sum := Summarize(ref, scraped, res)

	assert.Equal(t, 16, sum.Total)
	assert.Equal(t, 14, sum.TotalWithReference)
	assert.Equal(t, 1, sum.NoSource)
	assert.Equal(t, 2, sum.Fuzzy)
	assert.Equal(t, 1, sum.Mismatch)
	assert.Equal(t, 10, sum.Matching)
	assert.Equal(t, sum.TotalWithReference,
		sum.Matching+sum.NoSource+sum.Fuzzy+sum.Mismatch)

	assert.Equal(t, []string{"en", "de", "nb"}, sum.Languages)
	assert.Equal(t, 1, sum.MismatchByLanguage["nb"])
	assert.Equal(t, 0, sum.MismatchByLanguage["en"])

	require.Len(t, sum.NoSourceEntries, 1)
	assert.Equal(t, "Egypt", sum.NoSourceEntries[0].Entity)
	assert.Equal(t, "Capital:de", sum.NoSourceEntries[0].Attribute)

	require.Len(t, sum.FuzzyEntries, 2)
	assert.Equal(t, "Bolivia", sum.FuzzyEntries[0].Entity)
	assert.Equal(t, "Capital", sum.FuzzyEntries[0].Attribute)
	assert.Equal(t, "Country:nb", sum.FuzzyEntries[1].Attribute)

	require.Len(t, sum.MismatchEntries, 1)
	assert.Equal(t, "Russia", sum.MismatchEntries[0].Entity)
	assert.Equal(t, "nb", sum.MismatchEntries[0].Language())

	assert.Equal(t, []string{"Antarctica"}, sum.MatchingEntities)
}
