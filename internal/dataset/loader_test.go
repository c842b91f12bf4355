package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `Country,Country info,Country:de,Country:nb,Capital,Capital info,Capital:de,Capital:nb,Flag
Egypt,,Ägypten,Egypt,Cairo,,Kairo,Kairo,eg
Antarctica,Continent,Antarktika,Antarktis,,,,,aq
`

func TestNewLoader(t *testing.T) {
	l := NewLoader("")
	assert.Equal(t, DefaultSource, l.source)
	assert.Equal(t, DefaultIndexColumn, l.indexColumn)

	l = NewLoader("data.csv", OptIndexColumn("Name"), OptBases([]string{"Capital"}))
	assert.Equal(t, "Name", l.indexColumn)
	assert.Equal(t, []string{"Capital"}, l.bases)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testData), 0644))

	tbl, err := NewLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Egypt", "Antarctica"}, tbl.Entities())
	assert.Equal(t,
		[]string{"Country:de", "Country:nb", "Capital", "Capital:de", "Capital:nb"},
		tbl.Attributes(), "info columns are dropped")
	assert.Equal(t, "Kairo", tbl.Get("Egypt", "Capital:nb").Text)
	assert.False(t, tbl.Get("Antarctica", "Capital").Present)
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testData))
	}))
	defer srv.Close()

	tbl, err := NewLoader(srv.URL+"/data.csv", OptBases([]string{"Capital"})).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Capital", "Capital:de", "Capital:nb"}, tbl.Attributes())

	_, err = NewLoader(srv.URL + "/missing.csv").Load(context.Background())
	assert.ErrorContains(t, err, "404")
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/data.csv").Load(context.Background())
	assert.Error(t, err)
}
