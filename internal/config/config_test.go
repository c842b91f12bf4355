package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ultimate-geography/ugwp/internal/reconcile"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Country", cfg.Reference.IndexColumn)
	assert.Equal(t, time.Second, cfg.Wikipedia.Delay)
	assert.Equal(t, "no", cfg.Wikipedia.LanguageMap["nb"])
	assert.Equal(t, "all", cfg.Match.SuffixScope)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative delay", func(c *Config) { c.Wikipedia.Delay = -time.Second }, "wikipedia.delay"},
		{"snapshot format", func(c *Config) { c.Snapshot.Format = "xlsx" }, "snapshot.format"},
		{"suffix scope", func(c *Config) { c.Match.SuffixScope = "cities" }, "match.suffix_scope"},
		{"empty pattern", func(c *Config) {
			c.Match.Substitutions = []reconcile.Substitution{{Pattern: "", Replacement: "x"}}
		}, "match.substitutions[0]"},
		{"report format", func(c *Config) { c.Report.Format = "html" }, "report.format"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Snapshot: SnapshotConfig{Format: "parquet"}}
	cfg.MergeWithDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "parquet", cfg.Snapshot.Format)
	assert.Equal(t, Defaults().Reference.Source, cfg.Reference.Source)
	assert.Equal(t, reconcile.DefaultSuffixes, cfg.Match.Suffixes)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	res, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults", res.Source)
	assert.Empty(t, res.SourcePath)
	assert.Equal(t, Defaults().Wikipedia.Endpoint, res.Config.Wikipedia.Endpoint)
	assert.Equal(t, reconcile.DefaultSubstitutions, res.Config.Match.Substitutions)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
reference:
  source: ./data.csv
wikipedia:
  delay: 250ms
  language_map:
    nb: "no"
    zh: zh-yue
snapshot:
  format: parquet
match:
  suffix_scope: country
  substitutions:
    - pattern: saint
      replacement: st
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ugwp.yaml"), []byte(content), 0644))

	res, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file", res.Source)
	cfg := res.Config
	assert.Equal(t, "./data.csv", cfg.Reference.Source)
	assert.Equal(t, 250*time.Millisecond, cfg.Wikipedia.Delay)
	assert.Equal(t, "zh-yue", cfg.Wikipedia.LanguageMap["zh"])
	assert.Equal(t, "parquet", cfg.Snapshot.Format)
	assert.Equal(t, "country", cfg.Match.SuffixScope)
	assert.Equal(t, []reconcile.Substitution{{Pattern: "saint", Replacement: "st"}}, cfg.Match.Substitutions)
	assert.Equal(t, "Country", cfg.Reference.IndexColumn)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("UGWP_SNAPSHOT_DIR", "/tmp/ugwp")
	t.Setenv("UGWP_LOG_LEVEL", "debug")

	res, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "/tmp/ugwp", res.Config.Snapshot.Dir)
	assert.Equal(t, "debug", res.Config.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  format: xlsx\n"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestWriteAndGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Defaults()))

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, Defaults().Match.Suffixes, back.Match.Suffixes)
	assert.Equal(t, time.Second, back.Wikipedia.Delay)

	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := Generate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ugwp", "ugwp.yaml"), path)

	res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, *Defaults(), *res.Config)

	_, err = Generate()
	assert.ErrorContains(t, err, "already exists")
}
