// Package config holds ugwp settings.
//
// Precedence (highest to lowest): CLI flags > env vars > ugwp.yaml > defaults.
//
// Environment variables use the UGWP_ prefix with underscores for nesting:
//
//	UGWP_REFERENCE_SOURCE=./data.csv
//	UGWP_WIKIPEDIA_DELAY=2s
//	UGWP_SNAPSHOT_FORMAT=parquet
//	UGWP_LOG_LEVEL=debug
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ultimate-geography/ugwp/internal/dataset"
	"github.com/ultimate-geography/ugwp/internal/reconcile"
	"github.com/ultimate-geography/ugwp/internal/report"
	"github.com/ultimate-geography/ugwp/internal/snapshot"
	"github.com/ultimate-geography/ugwp/internal/wikipedia"
)

// Config represents the complete ugwp configuration.
type Config struct {
	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia" yaml:"wikipedia"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot" yaml:"snapshot"`
	Match     MatchConfig     `mapstructure:"match" yaml:"match"`
	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ReferenceConfig describes where the deck data comes from.
type ReferenceConfig struct {
	// Source is an http(s) URL or a local path to the deck's data.csv.
	Source string `mapstructure:"source" yaml:"source"`

	// IndexColumn holds the English entity names.
	IndexColumn string `mapstructure:"index_column" yaml:"index_column"`

	// Bases are the compared attribute families. Each keeps its bare column
	// and all of its "<base>:<lang>" translations.
	Bases []string `mapstructure:"bases" yaml:"bases"`
}

// WikipediaConfig controls the MediaWiki client.
type WikipediaConfig struct {
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Delay     time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// LanguageMap maps deck language codes to Wikipedia ones.
	LanguageMap map[string]string `mapstructure:"language_map" yaml:"language_map"`
}

// SnapshotConfig controls the cache of scraped data.
type SnapshotConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// Format of new snapshots: "csv" or "parquet".
	Format string `mapstructure:"format" yaml:"format"`
}

// MatchConfig tunes the matcher.
type MatchConfig struct {
	Suffixes      []string                 `mapstructure:"suffixes" yaml:"suffixes"`
	Substitutions []reconcile.Substitution `mapstructure:"substitutions" yaml:"substitutions"`

	// SuffixScope is one of "all", "country", "capital" or "none".
	SuffixScope string `mapstructure:"suffix_scope" yaml:"suffix_scope"`
}

// ReportConfig sets the default output.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults returns a valid configuration.
func Defaults() *Config {
	return &Config{
		Reference: ReferenceConfig{
			Source:      dataset.DefaultSource,
			IndexColumn: dataset.DefaultIndexColumn,
			Bases:       slices.Clone(dataset.DefaultBases),
		},
		Wikipedia: WikipediaConfig{
			Endpoint:    wikipedia.DefaultEndpoint,
			UserAgent:   wikipedia.DefaultUserAgent,
			Delay:       wikipedia.DefaultDelay,
			Timeout:     30 * time.Second,
			LanguageMap: map[string]string{"nb": "no"},
		},
		Snapshot: SnapshotConfig{
			Dir:    ".",
			Prefix: snapshot.DefaultPrefix,
			Format: snapshot.FormatCSV,
		},
		Match: MatchConfig{
			Suffixes:      slices.Clone(reconcile.DefaultSuffixes),
			Substitutions: slices.Clone(reconcile.DefaultSubstitutions),
			SuffixScope:   string(reconcile.ScopeAll),
		},
		Report: ReportConfig{
			Format: report.FormatText,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// MergeWithDefaults fills empty fields with default values.
func (c *Config) MergeWithDefaults() {
	d := Defaults()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&c.Reference.Source, d.Reference.Source)
	fill(&c.Reference.IndexColumn, d.Reference.IndexColumn)
	fill(&c.Wikipedia.Endpoint, d.Wikipedia.Endpoint)
	fill(&c.Wikipedia.UserAgent, d.Wikipedia.UserAgent)
	fill(&c.Snapshot.Dir, d.Snapshot.Dir)
	fill(&c.Snapshot.Prefix, d.Snapshot.Prefix)
	fill(&c.Snapshot.Format, d.Snapshot.Format)
	fill(&c.Match.SuffixScope, d.Match.SuffixScope)
	fill(&c.Report.Format, d.Report.Format)
	fill(&c.Log.Level, d.Log.Level)
	fill(&c.Log.Format, d.Log.Format)

	if len(c.Reference.Bases) == 0 {
		c.Reference.Bases = d.Reference.Bases
	}
	if c.Wikipedia.Timeout == 0 {
		c.Wikipedia.Timeout = d.Wikipedia.Timeout
	}
	if c.Wikipedia.LanguageMap == nil {
		c.Wikipedia.LanguageMap = d.Wikipedia.LanguageMap
	}
	if c.Match.Suffixes == nil {
		c.Match.Suffixes = d.Match.Suffixes
	}
	if c.Match.Substitutions == nil {
		c.Match.Substitutions = d.Match.Substitutions
	}
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if c.Wikipedia.Delay < 0 {
		return fmt.Errorf("wikipedia.delay must not be negative, got %s", c.Wikipedia.Delay)
	}
	if c.Wikipedia.Timeout < 0 {
		return fmt.Errorf("wikipedia.timeout must not be negative, got %s", c.Wikipedia.Timeout)
	}
	if c.Snapshot.Format != snapshot.FormatCSV && c.Snapshot.Format != snapshot.FormatParquet {
		return fmt.Errorf("snapshot.format must be csv or parquet, got %q", c.Snapshot.Format)
	}
	if !reconcile.SuffixScope(c.Match.SuffixScope).Valid() {
		return fmt.Errorf("match.suffix_scope must be all, country, capital or none, got %q", c.Match.SuffixScope)
	}
	for i, s := range c.Match.Substitutions {
		if s.Pattern == "" {
			return fmt.Errorf("match.substitutions[%d] has an empty pattern", i)
		}
	}
	if !report.ValidFormat(c.Report.Format) {
		return fmt.Errorf("report.format must be one of %s, got %q",
			strings.Join(report.Formats(), ", "), c.Report.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
