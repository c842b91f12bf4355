package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name without extension.
const FileName = "ugwp"

// LoadResult contains the loaded configuration and where it came from.
type LoadResult struct {
	Config     *Config
	SourcePath string // config file used, empty for defaults
	Source     string // "file", "defaults" or "defaults+env"
}

// Dir returns ~/.config/ugwp.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ugwp"), nil
}

// Load reads configuration from path, or from ./ugwp.yaml or
// ~/.config/ugwp/ugwp.yaml when path is empty. A missing default file is not
// an error.
func Load(path string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Precedence: flags > env vars > config file > defaults
	v.SetEnvPrefix("UGWP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known, so env vars work without a file.
	d := Defaults()
	v.SetDefault("reference.source", d.Reference.Source)
	v.SetDefault("reference.index_column", d.Reference.IndexColumn)
	v.SetDefault("reference.bases", d.Reference.Bases)
	v.SetDefault("wikipedia.endpoint", d.Wikipedia.Endpoint)
	v.SetDefault("wikipedia.user_agent", d.Wikipedia.UserAgent)
	v.SetDefault("wikipedia.delay", d.Wikipedia.Delay)
	v.SetDefault("wikipedia.timeout", d.Wikipedia.Timeout)
	v.SetDefault("wikipedia.language_map", d.Wikipedia.LanguageMap)
	v.SetDefault("snapshot.dir", d.Snapshot.Dir)
	v.SetDefault("snapshot.prefix", d.Snapshot.Prefix)
	v.SetDefault("snapshot.format", d.Snapshot.Format)
	v.SetDefault("match.suffixes", d.Match.Suffixes)
	v.SetDefault("match.substitutions", d.Match.Substitutions)
	v.SetDefault("match.suffix_scope", d.Match.SuffixScope)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	fileRead := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			return nil, fmt.Errorf("config file not found: %s", path)
		case errors.As(err, &notFound):
			// defaults + env vars
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fileRead = true
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.MergeWithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	res := &LoadResult{Config: &cfg, Source: "defaults"}
	if fileRead {
		res.Source = "file"
		res.SourcePath = v.ConfigFileUsed()
	} else if hasEnvVars() {
		res.Source = "defaults+env"
	}
	return res, nil
}

func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "UGWP_") {
			return true
		}
	}
	return false
}

// Write prints cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}

// Generate writes the default configuration to ~/.config/ugwp/ugwp.yaml and
// returns its path. An existing file is left alone.
func Generate() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := Write(f, Defaults()); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
