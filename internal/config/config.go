package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = "mdwiki.yaml"

// Config represents the application configuration
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Render  RenderConfig  `yaml:"render"`
	Index   IndexConfig   `yaml:"index"`
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// BuildConfig controls discovery, staleness and the worker pool.
type BuildConfig struct {
	SourceExtension string   `yaml:"source_extension"`
	TargetExtension string   `yaml:"target_extension"`
	LedgerFile      string   `yaml:"ledger_file"`
	Concurrency     int      `yaml:"concurrency"` // 0 means GOMAXPROCS
	IncludeHidden   bool     `yaml:"include_hidden"`
	VerifyOutputs   bool     `yaml:"verify_outputs"` // re-render fresh documents whose output file is missing
	Exclude         []string `yaml:"exclude,omitempty"`
}

// RenderConfig configures the markdown renderer.
type RenderConfig struct {
	GFM              bool `yaml:"gfm"`
	Unsafe           bool `yaml:"unsafe"` // pass raw HTML through
	StripFrontmatter bool `yaml:"strip_frontmatter"`
}

// IndexConfig configures the fallback index page.
type IndexConfig struct {
	Filename string `yaml:"filename"`
	Template string `yaml:"template,omitempty"` // path to an HTML template, embedded default when empty
	Title    string `yaml:"title"`
}

// ServerConfig configures the output file server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig configures the optional SQLite build history.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig configures optional NATS build notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// Load loads configuration from the specified file.
//
// A missing file is not an error when optional is true; defaults are returned instead.
func Load(configPath string, optional bool) (*Config, error) {
	loadEnvFiles()

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	// Unmarshal over the defaults so omitted keys keep their default values.
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Build.SourceExtension, ".") || !strings.HasPrefix(c.Build.TargetExtension, ".") {
		return errors.ConfigError("extensions must start with a dot").
			WithContext("source_extension", c.Build.SourceExtension).
			WithContext("target_extension", c.Build.TargetExtension).
			Build()
	}
	if strings.EqualFold(c.Build.SourceExtension, c.Build.TargetExtension) {
		return errors.ConfigError("source and target extensions must differ").
			WithContext("extension", c.Build.SourceExtension).
			Build()
	}
	if strings.ContainsAny(c.Build.LedgerFile, `/\`) {
		return errors.ConfigError("ledger_file must be a plain file name").
			WithContext("ledger_file", c.Build.LedgerFile).
			Build()
	}
	if strings.ContainsAny(c.Index.Filename, `/\`) {
		return errors.ConfigError("index filename must be a plain file name").
			WithContext("filename", c.Index.Filename).
			Build()
	}
	if c.Build.Concurrency < 0 {
		return errors.ConfigError("concurrency must not be negative").
			WithContext("concurrency", c.Build.Concurrency).
			Build()
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Index.Title = "My Wiki"
	example.History.Path = ".mdwiki-history.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
