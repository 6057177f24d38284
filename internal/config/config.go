// Package config loads the studio configuration: workflow limits, output
// locations, per-role model tunables, and the search provider settings.
// Configuration is read once before a run; nothing here is mutated by the
// workflow.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigYAML = `# slidesmith configuration
general:
  default_topic: ""
  iteration_limit: 3
  output_dir: "out"
  # log_file defaults to <output_dir>/logs/slidesmith.log when empty.
  log_file: ""

llm:
  provider: openai
  api_key_env: OPENAI_API_KEY
  base_url: ""

researcher:
  model: gpt-4o
  temperature: 0.7
  max_tokens: 4000
  word_limit: 2500
  instructions: "You are a meticulous research analyst preparing source material for short-form educational content."

drafter:
  model: gpt-4o
  temperature: 0.8
  max_tokens: 3000
  max_slides: 10
  instructions: "You are an expert educational content designer who writes tight, high-value slide decks."

reviewer:
  model: gpt-4o
  temperature: 0.7
  max_tokens: 4000
  instructions: "You are an exacting editor in chief who only approves premium quality content."

search:
  provider: tavily
  api_key_env: TAVILY_API_KEY
  depth: advanced
  max_results: 10

style_vault: "style_vault.md"
`

// General holds workflow-wide settings.
type General struct {
	DefaultTopic   string `yaml:"default_topic"`
	IterationLimit int    `yaml:"iteration_limit"`
	OutputDir      string `yaml:"output_dir"`
	LogFile        string `yaml:"log_file"`
}

// LLM holds backend settings shared by every role.
type LLM struct {
	Provider  string `yaml:"provider"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// Role holds the per-role model tunables.
type Role struct {
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	WordLimit    int     `yaml:"word_limit,omitempty"`
	MaxSlides    int     `yaml:"max_slides,omitempty"`
	Instructions string  `yaml:"instructions"`
}

// Search holds the search provider settings.
type Search struct {
	Provider   string `yaml:"provider"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Depth      string `yaml:"depth"`
	MaxResults int    `yaml:"max_results"`
}

// Config models the full slidesmith.yaml document.
type Config struct {
	General    General `yaml:"general"`
	LLM        LLM     `yaml:"llm"`
	Researcher Role    `yaml:"researcher"`
	Drafter    Role    `yaml:"drafter"`
	Reviewer   Role    `yaml:"reviewer"`
	Search     Search  `yaml:"search"`
	StyleVault string  `yaml:"style_vault"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	// The embedded document is the source of truth for defaults; a parse
	// failure here is a programming error.
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), cfg); err != nil {
		panic(fmt.Sprintf("config: default document invalid: %v", err))
	}
	return cfg
}

// Load reads the config file at path over the defaults. An empty path
// returns the defaults unchanged; a missing file is an error so typos in
// -config are not silently ignored.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the document is usable before any capability is built.
func (c *Config) Validate() error {
	if c.General.IterationLimit < 0 {
		return fmt.Errorf("config: general.iteration_limit must be >= 0")
	}
	if strings.TrimSpace(c.General.OutputDir) == "" {
		return fmt.Errorf("config: general.output_dir is required")
	}
	for name, role := range map[string]Role{
		"researcher": c.Researcher,
		"drafter":    c.Drafter,
		"reviewer":   c.Reviewer,
	} {
		if strings.TrimSpace(role.Model) == "" {
			return fmt.Errorf("config: %s.model is required", name)
		}
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("config: search.max_results must be >= 0")
	}
	return nil
}

// LogPath resolves the log file, defaulting under the output directory.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.General.LogFile) != "" {
		return c.General.LogFile
	}
	return filepath.Join(c.General.OutputDir, "logs", "slidesmith.log")
}

// WriteDefault writes the default document to path unless one already
// exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
