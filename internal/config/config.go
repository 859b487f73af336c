// Package config loads the experiment configuration from YAML.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/pairrecall/pairrecall/internal/store"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://pairrecall/config.json"

// Environment overrides applied after the file is read.
const (
	EnvDataDir    = "PAIRRECALL_DATA_DIR"
	EnvDB         = "PAIRRECALL_DB"
	EnvWordSource = "PAIRRECALL_WORD_SOURCE"
	EnvLogLevel   = "PAIRRECALL_LOG_LEVEL"
)

// Durations are the countdown lengths of the timed phases.
type Durations struct {
	Memorize   time.Duration `yaml:"memorize"`
	Distractor time.Duration `yaml:"distractor"`
	Quiz       time.Duration `yaml:"quiz"`
	Break      time.Duration `yaml:"break"`
}

// Config holds application configuration.
type Config struct {
	DataDir    string          `yaml:"data_dir"`
	DBPath     string          `yaml:"db_path"`
	WordSource string          `yaml:"word_source"`
	Columns    wordset.Columns `yaml:"columns"`
	PhaseSize  int             `yaml:"phase_size"`
	Durations  Durations       `yaml:"durations"`
	AllowSkip  bool            `yaml:"allow_skip"`
	LogFile    string          `yaml:"log_file"`
	LogLevel   string          `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := "data"
	if home, err := store.DataHome(); err == nil {
		dataDir = filepath.Join(home, "records")
	}
	return &Config{
		DataDir:   dataDir,
		Columns:   wordset.DefaultColumns(),
		PhaseSize: 25,
		Durations: Durations{
			Memorize:   240 * time.Second,
			Distractor: 480 * time.Second,
			Quiz:       180 * time.Second,
			Break:      15 * time.Second,
		},
		AllowSkip: true,
		LogLevel:  "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pairrecall/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pairrecall", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults, validates it and
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case path == "" || errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse validates YAML data against the config schema and decodes it over
// cfg. Keys absent from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validateDocument(doc); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvWordSource); v != "" {
		c.WordSource = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks constraints the schema can't express.
func (c *Config) Validate() error {
	if c.PhaseSize <= 0 {
		return fmt.Errorf("phase_size must be positive, got %d", c.PhaseSize)
	}
	for name, d := range map[string]time.Duration{
		"memorize":   c.Durations.Memorize,
		"distractor": c.Durations.Distractor,
		"quiz":       c.Durations.Quiz,
	} {
		if d <= 0 {
			return fmt.Errorf("durations.%s must be positive, got %s", name, d)
		}
	}
	// A zero break turns the pause screens off.
	if c.Durations.Break < 0 {
		return fmt.Errorf("durations.break must not be negative, got %s", c.Durations.Break)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

// LogPath returns the log file, defaulting to pairrecall.log in the data dir.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "pairrecall.log")
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a decoded YAML document against the schema. The
// document is round-tripped through JSON so numbers arrive in the form the
// validator expects.
func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
