// Package models defines data structures for configuration, queries and batch results.
package models

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile   = "config.yaml"
	DefaultColumn       = "query"
	DefaultOutputDir    = "./output"
	DefaultDelayMs      = 1000
	DefaultTimeout      = 30 * time.Second
	DefaultAuthHeader   = "auth"
	DefaultUserAgent    = "Excel-Query-API-Utility/1.0"
	DefaultSourceColumn = "source"
)

// Config is the runtime configuration for a batch run.
// Values are layered: defaults, then config.yaml, then .env / SQR_* environment, then CLI flags.
type Config struct {
	API       APIConfig     `yaml:"api"`
	ContextID string        `yaml:"context_id" validate:"required"`
	Run       RunConfig     `yaml:"run"`
	Log       LogConfig     `yaml:"log"`
	History   HistoryConfig `yaml:"history"`
	Summary   SummaryConfig `yaml:"summary"`
}

type APIConfig struct {
	URL          string            `yaml:"url" validate:"required,url"`
	AuthHeader   string            `yaml:"auth_header" validate:"required"`
	AuthToken    string            `yaml:"auth_token"`
	ClientID     string            `yaml:"client_id" validate:"required_without=AuthToken"`
	ClientSecret string            `yaml:"client_secret" validate:"required_with=ClientID"`
	UserAgent    string            `yaml:"user_agent" validate:"required"`
	Timeout      time.Duration     `yaml:"timeout" validate:"gt=0"`
	Headers      map[string]string `yaml:"headers"`
}

type RunConfig struct {
	Sheet     string `yaml:"sheet"`
	Column    string `yaml:"column" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	DelayMs   int    `yaml:"delay_ms" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// HistoryConfig controls the sqlite run history. An empty Path places the
// database inside the output directory.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type SummaryConfig struct {
	SourceColumn string   `yaml:"source_column"`
	Languages    []string `yaml:"languages"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			AuthHeader: DefaultAuthHeader,
			UserAgent:  DefaultUserAgent,
			Timeout:    DefaultTimeout,
		},
		Run: RunConfig{
			Column:    DefaultColumn,
			OutputDir: DefaultOutputDir,
			DelayMs:   DefaultDelayMs,
		},
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Summary: SummaryConfig{
			SourceColumn: DefaultSourceColumn,
			Languages:    []string{"English", "Spanish", "French", "German"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error; the defaults and
// environment are used instead.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(".env"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if present) into the process environment and copies
// any SQR_* variables onto the config.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	c.API.URL = getEnv("SQR_API_URL", c.API.URL)
	c.API.AuthToken = getEnv("SQR_AUTH_TOKEN", c.API.AuthToken)
	c.API.ClientID = getEnv("SQR_CLIENT_ID", c.API.ClientID)
	c.API.ClientSecret = getEnv("SQR_CLIENT_SECRET", c.API.ClientSecret)
	c.ContextID = getEnv("SQR_CONTEXT_ID", c.ContextID)
	c.Run.OutputDir = getEnv("SQR_OUTPUT_DIR", c.Run.OutputDir)
	c.Log.Level = strings.ToLower(getEnv("SQR_LOG_LEVEL", c.Log.Level))

	if v := os.Getenv("SQR_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SQR_DELAY_MS %q: %w", v, err)
		}
		c.Run.DelayMs = ms
	}
	return nil
}

// Validate checks the struct tags and reports every failing field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Delay returns the configured inter-request delay.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Run.DelayMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
