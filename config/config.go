// Package config loads the doc_wizard configuration file and the secrets that
// come from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Wizard WizardConfig `yaml:"wizard"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LLMConfig selects and tunes the model backend. The API key itself is never
// stored in the file; APIKeyEnv names the variable holding it. Temperature and
// TopP are pointers so an explicit 0 survives ApplyDefaults.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Temperature *float64      `yaml:"temperature"`
	TopP        *float64      `yaml:"top_p"`
	Timeout     time.Duration `yaml:"timeout"`

	APIKey string `yaml:"-"`
}

// WizardConfig holds wizard defaults.
type WizardConfig struct {
	DefaultLanguage string `yaml:"default_language"`
}

// Load reads and parses the config file at path and applies defaults. A missing
// file is not an error: the defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadEnv loads variables from the given .env files into the process
// environment. Files that do not exist are skipped; existing variables win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ResolveSecrets reads the API key from the environment. Remote providers
// cannot start without it.
func (c *Config) ResolveSecrets() error {
	c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	if c.LLM.APIKey == "" && c.LLM.NeedsAPIKey() {
		return fmt.Errorf("environment variable %s is not set (required by llm provider %q)", c.LLM.APIKeyEnv, c.LLM.Provider)
	}
	return nil
}

// NeedsAPIKey reports whether the provider authenticates with a token.
func (l LLMConfig) NeedsAPIKey() bool {
	switch l.Provider {
	case ProviderMock, ProviderOllama:
		return false
	}
	return true
}
