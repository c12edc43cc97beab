// Package config holds the harness configuration: model provider
// settings, dataset and result locations, and the web server.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration, loaded from a YAML file.
type Config struct {
	Provider   ProviderConfig `yaml:"provider"`
	DataDir    string         `yaml:"data_dir"`
	ResultsDir string         `yaml:"results_dir"`
	Server     ServerConfig   `yaml:"server"`
	Retry      RetryConfig    `yaml:"retry"`
}

// ProviderConfig holds the model backend settings. The API key itself is
// never stored in the file; only the name of the environment variable that
// carries it.
type ProviderConfig struct {
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ServerConfig holds the web trigger endpoint settings.
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	EnableCORS bool   `yaml:"enable_cors"`
}

// RetryConfig holds model-call retry behavior.
type RetryConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:     "gpt-4.1-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   60 * time.Second,
		},
		DataDir:    "data/",
		ResultsDir: "results/",
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       5001,
			EnableCORS: true,
		},
		Retry: RetryConfig{
			MaxRetries: 3,
		},
	}
}

// Load reads and parses a YAML config file at the given path.
// It returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from the given path. If the file does not
// exist, it returns the default configuration. Other errors (e.g. parse
// failures) are still returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ResolveAPIKey reads the provider API key from the environment variable
// named in the config.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.Provider.APIKeyEnv == "" {
		return "", errors.New("provider.api_key_env is not configured")
	}
	key := os.Getenv(c.Provider.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Provider.APIKeyEnv)
	}
	return key, nil
}

// Validate checks the config for required fields and returns a descriptive
// error if any are missing or invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.Model == "" {
		errs = append(errs, errors.New("provider.model is required"))
	}
	if c.Provider.APIKeyEnv == "" {
		errs = append(errs, errors.New("provider.api_key_env is required"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be > 0, got %s", c.Provider.Timeout))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if c.ResultsDir == "" {
		errs = append(errs, errors.New("results_dir must not be empty"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port))
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("retry.max_retries must be >= 0, got %d", c.Retry.MaxRetries))
	}

	return errors.Join(errs...)
}
