// Package config loads settings for the anything CLI.
//
// Values come from, in increasing precedence: built-in defaults, a single
// config file (named by --config or the ANYTHING_CONFIG environment
// variable), and command-line flags. The access token is never read from
// the file; it comes from the ACCESS_TOKEN environment variable only.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfig names the config file when --config is not given.
	EnvConfig = "ANYTHING_CONFIG"
	// EnvAccessToken holds the bearer token.
	EnvAccessToken = "ACCESS_TOKEN"
)

// Config is the full CLI configuration.
type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint" json:"endpoint"`

	// TimeoutSeconds bounds the whole exchange. Zero waits indefinitely.
	TimeoutSeconds int `yaml:"timeoutSeconds" json:"timeoutSeconds"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// EndpointConfig locates the echo endpoint.
type EndpointConfig struct {
	Host string `yaml:"host" json:"host"`
	// Port of 0 uses the scheme default.
	Port     int  `yaml:"port" json:"port"`
	Insecure bool `yaml:"insecure" json:"insecure"`
}

// Default returns the built-in configuration: the public service over TLS,
// no timeout, warnings only.
func Default() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			Host: "httpbin.org",
		},
		LogLevel: "warn",
	}
}

// Load returns the defaults merged with the file at path. An empty path
// falls back to EnvConfig; if that is empty too, the defaults are returned.
func Load(path string, getenv func(string) string) (*Config, error) {
	if path == "" && getenv != nil {
		path = getenv(EnvConfig)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The format is
// chosen by extension: .yaml/.yml or .json/.jsonc.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.decode(filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml, .json or .jsonc)", ext)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Endpoint.Host == "" {
		return fmt.Errorf("endpoint.host must not be empty")
	}
	if c.Endpoint.Port < 0 || c.Endpoint.Port > 65535 {
		return fmt.Errorf("endpoint.port %d out of range", c.Endpoint.Port)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeoutSeconds must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	return nil
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
