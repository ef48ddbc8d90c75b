// Package config handles configuration loading for the geomodels tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the tools.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultMaxBodyBytes caps request bodies accepted by the server.
const DefaultMaxBodyBytes = 4 << 20

// Config represents the root configuration file structure.
type Config struct {
	// ReferenceID is attached to every decoded geometry unless overridden.
	ReferenceID int    `yaml:"reference_id" toml:"reference_id" json:"reference_id"`
	Format      string `yaml:"format,omitempty" toml:"format" json:"format,omitempty"`
	Minify      bool   `yaml:"minify,omitempty" toml:"minify" json:"minify,omitempty"`
	Server      Server `yaml:"server" toml:"server" json:"server"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr         string `yaml:"addr,omitempty" toml:"addr" json:"addr,omitempty"`
	Port         int    `yaml:"port,omitempty" toml:"port" json:"port,omitempty"`
	MaxBodyBytes int64  `yaml:"max_body_bytes,omitempty" toml:"max_body_bytes" json:"max_body_bytes,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML or TOML configuration file, chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}
