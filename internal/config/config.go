// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultListen        = ":8080"
	DefaultMetricsAddr   = "127.0.0.1:9100"
	DefaultLogFormat     = "json"
	DefaultTokenLifetime = 30 * time.Minute
)

// Config holds the server configuration.
type Config struct {
	// Listen is the HTTP API listen address.
	Listen string `koanf:"listen"`

	// MetricsAddr is the observability listen address. Empty disables
	// the observability server.
	MetricsAddr string `koanf:"metrics-addr"`

	// DatabaseURL is the PostgreSQL connection string. Falls back to
	// the DATABASE_URL environment variable.
	DatabaseURL string `koanf:"database-url"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`

	// TokenSecret signs bearer tokens. Falls back to the
	// SHELFD_TOKEN_SECRET environment variable.
	TokenSecret string `koanf:"token-secret"`

	// TokenLifetime bounds how long issued tokens stay valid.
	TokenLifetime time.Duration `koanf:"token-lifetime"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Listen:        DefaultListen,
		MetricsAddr:   DefaultMetricsAddr,
		LogFormat:     DefaultLogFormat,
		TokenLifetime: DefaultTokenLifetime,
	}
}

// Load builds a Config from defaults, the optional YAML file at path,
// and the given flag set. Flags win over the file; the file wins over
// defaults.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("SHELFD_TOKEN_SECRET")
	}

	return cfg, nil
}

// Validate checks that the configuration can run the server.
func (c Config) Validate() error {
	if c.Listen == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen address is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token secret is required (flag, config file, or SHELFD_TOKEN_SECRET)")
	}
	if c.TokenLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token lifetime must be positive")
	}
	return nil
}
