package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/eqbar/internal/adapters/render"
	"github.com/okian/eqbar/internal/domain/barplot"
)

// Environment variable names.
const (
	envPrefix     = "EQBAR_"
	envConfigFile = "EQBAR_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if EQBAR_CONFIG is set
//  3. env (prefix EQBAR_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// EQBAR_OUTPUT_PATH -> output_path. Keys stay flat so underscores match
	// the koanf tags. EQBAR_PALETTE is a comma-separated list.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "palette" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path itself is not a setting.
	k.Delete("config")

	cfg := *base
	// Lists replace the defaults wholesale instead of merging element-wise.
	if k.Exists("samples") {
		cfg.Samples = nil
	}
	if k.Exists("palette") {
		cfg.Palette = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that every setting can be used as-is.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: format: %w", ErrInvalidConfig, err)
	}
	if err := c.Figure().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := barplot.NewPalette(c.Palette); err != nil {
		return fmt.Errorf("%w: palette: %w", ErrInvalidConfig, err)
	}
	if err := barplot.Validate(c.Samples); err != nil {
		return fmt.Errorf("%w: samples: %w", ErrInvalidConfig, err)
	}
	if c.TitleCount < 0 {
		return fmt.Errorf("%w: title_count must not be negative", ErrInvalidConfig)
	}
	if c.MaxSamples <= 0 {
		return fmt.Errorf("%w: max_samples must be positive", ErrInvalidConfig)
	}
	return nil
}
