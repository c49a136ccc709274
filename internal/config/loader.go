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
)

const (
	envPrefix     = "DANCERCADE_"
	envConfigPath = envPrefix + "CONFIG"
)

// Keys whose env values are comma separated lists.
var listKeys = map[string]bool{ //nolint:gochecknoglobals // static lookup
	"limb_joints": true,
	"palette":     true,
}

// LoadOption adjusts how Load finds its sources.
type LoadOption func(*loadSettings)

type loadSettings struct {
	path string
}

// WithFile reads the YAML file at path instead of DANCERCADE_CONFIG.
func WithFile(path string) LoadOption {
	return func(s *loadSettings) {
		if path != "" {
			s.path = path
		}
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or DANCERCADE_CONFIG
//  3. env (prefix DANCERCADE_)
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	base := New()
	settings := loadSettings{path: os.Getenv(envConfigPath)}
	for _, opt := range opts {
		opt(&settings)
	}

	k := koanf.New(".")

	if path := settings.path; path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DANCERCADE_LIMB_JOINTS=12,14,16 -> limb_joints: [12 14 16]
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Lists are replaced, not merged element-wise, so decode them into nil
	// slices and fall back to the defaults when nothing was provided.
	cfg := *base
	cfg.LimbJoints, cfg.Palette = nil, nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cfg.LimbJoints == nil && !k.Exists("limb_joints") {
		cfg.LimbJoints = base.LimbJoints
	}
	if cfg.Palette == nil {
		cfg.Palette = base.Palette
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
