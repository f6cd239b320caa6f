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

// Load builds a Config by layering sources, lowest precedence first:
//  1. defaults
//  2. YAML file named by BURNBOARD_CONFIG, when set
//  3. environment variables with prefix BURNBOARD_
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("BURNBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w: %w", path, err, ErrLoadConfig)
		}
	}

	// BURNBOARD_QUEUE_SIZE -> queue_size; underscores match the koanf
	// tags on the struct.
	envProvider := env.Provider("BURNBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "burnboard_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("read environment: %w: %w", err, ErrLoadConfig)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal: %w: %w", err, ErrLoadConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
