// Package config resolves testgen settings from defaults, an optional
// testgen.yaml and TESTGEN_* environment variables, in increasing order of
// priority, and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dhamidi/testgen/java"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	FileName  = "testgen.yaml"
	EnvPrefix = "TESTGEN_"
)

type Config struct {
	Source    string    `koanf:"source" yaml:"source" validate:"required"`
	Output    string    `koanf:"output" yaml:"output" validate:"required"`
	Type      string    `koanf:"type" yaml:"type" validate:"oneof=unit integration both"`
	Naming    string    `koanf:"naming" yaml:"naming" validate:"naming"`
	Include   []string  `koanf:"include" yaml:"include" validate:"dive,required"`
	Exclude   []string  `koanf:"exclude" yaml:"exclude,omitempty" validate:"dive,required"`
	Workers   int       `koanf:"workers" yaml:"workers" validate:"gte=1,lte=256"`
	Overwrite bool      `koanf:"overwrite" yaml:"overwrite"`
	Log       LogConfig `koanf:"log" yaml:"log"`

	k *koanf.Koanf
}

type LogConfig struct {
	Verbosity int    `koanf:"verbosity" yaml:"verbosity" validate:"gte=0,lte=5"`
	File      string `koanf:"file" yaml:"file,omitempty"`
}

// Options control where Load looks for settings.
type Options struct {
	// Path is the configuration file. When empty, testgen.yaml in the
	// working directory is read if it exists.
	Path string
	// Overrides are applied last, keyed like the file ("log.verbosity").
	// Command-line flags arrive here.
	Overrides map[string]any
}

func defaults() map[string]any {
	return map[string]any{
		"source":        ".",
		"output":        "src/test/java",
		"type":          "both",
		"naming":        "standard",
		"include":       []string{"**/*.java"},
		"exclude":       []string{},
		"workers":       4,
		"overwrite":     false,
		"log.verbosity": 0,
		"log.file":      "",
	}
}

// Load builds the configuration from all sources and validates it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, opts.Path); err != nil {
		return nil, err
	}

	if err := k.Load(envprovider.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadFile reads the configuration file. A missing default file is
// ignored; a missing explicit file is an error.
func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, java.ErrNotFound)
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envValue maps TESTGEN_LOG_VERBOSITY to log.verbosity and splits the
// list-valued keys on commas.
func envValue(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
	switch key {
	case "include", "exclude":
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}

// Keys lists every configuration key that has a value.
func (c *Config) Keys() []string {
	if c.k == nil {
		return nil
	}
	return c.k.Keys()
}

// Write stores the configuration as YAML at path.
func (c *Config) Write(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (c *Config) YAML() ([]byte, error) {
	return yamlv3.Marshal(c)
}
