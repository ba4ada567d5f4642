package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bastienlm/planche/core/demand"
	"github.com/bastienlm/planche/core/metrics"
	"github.com/bastienlm/planche/core/normalize"
	"github.com/bastienlm/planche/core/schedule"
	"github.com/bastienlm/planche/infra/mqtt"
)

// Config is the full service configuration.
type Config struct {
	Input     string             `json:"input"` // day-program CSV path
	Date      string             `json:"date"`  // day to compute ("2006-01-02"); empty = first day in the file
	Normalize normalize.Config   `json:"normalize"`
	Schedule  schedule.Config    `json:"schedule"`
	Sampling  SamplingConfig     `json:"sampling"`
	Weights   demand.WeightTable `json:"weights"`
	Metrics   metrics.Config     `json:"metrics"`
	MQTT      mqtt.Config        `json:"mqtt"`
	Export    ExportConfig       `json:"export"`
}

// Load reads the configuration from a JSON or YAML file, with optional
// PLANCHE_ environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("PLANCHE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "planche_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Normalize.SetDefaults()
	c.Schedule.SetDefaults()
	c.Sampling.SetDefaults()
	c.Weights.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Export.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Normalize.Validate(); err != nil {
		return err
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	if err := c.Sampling.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}
