package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/boscoh/modeldrop/internal/dynamo"
)

const (
	DefaultModel  = "ecology"
	DefaultMethod = "rk45"
)

// Config is a declarative run description, loadable from YAML.
type Config struct {
	Model  string             `yaml:"model"`
	Method string             `yaml:"method"`
	Time   float64            `yaml:"time"`
	Dt     float64            `yaml:"dt"`
	Params map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  DefaultModel,
		Method: DefaultMethod,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply writes the config's overrides onto a model. Zero Time/Dt leave
// the model defaults untouched; explicit params must name existing keys.
func (c *Config) Apply(m *dynamo.Model) error {
	if c.Method != "" {
		method, err := dynamo.ParseMethod(c.Method)
		if err != nil {
			return err
		}
		m.Method = method
	}
	if c.Time > 0 {
		m.Params.Set("time", c.Time)
	}
	if c.Dt > 0 {
		m.Params.Set("dt", c.Dt)
	}
	for key, value := range c.Params {
		if err := m.SetParam(key, value); err != nil {
			return err
		}
	}
	return nil
}
