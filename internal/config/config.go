// Package config loads spendpulse configuration from environment variables
// and an optional YAML file. Environment variables win over file values.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment variables, e.g. SPENDPULSE_LOGGING_LEVEL.
const envPrefix = "SPENDPULSE"

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Engine  EngineConfig  `yaml:"engine" envconfig:"ENGINE"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
}

// EngineConfig tunes the analytics engine.
type EngineConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`

	// Risk weight overrides. Zero values fall back to the engine defaults;
	// non-zero sets must sum to 1.
	WeightVolatility float64 `yaml:"weight_volatility" envconfig:"WEIGHT_VOLATILITY"`
	WeightQuality    float64 `yaml:"weight_quality" envconfig:"WEIGHT_QUALITY"`
	WeightVolume     float64 `yaml:"weight_volume" envconfig:"WEIGHT_VOLUME"`
	WeightTrend      float64 `yaml:"weight_trend" envconfig:"WEIGHT_TREND"`
}

// HasWeightOverrides reports whether any risk weight was set explicitly.
func (e EngineConfig) HasWeightOverrides() bool {
	return e.WeightVolatility != 0 || e.WeightQuality != 0 ||
		e.WeightVolume != 0 || e.WeightTrend != 0
}

// PathsConfig contains file system paths used by the report CLI.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
}

// Load builds the configuration from environment variables only.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads a YAML config file, then lets environment variables
// override individual values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero values left by a partial YAML file. envconfig only
// applies struct defaults when processing from a zero struct, so file-based
// loading patches them here.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Engine.MaxConcurrency == 0 {
		cfg.Engine.MaxConcurrency = 4
	}
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
	if cfg.Paths.ReportsDir == "" {
		cfg.Paths.ReportsDir = "data/reports"
	}
}

func (c *Config) validate() error {
	if c.Engine.MaxConcurrency < 1 {
		return fmt.Errorf("engine.max_concurrency must be at least 1, got %d", c.Engine.MaxConcurrency)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	if c.Engine.HasWeightOverrides() {
		sum := c.Engine.WeightVolatility + c.Engine.WeightQuality +
			c.Engine.WeightVolume + c.Engine.WeightTrend
		if sum < 0.99 || sum > 1.01 {
			return fmt.Errorf("engine risk weights must sum to 1, got %.3f", sum)
		}
	}
	return nil
}
