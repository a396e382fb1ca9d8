// Package config loads the optional TOML configuration file. A missing file
// is not an error; every field has a documented default.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"storymaker/pkg/story"
)

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Model  ModelConfig  `toml:"model"`
	Engine EngineConfig `toml:"engine"`
}

// ServerConfig holds HTTP façade settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ModelConfig holds the model path and default sampling parameters for the
// model-backed engine.
type ModelConfig struct {
	Path          string  `toml:"path"`
	BaseURL       string  `toml:"base_url"`
	ContextSize   int     `toml:"context_size"`
	Temperature   float64 `toml:"temperature"`
	MaxTokens     int     `toml:"max_tokens"`
	TopP          float64 `toml:"top_p"`
	TopK          int     `toml:"top_k"`
	RepeatPenalty float64 `toml:"repeat_penalty"`
}

// EngineConfig holds the routing policy.
type EngineConfig struct {
	Preferred                string `toml:"preferred"`
	FallbackEnabled          *bool  `toml:"fallback_enabled"`
	GenerationTimeoutSeconds int    `toml:"generation_timeout_seconds"`
}

// Fallback reports the fallback flag, defaulting to enabled when the file
// leaves it unset.
func (e EngineConfig) Fallback() bool {
	return e.FallbackEnabled == nil || *e.FallbackEnabled
}

// GenerationTimeout returns the configured model timeout as a duration.
func (e EngineConfig) GenerationTimeout() time.Duration {
	return time.Duration(e.GenerationTimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path and parses it. A missing file silently yields defaults; a
// present but malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = "http://localhost:8080/v1"
	}
	if cfg.Model.ContextSize == 0 {
		cfg.Model.ContextSize = 2048
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.7
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 512
	}
	if cfg.Model.TopP == 0 {
		cfg.Model.TopP = 0.9
	}
	if cfg.Model.TopK == 0 {
		cfg.Model.TopK = 40
	}
	if cfg.Model.RepeatPenalty == 0 {
		cfg.Model.RepeatPenalty = 1.1
	}
	if cfg.Engine.Preferred == "" {
		cfg.Engine.Preferred = string(story.EngineAuto)
	}
	if cfg.Engine.GenerationTimeoutSeconds == 0 {
		cfg.Engine.GenerationTimeoutSeconds = 120
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	switch story.Engine(c.Engine.Preferred) {
	case story.EngineAuto, story.EngineModel, story.EngineRuleBased:
	default:
		return fmt.Errorf("engine.preferred must be one of: auto, model, rule-based (got %q)", c.Engine.Preferred)
	}
	if c.Model.ContextSize < 1 {
		return fmt.Errorf("model.context_size must be positive (got %d)", c.Model.ContextSize)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2 (got %g)", c.Model.Temperature)
	}
	if c.Model.MaxTokens < 1 {
		return fmt.Errorf("model.max_tokens must be positive (got %d)", c.Model.MaxTokens)
	}
	if c.Model.TopP <= 0 || c.Model.TopP > 1 {
		return fmt.Errorf("model.top_p must be in (0, 1] (got %g)", c.Model.TopP)
	}
	if c.Engine.GenerationTimeoutSeconds < 0 {
		return fmt.Errorf("engine.generation_timeout_seconds must not be negative (got %d)", c.Engine.GenerationTimeoutSeconds)
	}
	return nil
}
