// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/core"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig                   `yaml:"server,omitempty"`
	LMStudio  LMStudioConfig                 `yaml:"lmstudio,omitempty"`
	Anthropic AnthropicConfig                `yaml:"anthropic,omitempty"`
	Debate    DebateConfig                   `yaml:"debate,omitempty"`
	Models    map[string]backend.ModelConfig `yaml:"models,omitempty"`
	DBPath    string                         `yaml:"db_path,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LMStudioConfig holds local backend settings.
type LMStudioConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// AnthropicConfig holds hosted backend settings.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// DebateConfig holds debate defaults.
type DebateConfig struct {
	FormattingModel string  `yaml:"formatting_model"`
	JudgeModel      string  `yaml:"judge_model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
		},
		LMStudio: LMStudioConfig{
			Endpoint: "http://localhost:1234",
		},
		Debate: DebateConfig{
			FormattingModel: "glm-flash",
			JudgeModel:      "claude-sonnet",
			Temperature:     0.3,
			MaxTokens:       2048,
		},
		Models: map[string]backend.ModelConfig{
			"glm-flash": {
				ID:          "glm-4.7-flash",
				Name:        "GLM 4.7 Flash",
				Class:       core.ClassLocal,
				Temperature: 0.3,
				MaxTokens:   2048,
			},
			"qwen": {
				ID:          "qwen2.5-coder-32b",
				Name:        "Qwen 2.5 Coder 32B",
				Class:       core.ClassLocal,
				Temperature: 0.3,
				MaxTokens:   2048,
			},
			"claude-opus": {
				ID:          "claude-opus-4-6",
				Name:        "Claude Opus",
				Class:       core.ClassHosted,
				Temperature: 0.3,
				MaxTokens:   2048,
			},
			"claude-sonnet": {
				ID:          "claude-sonnet-4-5",
				Name:        "Claude Sonnet",
				Class:       core.ClassHosted,
				Temperature: 0.3,
				MaxTokens:   2048,
			},
			"claude-haiku": {
				ID:          "claude-haiku-4-5",
				Name:        "Claude Haiku",
				Class:       core.ClassHosted,
				Temperature: 0.3,
				MaxTokens:   2048,
			},
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Merge with defaults for any missing model aliases
	defaultCfg := Default()
	if cfg.Models == nil {
		cfg.Models = make(map[string]backend.ModelConfig)
	}
	for alias, model := range defaultCfg.Models {
		if _, exists := cfg.Models[alias]; !exists {
			cfg.Models[alias] = model
		}
	}

	// .env values sit below real environment variables
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides updates the configuration from environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("AIDEBATE_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("LMSTUDIO_ENDPOINT"); val != "" {
		cfg.LMStudio.Endpoint = val
	}
	if val := os.Getenv("ANTHROPIC_API_KEY"); val != "" {
		cfg.Anthropic.APIKey = val
	}
	if val := os.Getenv("ANTHROPIC_BASE_URL"); val != "" {
		cfg.Anthropic.BaseURL = val
	}
	if val := os.Getenv("AIDEBATE_DB_PATH"); val != "" {
		cfg.DBPath = val
	}
	if val := os.Getenv("AIDEBATE_FORMATTING_MODEL"); val != "" {
		cfg.Debate.FormattingModel = val
	}
	if val := os.Getenv("AIDEBATE_JUDGE_MODEL"); val != "" {
		cfg.Debate.JudgeModel = val
	}
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Catalog returns the configured models as a backend catalog.
func (c *Config) Catalog() backend.Catalog {
	catalog := make(backend.Catalog, len(c.Models))
	for alias, model := range c.Models {
		catalog[alias] = model
	}
	return catalog
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "aidebate.yaml"
	}
	return filepath.Join(home, ".aidebate", "config.yaml")
}
