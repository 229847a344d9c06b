// ABOUTME: Centralized configuration for the god CLI
// ABOUTME: Layers defaults, an optional JSON5 config file, and environment variables
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/titanous/json5"
)

// Config holds all configuration for the chat client and memory store
type Config struct {
	// Model server settings
	OllamaURL    string  `json:"ollama_url"`
	DefaultModel string  `json:"default_model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`
	MaxHistory   int     `json:"max_history"`

	// Memory settings
	DBPath           string `json:"db_path,omitempty"`
	ExtractionWindow int    `json:"extraction_window"`

	// Charm backup settings
	CharmHost   string `json:"charm_host,omitempty"`
	CharmDBName string `json:"charm_db,omitempty"`

	// Network behaviour, environment only
	ChatTimeout  time.Duration `json:"-"`
	ProbeTimeout time.Duration `json:"-"`
	MaxRetries   int           `json:"-"`
	RetryDelay   time.Duration `json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OllamaURL:        "http://localhost:11434",
		DefaultModel:     "gemma3:1b",
		Temperature:      0.7,
		MaxTokens:        2048,
		SystemPrompt:     "You are a helpful AI assistant.",
		MaxHistory:       10,
		ExtractionWindow: 20,
		CharmHost:        "cloud.charm.sh",
		CharmDBName:      "god-cli",
		ChatTimeout:      60 * time.Second,
		ProbeTimeout:     5 * time.Second,
		MaxRetries:       2,
		RetryDelay:       time.Second,
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "god-cli", "config.json")
}

// Load reads the default config file (if any) and the environment.
func Load() (*Config, error) {
	return LoadFile(getEnv("GOD_CONFIG", DefaultPath()))
}

// LoadFile reads configuration from path, then applies environment overrides.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path) // #nosec G304
	switch {
	case err == nil:
		if err := json5.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.OllamaURL = getEnv("GOD_OLLAMA_URL", c.OllamaURL)
	c.DefaultModel = getEnv("GOD_MODEL", c.DefaultModel)
	c.Temperature = getEnvFloat("GOD_TEMPERATURE", c.Temperature)
	c.MaxTokens = getEnvInt("GOD_MAX_TOKENS", c.MaxTokens)
	c.SystemPrompt = getEnv("GOD_SYSTEM_PROMPT", c.SystemPrompt)
	c.MaxHistory = getEnvInt("GOD_MAX_HISTORY", c.MaxHistory)
	c.DBPath = getEnv("GOD_DB_PATH", c.DBPath)
	c.ExtractionWindow = getEnvInt("GOD_EXTRACTION_WINDOW", c.ExtractionWindow)
	c.CharmHost = getEnv("CHARM_HOST", c.CharmHost)
	c.CharmDBName = getEnv("CHARM_DB", c.CharmDBName)
	c.ChatTimeout = getEnvDuration("GOD_CHAT_TIMEOUT", c.ChatTimeout)
	c.ProbeTimeout = getEnvDuration("GOD_PROBE_TIMEOUT", c.ProbeTimeout)
	c.MaxRetries = getEnvInt("GOD_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("GOD_RETRY_DELAY", c.RetryDelay)
}

// Validate checks every value is usable.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.OllamaURL, "http://") && !strings.HasPrefix(c.OllamaURL, "https://") {
		return fmt.Errorf("ollama_url must be an http(s) URL, got %q", c.OllamaURL)
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return fmt.Errorf("default_model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be 0-2, got %f", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive, got %d", c.MaxHistory)
	}
	if c.ExtractionWindow <= 0 {
		return fmt.Errorf("extraction_window must be positive, got %d", c.ExtractionWindow)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("GOD_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ChatTimeout <= 0 || c.ProbeTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// Save writes the file-backed fields as indented JSON.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
