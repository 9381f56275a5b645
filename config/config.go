// Package config defines the application configuration structures.
//
// Settings come from environment variables, optionally seeded from a
// .env file in the working directory (godotenv). Separated from cmd so
// other packages (kusto, ai, ssh, tui) can depend on config without
// importing Cobra.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// BaseURL is the backend root; the three paths below are joined to it.
	BaseURL        string
	TreePath       string
	CompletionPath string
	ExecutePath    string

	// ChatModel is passed through to the completion service.
	ChatModel string
	// Temperature for query generation. Kept low so output stays parseable.
	Temperature float64

	SSH SSHConfig
}

// SSHConfig holds SSH tunnel settings for reaching a backend
// deployed behind a bastion host.
type SSHConfig struct {
	Enabled       bool
	Host          string
	Port          int
	User          string
	KeyPath       string
	KeyPassphrase string
}

// Load reads configuration from the environment. A missing .env file
// is not an error; explicit environment variables win either way.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        getEnv("KQLC_BASE_URL", "http://localhost:8000"),
		TreePath:       getEnv("KQLC_TREE_PATH", "/api/tree"),
		CompletionPath: getEnv("KQLC_COMPLETION_PATH", "/api/chat"),
		ExecutePath:    getEnv("KQLC_EXECUTE_PATH", "/api/execute"),
		ChatModel:      getEnv("KQLC_CHAT_MODEL", "gpt-4o"),
		Temperature:    getEnvFloat("KQLC_TEMPERATURE", 0.1),
		SSH: SSHConfig{
			Enabled:       getEnvBool("KQLC_SSH_ENABLED", false),
			Host:          getEnv("KQLC_SSH_HOST", ""),
			Port:          getEnvInt("KQLC_SSH_PORT", 22),
			User:          getEnv("KQLC_SSH_USER", ""),
			KeyPath:       getEnv("KQLC_SSH_KEY", ""),
			KeyPassphrase: getEnv("KQLC_SSH_KEY_PASSPHRASE", ""),
		},
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid KQLC_BASE_URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.SSH.Enabled && cfg.SSH.Host == "" {
		return nil, fmt.Errorf("KQLC_SSH_ENABLED is set but KQLC_SSH_HOST is empty")
	}

	return cfg, nil
}

// TreeURL returns the full schema tree endpoint.
func (c *Config) TreeURL() string { return c.BaseURL + c.TreePath }

// CompletionURL returns the full completion endpoint.
func (c *Config) CompletionURL() string { return c.BaseURL + c.CompletionPath }

// ExecuteURL returns the full query execution endpoint.
func (c *Config) ExecuteURL() string { return c.BaseURL + c.ExecutePath }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
