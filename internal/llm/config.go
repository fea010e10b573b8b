package llm

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the completion gateway. It is
// resolved once at process start and injected; nothing re-reads the
// environment or the secrets file after that.
type Config struct {
	APIKey         string
	Endpoint       string
	Model          string
	MaxTokens      int
	Temperature    float64
	MaxRetries     int
	RetryBaseDelay time.Duration
	Timeout        time.Duration // per attempt
}

// DefaultConfig returns a Config with the stock provider parameters.
// The API key is empty by default; without one the gateway never makes
// a network call and every reply is generated offline.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "https://api.openai.com/v1",
		Model:          "gpt-5-nano",
		MaxTokens:      1000,
		Temperature:    0.7,
		MaxRetries:     2,
		RetryBaseDelay: 600 * time.Millisecond,
		Timeout:        30 * time.Second,
	}
}

// LoadConfig reads gateway configuration from environment variables,
// falling back to defaults for any unset values. The credential comes
// from OPENAI_API_KEY first; if absent, the secrets file named by
// COAI_SECRETS (default ".env.local") is parsed for the same key.
// A missing credential is not an error, it selects offline mode.
func LoadConfig(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	if v := os.Getenv("COAI_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("COAI_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("COAI_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("COAI_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("COAI_LLM_RETRY_BASE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetryBaseDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("COAI_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Millisecond
		}
	}

	cfg.APIKey = resolveCredential(logger)
	return cfg
}

// Configured reports whether a provider credential is available.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

const credentialKey = "OPENAI_API_KEY"

func resolveCredential(logger *slog.Logger) string {
	if key := os.Getenv(credentialKey); key != "" {
		return key
	}

	secretsPath := os.Getenv("COAI_SECRETS")
	if secretsPath == "" {
		secretsPath = ".env.local"
	}
	values, err := godotenv.Read(secretsPath)
	if err != nil {
		if logger != nil {
			logger.Info("no provider credential found, running in offline mode", "secrets_file", secretsPath)
		}
		return ""
	}
	return values[credentialKey]
}
