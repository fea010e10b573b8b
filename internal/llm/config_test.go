package llm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Configured())
	assert.Equal(t, "gpt-5-nano", cfg.Model)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 600*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, 1000, cfg.MaxTokens)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COAI_LLM_ENDPOINT", "http://localhost:9999/v1")
	t.Setenv("COAI_LLM_MODEL", "test-model")
	t.Setenv("COAI_LLM_MAX_RETRIES", "5")
	t.Setenv("COAI_LLM_TIMEOUT_MS", "1500")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := LoadConfig(nil)

	assert.Equal(t, "http://localhost:9999/v1", cfg.Endpoint)
	assert.Equal(t, "test-model", cfg.Model)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.True(t, cfg.Configured())
}

func TestLoadConfig_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("COAI_LLM_MAX_RETRIES", "not-a-number")
	t.Setenv("COAI_LLM_TIMEOUT_MS", "-5")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COAI_SECRETS", filepath.Join(t.TempDir(), "missing"))

	cfg := LoadConfig(nil)

	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

// The env var wins over the secrets file; the secrets file is only
// consulted when the env var is empty.
func TestResolveCredential_SecretsFile(t *testing.T) {
	dir := t.TempDir()
	secrets := filepath.Join(dir, "secrets.env")
	require.NoError(t, os.WriteFile(secrets, []byte("# local secrets\nOPENAI_API_KEY=\"sk-from-file\"\nOTHER=x\n"), 0o600))

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COAI_SECRETS", secrets)

	cfg := LoadConfig(nil)
	assert.Equal(t, "sk-from-file", cfg.APIKey)

	t.Setenv("OPENAI_API_KEY", "sk-env-wins")
	cfg = LoadConfig(nil)
	assert.Equal(t, "sk-env-wins", cfg.APIKey)
}

func TestResolveCredential_MissingFileMeansOffline(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COAI_SECRETS", filepath.Join(t.TempDir(), "nope.env"))

	cfg := LoadConfig(nil)
	assert.False(t, cfg.Configured())
}
