package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
	require.Equal(t, int64(25<<20), cfg.Fetch.MaxBytes)
	require.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, "auto", cfg.Normalize.Mode)
	require.Equal(t, "openai", cfg.STT.Backend)
	require.Zero(t, cfg.LLM.MaxRetries)
	require.False(t, cfg.Cache.Enabled)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FETCH_MAX_BYTES", "1048576")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("NORMALIZE_MODE", "never")
	t.Setenv("STT_BACKEND", "local")
	t.Setenv("STT_DIARIZE", "true")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, int64(1<<20), cfg.Fetch.MaxBytes)
	require.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, "never", cfg.Normalize.Mode)
	require.Equal(t, "local", cfg.STT.Backend)
	require.True(t, cfg.STT.Diarize)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateRequiresAPIKeyForRemoteBackends(t *testing.T) {
	cfg := &Config{}
	cfg.STT.Backend = "openai"
	require.Error(t, cfg.Validate())

	cfg.STT.APIKey = "sk-test"
	require.NoError(t, cfg.Validate())
}

func TestValidateAllowsLocalBackendWithoutKey(t *testing.T) {
	cfg := &Config{}
	cfg.STT.Backend = "local"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{}
	cfg.STT.Backend = "bogus"
	cfg.STT.APIKey = "sk-test"
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresLLMProviderForPostProcessing(t *testing.T) {
	cfg := &Config{}
	cfg.STT.Backend = "local"
	cfg.PostProcess.Template = "clean this up"
	require.Error(t, cfg.Validate())

	cfg.LLM.AnthropicKey = "key"
	require.NoError(t, cfg.Validate())
}
