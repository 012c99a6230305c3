package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.IdentityTokenExpiration)
	assert.Equal(t, 60*time.Second, cfg.CapabilityTokenExpiration)
	assert.Equal(t, 512, cfg.MaxTokensPerRequest)
	assert.Equal(t, 10000, cfg.MaxTokensPerHour)
	assert.Equal(t, 30, cfg.RequestRateLimit)
	assert.Equal(t, 60*time.Second, cfg.RequestRateWindow)
	assert.Equal(t, 30*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, "gateway", cfg.MetricsNamespace)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CAPABILITY_TOKEN_EXPIRATION_SECONDS", "30")
	t.Setenv("MAX_TOKENS_PER_REQUEST", "256")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.CapabilityTokenExpiration)
	assert.Equal(t, 256, cfg.MaxTokensPerRequest)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseModels(t *testing.T) {
	t.Run("Success_DefaultModelSet", func(t *testing.T) {
		cfg := Load()

		require.Len(t, cfg.Models, 5)
		assert.Equal(t, []string{"gpt-4", "gpt-3.5-turbo", "llama2", "mistral", "phi"}, cfg.ModelNames())

		gpt4 := cfg.Model("gpt-4")
		require.NotNil(t, gpt4)
		assert.Equal(t, "openai", gpt4.Provider)
		assert.Equal(t, 0.03, gpt4.CostPer1KTokens)

		llama := cfg.Model("llama2")
		require.NotNil(t, llama)
		assert.Equal(t, "ollama", llama.Provider)
		assert.Zero(t, llama.CostPer1KTokens)
	})

	t.Run("Success_MalformedEntriesSkipped", func(t *testing.T) {
		models := parseModels("gpt-4:openai:0.03,broken,also:broken,empty::1,bad:cost:abc")

		require.Len(t, models, 1)
		assert.Equal(t, "gpt-4", models[0].Name)
	})

	t.Run("Success_UnknownModelReturnsNil", func(t *testing.T) {
		cfg := Load()
		assert.Nil(t, cfg.Model("gpt-5000"))
	})
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.logLevel}
		assert.Equal(t, tt.expected, cfg.GetGinMode())
	}
}
