package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, ".NS", config.Markets.DefaultSuffix)
	assert.Equal(t, 3, config.Markets.Years)
	assert.Equal(t, "once", config.Gemini.ModelResolution)
	assert.NotEmpty(t, config.Gemini.ModelPreferences)
	assert.Equal(t, 3, config.Report.MaxAttempts)
	assert.True(t, config.Report.FailFast)
	assert.Equal(t, 1, config.Cache.Hours)

	require.NoError(t, config.Validate())
}

func TestLoadFromFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrutor.toml")

	content := `
[server]
port = 9090

[markets]
default_suffix = ".US"
years = 5

[gemini]
model_resolution = "fixed"
model = "gemini-1.5-pro"

[report]
max_attempts = 5
fail_fast = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, ".US", config.Markets.DefaultSuffix)
	assert.Equal(t, 5, config.Markets.Years)
	assert.Equal(t, "fixed", config.Gemini.ModelResolution)
	assert.Equal(t, "gemini-1.5-pro", config.Gemini.Model)
	assert.Equal(t, 5, config.Report.MaxAttempts)
	assert.False(t, config.Report.FailFast)

	// Unset sections keep defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 3, config.Search.MaxResults)
}

func TestLoadFromFileInvalidResolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrutor.toml")

	content := `
[gemini]
model_resolution = "sometimes"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadDuration(t *testing.T) {
	config := NewDefaultConfig()
	config.Report.InitialBackoff = "not-a-duration"

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.initial_backoff")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCRUTOR_SERVER_PORT", "7070")
	t.Setenv("SCRUTOR_GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("SCRUTOR_TAVILY_API_KEY", "env-tavily-key")
	t.Setenv("SCRUTOR_MARKET_SUFFIX", ".BO")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "env-gemini-key", config.Gemini.APIKey)
	assert.Equal(t, "env-tavily-key", config.Tavily.APIKey)
	assert.Equal(t, ".BO", config.Markets.DefaultSuffix)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 3000, "0.0.0.0")
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}
