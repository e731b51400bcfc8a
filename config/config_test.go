package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromGroupedJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"app": {"AppPort": "9090", "AllowedOrigins": ["https://blog.example"], "SessionTTLHours": 2},
		"api": {"BaseURL": "http://backend:3000/", "TimeoutSec": 4},
		"redis": {"RedisHost": "cache", "RedisPort": 6380},
		"log": {"Level": "debug", "GinMode": "test"}
	}`)

	c, err := LoadFrom(path, "")
	require.NoError(t, err)
	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "http://backend:3000", c.APIBaseURL)
	assert.Equal(t, 4, c.APITimeoutSec)
	assert.Equal(t, []string{"https://blog.example"}, c.AllowedOrigins)
	assert.Equal(t, 2, c.SessionTTLHours)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "test", c.GinMode)
	// defaults
	assert.Equal(t, "blogfront_session", c.CookieName)
	assert.Equal(t, 30, c.RateLimitPerMinute)
}

func TestLoadFromEnvOverridesJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"APIBaseURL": "http://from-file", "AppPort": "1000"}`)
	t.Setenv("API_URL", "http://from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("COOKIE_SECURE", "true")

	c, err := LoadFrom(path, "")
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", c.APIBaseURL)
	assert.Equal(t, "1000", c.AppPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.True(t, c.CookieSecure)
}

func TestLoadFromDotEnv(t *testing.T) {
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")
	env := writeFile(t, ".env", "API_URL=http://dotenv:3000\n")
	t.Cleanup(func() { os.Unsetenv("API_URL") })

	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"), env)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:3000", c.APIBaseURL)
}

func TestLoadFromRequiresBaseURL(t *testing.T) {
	t.Setenv("API_URL", "")
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"), "")
	require.ErrorIs(t, err, ErrMissingAPIBaseURL)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"app": `)
	_, err := LoadFrom(path, "")
	require.Error(t, err)
}
