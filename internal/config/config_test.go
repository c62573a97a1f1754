package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ADDR", "APP_ENV", "API_URL", "AUTH_HEADER", "API_TIMEOUT", "API_RPS",
	"API_MAX_RETRIES", "SESSION_STORE", "SESSION_TTL", "COOKIE_SECURE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "DB_DSN", "LOGIN_RPS",
	"LOGIN_BURST", "LOG_LEVEL", "TRUSTED_PROXIES",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, "x-auth-token", cfg.AuthHeader)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 20.0, cfg.APIRPS)
	assert.Equal(t, 2, cfg.APIMaxRetries)
	assert.Equal(t, StoreCookie, cfg.SessionStore)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 1.0, cfg.LoginRPS)
	assert.Equal(t, 5, cfg.LoginBurst)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Development())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("AUTH_HEADER", "Authorization")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "Authorization", cfg.AuthHeader)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.Development())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"API_URL", "not a url"},
		{"API_TIMEOUT", "soon"},
		{"API_TIMEOUT", "-1s"},
		{"API_RPS", "fast"},
		{"API_MAX_RETRIES", "-2"},
		{"SESSION_STORE", "disk"},
		{"SESSION_TTL", "0s"},
		{"COOKIE_SECURE", "maybe"},
		{"LOGIN_BURST", "x"},
		{"LOGIN_RPS", "0"},
		{"LOGIN_RPS", "-1"},
		{"TRUSTED_PROXIES", "10.0.0.0/8, proxy.local"},
		{"LOG_LEVEL", "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadFromEnv_TrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10 ,2001:db8::/32,")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.10/32"),
		netip.MustParsePrefix("2001:db8::/32"),
	}, cfg.TrustedProxies)
}

func TestLoadFromEnv_PostgresNeedsDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "postgres")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/bookadmin")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.SessionStore)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("API_URL=http://from-file\nAPP_ADDR=:9999\n"), 0644))

	clearEnv(t)
	t.Setenv("API_URL", "http://from-env")
	require.NoError(t, os.Unsetenv("APP_ADDR"))

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
		_ = os.Unsetenv("APP_ADDR")
	})

	LoadEnvFiles()

	assert.Equal(t, "http://from-env", os.Getenv("API_URL"))
	assert.Equal(t, ":9999", os.Getenv("APP_ADDR"))
}
