package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUIZ_JWT_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultEnv, cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, Duration(defaultAccessTokenTTL), cfg.Security.AccessTokenTTL)
	assert.Equal(t, Duration(defaultSessionTokenTTL), cfg.Security.SessionTokenTTL)
	assert.Equal(t, defaultRefreshCookieName, cfg.Security.RefreshCookieName)
	assert.Equal(t, defaultAuthCapacity, cfg.RateLimit.Auth.Capacity)
	assert.Equal(t, defaultGeneralCapacity, cfg.RateLimit.General.Capacity)
	assert.Equal(t, Duration(defaultRefillPeriod), cfg.RateLimit.Auth.RefillPeriod)
	assert.Equal(t, DefaultBypassPrefixes, cfg.BypassPrefixes)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
port: 9090
env: production
security:
  jwt_secret: from-file
  access_token_ttl: 30m
  session_token_ttl: 48h
rate_limit:
  auth:
    capacity: 3
    refill_tokens: 1
    refill_period: 10s
  general:
    enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "from-file", cfg.Security.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Security.AccessTokenTTL.Std())
	assert.Equal(t, 48*time.Hour, cfg.Security.SessionTokenTTL.Std())
	assert.Equal(t, 3, cfg.RateLimit.Auth.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.Auth.RefillTokens)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Auth.RefillPeriod.Std())
	assert.True(t, cfg.RateLimit.Auth.IsEnabled())
	assert.False(t, cfg.RateLimit.General.IsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 9090
security:
  jwt_secret: from-file
`)
	t.Setenv("QUIZ_PORT", "7070")
	t.Setenv("QUIZ_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "from-env", cfg.Security.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("QUIZ_JWT_SECRET", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
security:
  jwt_secret: from-file
  access_token_ttl: "soon"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestCookieSecureValue(t *testing.T) {
	cfg := &AppConfig{Env: "production"}
	assert.True(t, cfg.CookieSecureValue())

	cfg.Env = "development"
	assert.False(t, cfg.CookieSecureValue())

	secure := true
	cfg.Security.CookieSecure = &secure
	assert.True(t, cfg.CookieSecureValue())
}

func TestDSNValue(t *testing.T) {
	t.Setenv("QUIZ_JWT_SECRET", "test-secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	dsn := cfg.Database.DSNValue()
	assert.Contains(t, dsn, "@tcp(")
	assert.Contains(t, dsn, "parseTime=true")

	cfg.Database.DSN = "user:pass@tcp(db:3306)/quiz"
	assert.Equal(t, "user:pass@tcp(db:3306)/quiz", cfg.Database.DSNValue())
}
