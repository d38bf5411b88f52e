package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/courses")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/courses", cfg.DBURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "access-secret", cfg.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshTokenSecret)
	assert.Equal(t, 15, cfg.AccessExpiryMin)
	assert.Equal(t, 10080, cfg.RefreshExpiryMin)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15, cfg.LockoutWindowMin)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60, cfg.IdentityCacheTTLSec)
	assert.Equal(t, 5, cfg.MaxActiveRefreshTokens)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "2880")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")
	t.Setenv("LOGIN_LOCKOUT_WINDOW", "30")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("IDENTITY_CACHE_TTL", "120")
	t.Setenv("MAX_ACTIVE_REFRESH_TOKENS", "10")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 30, cfg.AccessExpiryMin)
	assert.Equal(t, 2880, cfg.RefreshExpiryMin)
	assert.Equal(t, 3, cfg.LoginMaxAttempts)
	assert.Equal(t, 30, cfg.LockoutWindowMin)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 120, cfg.IdentityCacheTTLSec)
	assert.Equal(t, 10, cfg.MaxActiveRefreshTokens)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOGIN_MAX_ATTEMPTS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 5, cfg.LoginMaxAttempts)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SOME_KEY", "value")

	assert.Equal(t, "value", getEnv("SOME_KEY", "default"))
	assert.Equal(t, "default", getEnv("UNSET_KEY", "default"))

	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 7))
	assert.Equal(t, 7, getEnvAsInt("UNSET_INT", 7))
}
