package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t, "HTTP_PORT", "ENV", "JWT_TTL", "REDIS_ADDR", "REDIS_DB", "CORS_ORIGINS", "FRONTEND_URL",
		"EMAIL_HOST", "EMAIL_USER", "EMAIL_FROM", "EMAIL_PORT", "S3_BUCKET", "HTTP_READ_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.Email.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

// unsetAll removes keys for the duration of the test.
func unsetAll(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9000")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr())
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, 2525, cfg.Email.Port)
}

func TestLoad_BadNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "a week")

	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestLoad_DerivedDefaults(t *testing.T) {
	unsetAll(t, "CORS_ORIGINS", "EMAIL_FROM")
	t.Setenv("FRONTEND_URL", "https://alumni.example/")
	t.Setenv("EMAIL_USER", "relay@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://alumni.example", cfg.FrontendURL)
	assert.Equal(t, []string{"https://alumni.example"}, cfg.CORSOrigins)
	assert.Equal(t, "relay@example.com", cfg.Email.From)
}

func TestValidate(t *testing.T) {
	prod := &Config{Env: "prod", JWT: JWTConfig{TTL: time.Hour}}
	assert.Error(t, prod.Validate())

	dev := &Config{Env: "dev", JWT: JWTConfig{TTL: time.Hour}}
	require.NoError(t, dev.Validate())
	assert.NotEmpty(t, dev.JWT.Secret)

	zeroTTL := &Config{Env: "dev", JWT: JWTConfig{Secret: "s"}}
	assert.Error(t, zeroTTL.Validate())
}

func TestScoreWeightsSumToHundred(t *testing.T) {
	assert.Equal(t, 100, ExpertiseWeight+AvailabilityWeight+TopicWeight)
}
