package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VERSALLES_ENV", "development")
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("IDENTITY_URL", "https://identity.internal")
	t.Setenv("IDENTITY_API_KEY", "key")
	t.Setenv("IDENTITY_JWT_SECRET", "jwt-secret")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.Production())
	assert.Len(t, cfg.SessionSecret, 32)
}

func TestLoadDefaultsToDevelopment(t *testing.T) {
	setValidEnv(t)
	t.Setenv("VERSALLES_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 31))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	setValidEnv(t)
	t.Setenv("VERSALLES_ENV", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERSALLES_ENV")
}

func TestProductionFlag(t *testing.T) {
	setValidEnv(t)
	t.Setenv("VERSALLES_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
}
