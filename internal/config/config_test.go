package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ORDER_STATUS_FREE_TRANSITIONS", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PIX_KEY", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, DefaultPixKey, cfg.PixKey)
	assert.False(t, cfg.FreeStatusTransitions)
	assert.Len(t, cfg.SessionSecret, 32)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/urbanfood")
	t.Setenv("SESSION_SECRET", "segredo")
	t.Setenv("ORDER_STATUS_FREE_TRANSITIONS", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:5173 ,")
	t.Setenv("PIX_KEY", "financeiro@loja.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/urbanfood", cfg.DatabaseURL)
	assert.Equal(t, "financeiro@loja.com", cfg.PixKey)
	assert.Equal(t, []byte("segredo"), cfg.SessionSecret)
	assert.True(t, cfg.FreeStatusTransitions)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
}

func TestFromEnvRejectsBadBool(t *testing.T) {
	t.Setenv("ORDER_STATUS_FREE_TRANSITIONS", "talvez")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ORDER_STATUS_FREE_TRANSITIONS", "")
	t.Setenv("PIX_KEY", "financeiro@loja.com")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestProductionRequiresPixKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "segredo")
	t.Setenv("ORDER_STATUS_FREE_TRANSITIONS", "")
	t.Setenv("PIX_KEY", "  ")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "PIX_KEY")

	t.Setenv("PIX_KEY", "financeiro@loja.com")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "financeiro@loja.com", cfg.PixKey)
}
