package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost dbname=sawitku")
	t.Setenv("JWT_SECRET", "pendek")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost dbname=sawitku")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("HTTP_PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://sawitku.id, https://admin.sawitku.id")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sawitku", cfg.MinIO.Bucket)
	assert.False(t, cfg.UsesDefaultCORS())
	assert.Equal(t, []string{"https://sawitku.id", "https://admin.sawitku.id"}, cfg.AllowedOrigins())
}
