package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: test-secret\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "coursehub", cfg.Database.DBName)
	assert.Equal(t, "coursehub.app", cfg.JWT.Issuer)
	assert.Equal(t, "1h", cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "uploads", cfg.Storage.BasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: \"9090\"\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: from-file\n")

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_NAME", "coursehub_test")
	t.Setenv("DB_MAX_CONNS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "coursehub_test", cfg.Database.DBName)
	assert.Equal(t, 5, cfg.Database.MaxConns)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: s\n  access_token_expiration: nonsense\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "coursehub"

	assert.Equal(t,
		"postgres://app:pw@db.internal:5433/coursehub?sslmode=disable",
		cfg.GetPostgresConnectionString())
}

func TestLoadConfigMissingFileUsesEnvOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}
