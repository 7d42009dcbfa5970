package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "TELEGRAM_API_TOKEN", "HTTP_JWT_SECRET", "DATABASE_URL",
		"STORAGE_DRIVER", "REGISTRY_OWNER", "REGISTRY_LEGACY_GRANT_RESULT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("HTTP_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "secret", cfg.HTTP.JWTSecret)
	assert.Equal(t, "@every 1h", cfg.Audit.Schedule)
	assert.False(t, cfg.Registry.LegacyGrantResult)
	assert.Empty(t, cfg.TelegramAPIToken)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")
	t.Setenv("REGISTRY_OWNER", "telegram:42")
	t.Setenv("REGISTRY_LEGACY_GRANT_RESULT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "telegram:42", cfg.Registry.Owner)
	assert.True(t, cfg.Registry.LegacyGrantResult)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/quiz", dsn)
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownStorageDriver)
}

func TestLoadRequiresTransport(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrNoTransport)
}
