package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("fails fast without secrets", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "")
		t.Setenv("CRM_REFRESH_SECRET", "")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrMissingSecrets)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "access-secret")
		t.Setenv("CRM_REFRESH_SECRET", "refresh-secret")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, 24*time.Hour, cfg.AccessTTL)
		require.Equal(t, 30*24*time.Hour, cfg.RefreshTTL)
		require.Equal(t, "memory", cfg.SessionBackend)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, "crm.db", cfg.DatabaseFile)
	})

	t.Run("redis backend requires an address", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "access-secret")
		t.Setenv("CRM_REFRESH_SECRET", "refresh-secret")
		t.Setenv("CRM_SESSION_BACKEND", "redis")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrMissingRedisAddr)

		t.Setenv("CRM_REDIS_ADDR", "localhost:6379")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "redis", cfg.SessionBackend)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "access-secret")
		t.Setenv("CRM_REFRESH_SECRET", "refresh-secret")
		t.Setenv("CRM_SESSION_BACKEND", "etcd")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrUnknownSessionStore)
	})

	t.Run("admin seed requires a password", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "access-secret")
		t.Setenv("CRM_REFRESH_SECRET", "refresh-secret")
		t.Setenv("CRM_ADMIN_USERNAME", "root")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrMissingAdminSeed)

		t.Setenv("CRM_ADMIN_PASSWORD", "changeme1")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "root", cfg.AdminUsername)
		require.Equal(t, "changeme1", cfg.AdminPassword)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CRM_ACCESS_SECRET", "access-secret")
		t.Setenv("CRM_REFRESH_SECRET", "refresh-secret")
		t.Setenv("CRM_ACCESS_TTL", "15m")
		t.Setenv("PORT", "9090")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, 15*time.Minute, cfg.AccessTTL)
		require.Equal(t, 9090, cfg.Port)
	})
}
