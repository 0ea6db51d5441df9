package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "auth_token", cfg.Auth.Cookie.Name)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "./data/uploads", cfg.Uploads.Dir)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ATTENDANCE_SERVER_PORT", "9000")
	t.Setenv("ATTENDANCE_AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
}

func TestJWTServiceConfigFallsBackToDefaultTTL(t *testing.T) {
	ac := AuthConfig{JWT: JWTSettings{Secret: "s", Issuer: "i"}}
	jc := ac.JWTServiceConfig()
	require.Equal(t, "s", jc.Secret)
	require.NotZero(t, jc.TokenTTL)
}
