package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nriproperty/portal/pkg/mail"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORTAL_AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
	require.Equal(t, 6, cfg.Auth.OTPDigits)
	require.False(t, cfg.Auth.RecheckApproval)
	require.Equal(t, "disabled", cfg.Email.Provider)
	require.Equal(t, "*/10 * * * *", cfg.Maintenance.OTPCleanupSchedule)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9000
auth:
  jwt_secret: file-secret
  otp_ttl: 5m
  recheck_approval: true
email:
  provider: smtp
  from: portal@example.com
  smtp:
    host: smtp.example.com
    port: 2525
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	require.True(t, cfg.Auth.RecheckApproval)
	require.Equal(t, "smtp", cfg.Email.Provider)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("PORTAL_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("PORTAL_EMAIL_PROVIDER", "pigeon")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestNewMailerDisabledProviderDropsMail(t *testing.T) {
	mailer, err := NewMailer(EmailConfig{Provider: "disabled"})
	require.NoError(t, err)
	require.NoError(t, mailer.Send(context.Background(), mail.Message{
		To:      []string{"client@example.com"},
		Subject: "ignored",
	}))
}
