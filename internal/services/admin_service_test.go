package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nriproperty/portal/internal/auth"
	"github.com/nriproperty/portal/internal/database/testutil"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func newAdminFixture(t *testing.T) (*AdminService, *auth.JWTService) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	tokens, err := auth.NewJWTService("test-secret-key",
		auth.WithClock(stubClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}))
	require.NoError(t, err)

	svc, err := NewAdminService(db, tokens)
	require.NoError(t, err)

	return svc, tokens
}

func TestBootstrapAndLogin(t *testing.T) {
	svc, tokens := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "Ops@Example.com", "correct horse battery"))

	// Re-running keeps the original credentials.
	require.NoError(t, svc.Bootstrap(ctx, "ops@example.com", "another password"))

	token, err := svc.Login(ctx, "OPS@example.com", "correct horse battery")
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", claims.Email)
	require.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "ops@example.com", "correct horse battery"))

	_, err := svc.Login(ctx, "ops@example.com", "wrong password")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "unknown@example.com", "correct horse battery")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestBootstrapSkipsBlankCredentials(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "", ""))

	_, err := svc.Login(ctx, "", "")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
