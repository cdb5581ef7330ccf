package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nriproperty/portal/pkg/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestJWTService(t *testing.T, clock Clock) *JWTService {
	t.Helper()

	svc, err := NewJWTService("test-secret-key", WithClock(clock))
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService("   ")
	require.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestJWTService(t, clock)

	token, err := svc.IssueSession("client@example.com", "Asha Patel")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "client@example.com", claims.Email)
	require.Equal(t, "Asha Patel", claims.Name)
	require.Empty(t, claims.Role)
	require.Equal(t, clock.now.Add(DefaultSessionTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestAdminTokenCarriesRole(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestJWTService(t, clock)

	token, err := svc.IssueAdmin("admin@example.com")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, clock.now.Add(DefaultAdminTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestJWTService(t, clock)

	token, err := svc.IssueSession("client@example.com", "Asha Patel")
	require.NoError(t, err)

	clock.Advance(DefaultSessionTTL + time.Minute)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestJWTService(t, clock)

	other, err := NewJWTService("a-different-secret", WithClock(clock))
	require.NoError(t, err)

	token, err := other.IssueSession("client@example.com", "Asha Patel")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestJWTService(t, &fakeClock{now: time.Now()})

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(token)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	}
}

func TestCustomTTLOptions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc, err := NewJWTService("test-secret-key",
		WithClock(clock),
		WithSessionTTL(time.Hour),
		WithAdminTTL(30*time.Minute),
	)
	require.NoError(t, err)

	token, err := svc.IssueSession("client@example.com", "Asha Patel")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, clock.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}
