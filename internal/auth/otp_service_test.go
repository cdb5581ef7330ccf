package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

type memoryLeadStore struct {
	mu    sync.Mutex
	leads map[string]*models.Lead
}

func newMemoryLeadStore(leads ...*models.Lead) *memoryLeadStore {
	store := &memoryLeadStore{leads: make(map[string]*models.Lead)}
	for _, lead := range leads {
		store.leads[lead.Email] = lead
	}
	return store
}

func (s *memoryLeadStore) FindByEmail(_ context.Context, email string) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[email]
	if !ok {
		return nil, apperrors.ErrLeadNotFound
	}

	cpy := *lead
	return &cpy, nil
}

func (s *memoryLeadStore) SetOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[email]
	if !ok {
		return apperrors.ErrLeadNotFound
	}

	lead.OTP = &code
	lead.OTPExpiresAt = &expiresAt
	return nil
}

func (s *memoryLeadStore) ClearOTP(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[email]
	if !ok {
		return apperrors.ErrLeadNotFound
	}

	lead.OTP = nil
	lead.OTPExpiresAt = nil
	return nil
}

func (s *memoryLeadStore) get(email string) *models.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[email]
}

type capturingNotifier struct {
	mu    sync.Mutex
	sends []sentOTP
	err   error
}

type sentOTP struct {
	email string
	name  string
	code  string
	ttl   time.Duration
}

func (n *capturingNotifier) SendOTP(_ context.Context, email, name, code string, ttl time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, sentOTP{email: email, name: name, code: code, ttl: ttl})
	return n.err
}

func (n *capturingNotifier) all() []sentOTP {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentOTP(nil), n.sends...)
}

type otpFixture struct {
	svc      *OTPService
	store    *memoryLeadStore
	notifier *capturingNotifier
	clock    *fakeClock
	tokens   *JWTService
}

func newOTPFixture(t *testing.T, leads ...*models.Lead) *otpFixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestJWTService(t, clock)
	store := newMemoryLeadStore(leads...)
	notifier := &capturingNotifier{}

	codes := []string{"111111", "222222", "333333"}
	next := 0

	svc, err := NewOTPService(store, notifier, tokens,
		WithNowFunc(clock.Now),
		WithDispatchFunc(func(fn func()) { fn() }),
		WithCodeFunc(func(int) (string, error) {
			code := codes[next%len(codes)]
			next++
			return code, nil
		}),
	)
	require.NoError(t, err)

	return &otpFixture{svc: svc, store: store, notifier: notifier, clock: clock, tokens: tokens}
}

func approvedLead() *models.Lead {
	return &models.Lead{
		Name:       "Asha Patel",
		Email:      "asha@example.com",
		IsApproved: true,
		Status:     models.LeadStatusApproved,
	}
}

func TestIssueUnknownEmail(t *testing.T) {
	fx := newOTPFixture(t)

	err := fx.svc.Issue(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, apperrors.ErrLeadNotFound)
	require.Empty(t, fx.notifier.all())
}

func TestIssueUnapprovedLeadDoesNotMutate(t *testing.T) {
	lead := approvedLead()
	lead.IsApproved = false
	lead.Status = models.LeadStatusUnderProcess
	fx := newOTPFixture(t, lead)

	err := fx.svc.Issue(context.Background(), lead.Email)
	require.ErrorIs(t, err, apperrors.ErrPendingApproval)

	stored := fx.store.get(lead.Email)
	require.False(t, stored.HasPendingOTP())
	require.Empty(t, fx.notifier.all())
}

func TestIssueStoresCodeAndNotifies(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())

	require.NoError(t, fx.svc.Issue(context.Background(), "Asha@Example.com "))

	stored := fx.store.get("asha@example.com")
	require.True(t, stored.HasPendingOTP())
	require.Equal(t, "111111", *stored.OTP)
	require.Equal(t, fx.clock.now.Add(DefaultOTPTTL), *stored.OTPExpiresAt)

	sends := fx.notifier.all()
	require.Len(t, sends, 1)
	require.Equal(t, "asha@example.com", sends[0].email)
	require.Equal(t, "Asha Patel", sends[0].name)
	require.Equal(t, "111111", sends[0].code)
	require.Equal(t, DefaultOTPTTL, sends[0].ttl)
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))
	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	_, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	result, err := fx.svc.Verify(ctx, "asha@example.com", "222222")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestVerifyWithoutIssuedCode(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())

	_, err := fx.svc.Verify(context.Background(), "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrOTPNotRequested)
}

func TestVerifyUnknownEmail(t *testing.T) {
	fx := newOTPFixture(t)

	_, err := fx.svc.Verify(context.Background(), "nobody@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrLeadNotFound)
}

func TestVerifyExpiredCodeRequiresReissue(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	fx.clock.Advance(DefaultOTPTTL + time.Second)

	_, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrOTPExpired)

	// The code stays on the record; retrying still reports it as expired.
	_, err = fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrOTPExpired)
	require.True(t, fx.store.get("asha@example.com").HasPendingOTP())

	// Requesting a fresh code unblocks the login.
	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))
	result, err := fx.svc.Verify(ctx, "asha@example.com", "222222")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestVerifyAtExactExpiryStillSucceeds(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	fx.clock.Advance(DefaultOTPTTL)

	result, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestVerifyMismatchKeepsCode(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	_, err := fx.svc.Verify(ctx, "asha@example.com", "999999")
	require.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	// The correct code still works after a failed attempt.
	result, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestVerifySuccessIsSingleUse(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	result, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.NoError(t, err)

	claims, err := fx.tokens.Validate(result.Token)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", claims.Email)
	require.Equal(t, "Asha Patel", claims.Name)

	require.False(t, fx.store.get("asha@example.com").HasPendingOTP())

	// Replaying the consumed code fails.
	_, err = fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrOTPNotRequested)
}

func TestVerifyLeavesVerificationFlagUntouched(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	result, err := fx.svc.Verify(ctx, "asha@example.com", "111111")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	// Contract verification is flipped by an operator, never by login.
	stored := fx.store.get("asha@example.com")
	require.False(t, stored.IsVerified)
	require.Equal(t, models.LeadStatusApproved, stored.Status)
	require.False(t, result.Lead.IsVerified)
}

func TestVerifyRejectsUnapprovedLead(t *testing.T) {
	lead := approvedLead()
	code := "111111"
	expiry := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	lead.IsApproved = false
	lead.Status = models.LeadStatusUnderProcess
	lead.OTP = &code
	lead.OTPExpiresAt = &expiry
	fx := newOTPFixture(t, lead)

	_, err := fx.svc.Verify(context.Background(), "asha@example.com", "111111")
	require.ErrorIs(t, err, apperrors.ErrPendingApproval)
}

func TestVerifyTrimsSubmittedCode(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	ctx := context.Background()

	require.NoError(t, fx.svc.Issue(ctx, "asha@example.com"))

	result, err := fx.svc.Verify(ctx, "asha@example.com", "  111111  ")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestIssueSurvivesNotifierFailure(t *testing.T) {
	fx := newOTPFixture(t, approvedLead())
	fx.notifier.err = apperrors.ErrDependencyUnavailable

	require.NoError(t, fx.svc.Issue(context.Background(), "asha@example.com"))

	// The code is persisted even though delivery failed.
	stored := fx.store.get("asha@example.com")
	require.True(t, stored.HasPendingOTP())
}
