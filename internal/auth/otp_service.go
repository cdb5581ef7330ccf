package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nriproperty/portal/internal/models"
	"github.com/nriproperty/portal/pkg/crypto"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/logger"
	"github.com/nriproperty/portal/pkg/metrics"
)

const (
	// DefaultOTPTTL is how long an issued login code stays valid.
	DefaultOTPTTL = 10 * time.Minute

	// DefaultOTPDigits is the width of issued login codes.
	DefaultOTPDigits = 6
)

// LeadStore is the persistence surface the OTP flow needs. Implemented by
// services.LeadService.
type LeadStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Lead, error)
	SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, email string) error
}

// Notifier delivers the login code to the lead, typically by email.
type Notifier interface {
	SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error
}

// VerifyResult is returned on a successful code check.
type VerifyResult struct {
	Token string
	Lead  *models.Lead
}

// OTPService implements the email one-time-code login flow: only approved
// leads may request a code, codes are single use, and a fresh request
// invalidates any code still outstanding.
type OTPService struct {
	store    LeadStore
	notifier Notifier
	tokens   *JWTService

	ttl    time.Duration
	digits int

	now      func() time.Time
	genCode  func(int) (string, error)
	dispatch func(func())
}

// OTPOption customises OTPService construction.
type OTPOption func(*OTPService)

// WithOTPTTL overrides the code lifetime.
func WithOTPTTL(ttl time.Duration) OTPOption {
	return func(s *OTPService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithOTPDigits overrides the code width.
func WithOTPDigits(digits int) OTPOption {
	return func(s *OTPService) {
		if digits > 0 {
			s.digits = digits
		}
	}
}

// WithNowFunc overrides the time source, used by tests.
func WithNowFunc(now func() time.Time) OTPOption {
	return func(s *OTPService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeFunc overrides code generation, used by tests.
func WithCodeFunc(gen func(int) (string, error)) OTPOption {
	return func(s *OTPService) {
		if gen != nil {
			s.genCode = gen
		}
	}
}

// WithDispatchFunc overrides how notification sends are scheduled. The
// default runs them on a fresh goroutine; tests pass an inline dispatcher.
func WithDispatchFunc(dispatch func(func())) OTPOption {
	return func(s *OTPService) {
		if dispatch != nil {
			s.dispatch = dispatch
		}
	}
}

// NewOTPService wires the login-code flow around its collaborators.
func NewOTPService(store LeadStore, notifier Notifier, tokens *JWTService, opts ...OTPOption) (*OTPService, error) {
	if store == nil {
		return nil, apperrors.New("CONFIG", "otp service requires a lead store", 500)
	}
	if tokens == nil {
		return nil, apperrors.New("CONFIG", "otp service requires a token service", 500)
	}

	svc := &OTPService{
		store:    store,
		notifier: notifier,
		tokens:   tokens,
		ttl:      DefaultOTPTTL,
		digits:   DefaultOTPDigits,
		now:      time.Now,
		genCode:  crypto.GenerateNumericCode,
		dispatch: func(fn func()) { go fn() },
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Issue generates a fresh login code for an approved lead, persists it with
// its expiry, and schedules delivery. Any previously outstanding code is
// overwritten and therefore invalidated. Leads that do not exist or are not
// yet approved are rejected without any state change.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	email = models.CanonicalEmail(email)

	lead, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		metrics.OTPIssued.WithLabelValues("rejected").Inc()
		return err
	}

	if !lead.IsApproved {
		metrics.OTPIssued.WithLabelValues("rejected").Inc()
		return apperrors.ErrPendingApproval
	}

	code, err := s.genCode(s.digits)
	if err != nil {
		metrics.OTPIssued.WithLabelValues("error").Inc()
		return apperrors.Wrap(err, "Failed to generate login code")
	}

	expiresAt := s.now().Add(s.ttl)
	if err := s.store.SetOTP(ctx, email, code, expiresAt); err != nil {
		metrics.OTPIssued.WithLabelValues("error").Inc()
		return apperrors.Wrap(err, "Failed to store login code")
	}

	metrics.OTPIssued.WithLabelValues("dispatched").Inc()

	if s.notifier != nil {
		name, ttl := lead.Name, s.ttl
		s.dispatch(func() {
			// The request context is gone by the time the send runs.
			if err := s.notifier.SendOTP(context.Background(), email, name, code, ttl); err != nil {
				logger.Error("otp email delivery failed",
					zap.String("email", email),
					zap.Error(err),
				)
			}
		})
	}

	return nil
}

// Verify checks a submitted code against the outstanding one. On success the
// code is cleared (single use) and a session token is returned. Expired codes
// stay in place until the lead requests a fresh one or the cleanup job reaps
// them; mismatches also leave the outstanding code untouched. Login never
// changes the contract-verification flag, which is an operator action.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	email = models.CanonicalEmail(email)

	lead, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		metrics.OTPVerifications.WithLabelValues("not_found").Inc()
		return nil, err
	}

	// Approval can be revoked while a code is outstanding.
	if !lead.IsApproved {
		metrics.OTPVerifications.WithLabelValues("pending_approval").Inc()
		return nil, apperrors.ErrPendingApproval
	}

	if !lead.HasPendingOTP() {
		metrics.OTPVerifications.WithLabelValues("not_requested").Inc()
		return nil, apperrors.ErrOTPNotRequested
	}

	if s.now().After(*lead.OTPExpiresAt) {
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return nil, apperrors.ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(*lead.OTP), []byte(strings.TrimSpace(code))) != 1 {
		metrics.OTPVerifications.WithLabelValues("mismatch").Inc()
		return nil, apperrors.ErrOTPMismatch
	}

	if err := s.store.ClearOTP(ctx, email); err != nil {
		return nil, apperrors.Wrap(err, "Failed to clear login code")
	}

	token, err := s.tokens.IssueSession(lead.Email, lead.Name)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to issue session token")
	}

	metrics.OTPVerifications.WithLabelValues("success").Inc()

	return &VerifyResult{Token: token, Lead: lead}, nil
}
