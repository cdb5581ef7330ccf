package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/nriproperty/portal/pkg/errors"
)

const (
	// DefaultSessionTTL is how long a client portal session token stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// DefaultAdminTTL is how long an admin console token stays valid.
	DefaultAdminTTL = 24 * time.Hour

	defaultIssuer = "nriproperty-portal"

	// RoleAdmin marks tokens issued through the admin login flow.
	RoleAdmin = "admin"
)

// Clock abstracts time for deterministic token tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SessionClaims are the JWT claims carried by client portal tokens.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HMAC-signed session tokens.
type JWTService struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	adminTTL   time.Duration
	clock      Clock
}

// JWTOption customises JWTService construction.
type JWTOption func(*JWTService)

// WithClock overrides the time source, used by tests.
func WithClock(clock Clock) JWTOption {
	return func(s *JWTService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) JWTOption {
	return func(s *JWTService) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithSessionTTL overrides the client session token lifetime.
func WithSessionTTL(ttl time.Duration) JWTOption {
	return func(s *JWTService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithAdminTTL overrides the admin token lifetime.
func WithAdminTTL(ttl time.Duration) JWTOption {
	return func(s *JWTService) {
		if ttl > 0 {
			s.adminTTL = ttl
		}
	}
}

// NewJWTService builds a token service around the shared HMAC secret.
func NewJWTService(secret string, opts ...JWTOption) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	svc := &JWTService{
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		sessionTTL: DefaultSessionTTL,
		adminTTL:   DefaultAdminTTL,
		clock:      systemClock{},
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// IssueSession mints a client portal token for a verified lead.
func (s *JWTService) IssueSession(email, name string) (string, error) {
	return s.issue(email, name, "", s.sessionTTL)
}

// IssueAdmin mints an admin console token.
func (s *JWTService) IssueAdmin(email string) (string, error) {
	return s.issue(email, "", RoleAdmin, s.adminTTL)
}

func (s *JWTService) issue(email, name, role string, ttl time.Duration) (string, error) {
	now := s.clock.Now()

	claims := SessionClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses the token string and returns its claims when the
// signature, algorithm, issuer and validity window all check out.
func (s *JWTService) Validate(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)

	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
