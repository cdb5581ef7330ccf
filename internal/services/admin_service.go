package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/auth"
	"github.com/nriproperty/portal/internal/models"
	"github.com/nriproperty/portal/pkg/crypto"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// AdminService authenticates operators against stored bcrypt hashes.
type AdminService struct {
	db     *gorm.DB
	tokens *auth.JWTService
}

// NewAdminService constructs an AdminService backed by the given database.
func NewAdminService(db *gorm.DB, tokens *auth.JWTService) (*AdminService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	if tokens == nil {
		return nil, apperrors.New("CONFIG", "admin service requires a token service", 500)
	}
	return &AdminService{db: db, tokens: tokens}, nil
}

// Bootstrap ensures an operator account exists for the configured
// credentials. Existing accounts are left untouched.
func (s *AdminService) Bootstrap(ctx context.Context, email, password string) error {
	email = models.CanonicalEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var existing models.AdminAccount
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return apperrors.Wrap(err, "Failed to load admin account")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return apperrors.Wrap(err, "Failed to hash admin password")
	}

	account := &models.AdminAccount{Email: email, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return apperrors.Wrap(err, "Failed to create admin account")
	}

	return nil
}

// Login verifies operator credentials and returns an admin token. The error
// never reveals whether the email or the password was wrong.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, error) {
	email = models.CanonicalEmail(email)

	var account models.AdminAccount
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if isNotFound(err) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.Wrap(err, "Failed to load admin account")
	}

	if !crypto.VerifyPassword(account.PasswordHash, password) {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueAdmin(account.Email)
	if err != nil {
		return "", apperrors.Wrap(err, "Failed to issue admin token")
	}

	return token, nil
}
