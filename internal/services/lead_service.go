package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// Email status values returned by CheckEmail.
const (
	EmailStatusNotFound            = "not_found"
	EmailStatusPendingApproval     = "pending_approval"
	EmailStatusApprovedNotVerified = "approved_not_verified"
	EmailStatusVerified            = "verified"
)

// CreateLeadInput carries a new enquiry submission.
type CreateLeadInput struct {
	Name        string
	Email       string
	Country     string
	CountryCode string
	Phone       string
	Service     string
	Message     string
}

// UpdateProfileInput carries the fields a signed-in client may change.
type UpdateProfileInput struct {
	Name        *string
	Country     *string
	CountryCode *string
	Phone       *string
}

// LeadStats summarises the lead pipeline for the admin dashboard.
type LeadStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Verified int64 `json:"verified"`
}

// LeadService owns the lead lifecycle: enquiry intake, approval, OTP
// persistence and profile updates.
type LeadService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLeadService constructs a LeadService backed by the given database.
func NewLeadService(db *gorm.DB) (*LeadService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &LeadService{db: db, now: time.Now}, nil
}

// Create records a new enquiry. Emails are stored canonically and must be
// unique; a second enquiry for the same address is rejected.
func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*models.Lead, error) {
	lead := &models.Lead{
		Name:        input.Name,
		Email:       models.CanonicalEmail(input.Email),
		Country:     input.Country,
		CountryCode: input.CountryCode,
		Phone:       input.Phone,
		Service:     input.Service,
		Message:     input.Message,
		Status:      models.LeadStatusUnderProcess,
	}

	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateLead
		}
		return nil, apperrors.Wrap(err, "Failed to save enquiry")
	}

	return lead, nil
}

// FindByEmail loads a lead by canonical email.
func (s *LeadService) FindByEmail(ctx context.Context, email string) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.WithContext(ctx).
		Where("email = ?", models.CanonicalEmail(email)).
		First(&lead).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, apperrors.Wrap(err, "Failed to load account")
	}
	return &lead, nil
}

// FindByID loads a lead by primary key.
func (s *LeadService) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, apperrors.Wrap(err, "Failed to load account")
	}
	return &lead, nil
}

// CheckEmail reports how far an email has progressed through the pipeline.
func (s *LeadService) CheckEmail(ctx context.Context, email string) (string, error) {
	lead, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrLeadNotFound) {
			return EmailStatusNotFound, nil
		}
		return "", err
	}

	switch {
	case lead.IsVerified:
		return EmailStatusVerified, nil
	case lead.IsApproved:
		return EmailStatusApprovedNotVerified, nil
	default:
		return EmailStatusPendingApproval, nil
	}
}

// SetOTP stores a pending login code and its expiry on the lead.
func (s *LeadService) SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("email = ?", models.CanonicalEmail(email)).
		Updates(map[string]interface{}{
			"otp":            code,
			"otp_expires_at": expiresAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to store login code")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrLeadNotFound
	}
	return nil
}

// ClearOTP removes any pending login code from the lead.
func (s *LeadService) ClearOTP(ctx context.Context, email string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("email = ?", models.CanonicalEmail(email)).
		Updates(map[string]interface{}{
			"otp":            nil,
			"otp_expires_at": nil,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to clear login code")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrLeadNotFound
	}
	return nil
}

// MarkVerified flags a lead as having completed contract onboarding. An
// operator action; logging in never flips this.
func (s *LeadService) MarkVerified(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lead.IsVerified {
		return lead, nil
	}

	err = s.db.WithContext(ctx).
		Model(lead).
		Updates(map[string]interface{}{
			"is_verified": true,
			"status":      models.LeadStatusVerified,
		}).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to update account")
	}

	lead.IsVerified = true
	lead.Status = models.LeadStatusVerified
	return lead, nil
}

// IsApproved reports whether the account behind email is currently approved.
// Used for live approval rechecks on authenticated requests.
func (s *LeadService) IsApproved(ctx context.Context, email string) (bool, error) {
	lead, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrLeadNotFound) {
			return false, nil
		}
		return false, err
	}
	return lead.IsApproved, nil
}

// Approve moves a lead into the approved state, allowing OTP login.
func (s *LeadService) Approve(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lead.IsApproved {
		return lead, nil
	}

	approvedAt := s.now()
	err = s.db.WithContext(ctx).
		Model(lead).
		Updates(map[string]interface{}{
			"is_approved": true,
			"status":      models.LeadStatusApproved,
			"approved_at": approvedAt,
		}).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to approve account")
	}

	lead.IsApproved = true
	lead.Status = models.LeadStatusApproved
	lead.ApprovedAt = &approvedAt
	return lead, nil
}

// UpdateProfile applies the client-editable profile fields.
func (s *LeadService) UpdateProfile(ctx context.Context, email string, input UpdateProfileInput) (*models.Lead, error) {
	lead, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.CountryCode != nil {
		updates["country_code"] = *input.CountryCode
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}

	if len(updates) == 0 {
		return lead, nil
	}

	if err := s.db.WithContext(ctx).Model(lead).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to update profile")
	}

	return s.FindByEmail(ctx, email)
}

// ListAll returns every lead, newest first, for the admin queue.
func (s *LeadService) ListAll(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list enquiries")
	}
	return leads, nil
}

// ListApproved returns approved leads, newest approval first.
func (s *LeadService) ListApproved(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("approved_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list approved accounts")
	}
	return leads, nil
}

// Stats aggregates pipeline counts for the admin dashboard.
func (s *LeadService) Stats(ctx context.Context) (*LeadStats, error) {
	stats := &LeadStats{}
	model := func() *gorm.DB { return s.db.WithContext(ctx).Model(&models.Lead{}) }

	if err := model().Count(&stats.Total).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to compute stats")
	}
	if err := model().Where("is_approved = ?", false).Count(&stats.Pending).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to compute stats")
	}
	if err := model().Where("is_approved = ?", true).Count(&stats.Approved).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to compute stats")
	}
	if err := model().Where("is_verified = ?", true).Count(&stats.Verified).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to compute stats")
	}

	return stats, nil
}
