package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Lead statuses shown on the client dashboard.
const (
	LeadStatusUnderProcess = "under_process"
	LeadStatusApproved     = "approved"
	LeadStatusVerified     = "verified"
)

// Lead is the persisted record for one enquiry/applicant/client. The email is
// the natural key; it is stored in canonical form (lowercase, trimmed) and the
// store enforces uniqueness on it.
type Lead struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Message     string `gorm:"type:text" json:"message"`

	Status     string `gorm:"type:varchar(32);default:'under_process'" json:"status"`
	IsApproved bool   `gorm:"default:false;index" json:"is_approved"`
	IsVerified bool   `gorm:"default:false;index" json:"is_verified"`

	ApprovedAt *time.Time `json:"approved_at"`

	// OTP and OTPExpiresAt are set and cleared together; a pending code
	// without an expiry (or vice versa) is invalid.
	OTP          *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	Contracts     []Contract         `gorm:"foreignKey:LeadID" json:"contracts,omitempty"`
	Documents     []SignedDocument   `gorm:"foreignKey:LeadID" json:"documents,omitempty"`
	Messages      []ChatMessage      `gorm:"foreignKey:LeadID" json:"-"`
	Notifications []LeadNotification `gorm:"foreignKey:LeadID" json:"-"`
}

// CanonicalEmail lowercases and trims an email for lookup and storage.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasPendingOTP reports whether a login code is currently outstanding.
func (l *Lead) HasPendingOTP() bool {
	return l != nil && l.OTP != nil && l.OTPExpiresAt != nil
}

// BeforeSave rejects writes that would break the OTP pairing invariant.
func (l *Lead) BeforeSave(tx *gorm.DB) error {
	if (l.OTP == nil) != (l.OTPExpiresAt == nil) {
		return errors.New("lead: otp and otp_expires_at must be set together")
	}
	return nil
}
