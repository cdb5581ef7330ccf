package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// NotificationService manages operator messages shown on the client dashboard.
type NotificationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewNotificationService constructs a NotificationService backed by the given database.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &NotificationService{db: db, now: time.Now}, nil
}

// Create records a notification for a lead. Metadata is optional.
func (s *NotificationService) Create(ctx context.Context, leadID, title, message, severity string, metadata map[string]interface{}) (*models.LeadNotification, error) {
	if severity == "" {
		severity = "info"
	}

	notification := &models.LeadNotification{
		LeadID:   leadID,
		Title:    title,
		Message:  message,
		Severity: severity,
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, apperrors.Wrap(err, "Failed to encode notification metadata")
		}
		notification.Metadata = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to save notification")
	}

	return notification, nil
}

// ListForLead returns a lead's notifications, newest first.
func (s *NotificationService) ListForLead(ctx context.Context, leadID string) ([]models.LeadNotification, error) {
	var notifications []models.LeadNotification
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list notifications")
	}
	return notifications, nil
}

// UnreadCount returns how many notifications a lead has not read yet.
func (s *NotificationService) UnreadCount(ctx context.Context, leadID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LeadNotification{}).
		Where("lead_id = ? AND is_read = ?", leadID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "Failed to count notifications")
	}
	return count, nil
}

// MarkRead flags a single notification as read. The lead ID guards against
// marking another account's notification.
func (s *NotificationService) MarkRead(ctx context.Context, leadID, notificationID string) error {
	result := s.db.WithContext(ctx).
		Model(&models.LeadNotification{}).
		Where("id = ? AND lead_id = ?", notificationID, leadID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": s.now(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to update notification")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification for a lead as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, leadID string) error {
	err := s.db.WithContext(ctx).
		Model(&models.LeadNotification{}).
		Where("lead_id = ? AND is_read = ?", leadID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": s.now(),
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "Failed to update notifications")
	}
	return nil
}
