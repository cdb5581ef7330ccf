package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/logger"
)

// SupportAlerter notifies operators when a new support query arrives.
type SupportAlerter interface {
	SendSupportAlert(ctx context.Context, name, phone, location, issue string) error
}

// SupportService stores public support requests and alerts the operations
// inbox about each new one.
type SupportService struct {
	db      *gorm.DB
	alerter SupportAlerter

	dispatch func(func())
}

// NewSupportService constructs a SupportService. The alerter may be nil when
// outbound email is disabled.
func NewSupportService(db *gorm.DB, alerter SupportAlerter) (*SupportService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &SupportService{
		db:       db,
		alerter:  alerter,
		dispatch: func(fn func()) { go fn() },
	}, nil
}

// Create records a support query and schedules the operator alert. The query
// is saved even when the alert cannot be delivered.
func (s *SupportService) Create(ctx context.Context, name, phone, location, issue string) (*models.SupportQuery, error) {
	query := &models.SupportQuery{
		Name:     name,
		Phone:    phone,
		Location: location,
		Issue:    issue,
	}
	if err := s.db.WithContext(ctx).Create(query).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to save support query")
	}

	if s.alerter != nil {
		s.dispatch(func() {
			if err := s.alerter.SendSupportAlert(context.Background(), name, phone, location, issue); err != nil {
				logger.Error("support alert delivery failed", zap.Error(err))
			}
		})
	}

	return query, nil
}

// List returns all support queries, newest first.
func (s *SupportService) List(ctx context.Context) ([]models.SupportQuery, error) {
	var queries []models.SupportQuery
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&queries).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list support queries")
	}
	return queries, nil
}

// Count returns the total number of support queries.
func (s *SupportService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SupportQuery{}).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "Failed to count support queries")
	}
	return count, nil
}
