package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/metrics"
)

const pageViewCounterID = "landing"

// ViewService maintains the landing-page view counter.
type ViewService struct {
	db *gorm.DB
}

// NewViewService constructs a ViewService backed by the given database.
func NewViewService(db *gorm.DB) (*ViewService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &ViewService{db: db}, nil
}

// Current returns the persisted view count.
func (s *ViewService) Current(ctx context.Context) (int64, error) {
	var counter models.PageViewCounter
	err := s.db.WithContext(ctx).
		Where("id = ?", pageViewCounterID).
		First(&counter).Error
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "Failed to load view count")
	}
	return counter.Views, nil
}

// Increment bumps the view counter atomically and returns the new value.
func (s *ViewService) Increment(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.PageViewCounter{}).
		Where("id = ?", pageViewCounterID).
		Update("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "Failed to record view")
	}

	if result.RowsAffected == 0 {
		counter := models.PageViewCounter{
			BaseModel: models.BaseModel{ID: pageViewCounterID},
			Views:     1,
		}
		if err := s.db.WithContext(ctx).Create(&counter).Error; err != nil && !isUniqueConstraintError(err) {
			return 0, apperrors.Wrap(err, "Failed to record view")
		}
	}

	metrics.PageViews.Inc()

	return s.Current(ctx)
}
