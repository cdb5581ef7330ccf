package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	"github.com/nriproperty/portal/pkg/logger"
)

const (
	defaultOTPSpec                = "*/10 * * * *"
	defaultNotificationSpec       = "@daily"
	defaultNotificationMaxAgeDays = 180
)

// Cleaner runs background maintenance: clearing expired login codes and
// pruning old read notifications.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	otpSchedule          string
	notificationSchedule string
	notificationMaxAge   int
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithOTPSchedule overrides the cron specification for expired code cleanup.
func WithOTPSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.otpSchedule = spec
		}
	}
}

// WithNotificationMaxAgeDays adjusts how long read notifications are kept.
func WithNotificationMaxAgeDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.notificationMaxAge = days
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:                   db,
		now:                  time.Now,
		otpSchedule:          defaultOTPSpec,
		notificationSchedule: defaultNotificationSpec,
		notificationMaxAge:   defaultNotificationMaxAgeDays,
		log:                  logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup jobs and launches the scheduler.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.otpSchedule, func() {
		if _, err := ClearExpiredOTPs(context.Background(), c.db, c.now()); err != nil {
			c.log.Warn("otp cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := c.cron.AddFunc(c.notificationSchedule, func() {
		if _, err := PruneReadNotifications(context.Background(), c.db, c.now(), c.notificationMaxAge); err != nil {
			c.log.Warn("notification pruning failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every cleanup routine sequentially. Used in tests and
// during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if _, err := ClearExpiredOTPs(ctx, c.db, c.now()); err != nil {
		errs = multierr.Append(errs, err)
	}

	if _, err := PruneReadNotifications(ctx, c.db, c.now(), c.notificationMaxAge); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// ClearExpiredOTPs removes login codes whose expiry has passed. A lead whose
// code is cleared simply has to request a new one.
func ClearExpiredOTPs(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("otp cleanup: db is required")
	}

	result := db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("otp_expires_at IS NOT NULL AND otp_expires_at < ?", now).
		Updates(map[string]interface{}{
			"otp":            nil,
			"otp_expires_at": nil,
		})

	return result.RowsAffected, result.Error
}

// PruneReadNotifications deletes read notifications older than maxAgeDays.
func PruneReadNotifications(ctx context.Context, db *gorm.DB, now time.Time, maxAgeDays int) (int64, error) {
	if db == nil {
		return 0, errors.New("notification pruning: db is required")
	}
	if maxAgeDays <= 0 {
		return 0, nil
	}

	cutoff := now.AddDate(0, 0, -maxAgeDays)
	result := db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.LeadNotification{})

	return result.RowsAffected, result.Error
}
