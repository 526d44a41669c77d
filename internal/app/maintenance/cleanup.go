package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/cache"
	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/progress"
	"github.com/edusprout/edusprout/pkg/logger"
)

const (
	defaultNotificationRetention = 30 * 24 * time.Hour
	defaultCacheSpec             = "@hourly"
	defaultFeedSpec              = "@daily"
	defaultQuestSpec             = "0 0 * * *" // midnight, when daily quests reset
)

// Cleaner coordinates background maintenance: pruning expired cache entries,
// trimming old read notifications, and resetting daily quest counters.
type Cleaner struct {
	db        *gorm.DB
	store     *cache.DatabaseStore
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention time.Duration

	cacheSchedule string
	feedSchedule  string
	questSchedule string
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

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithNotificationRetention adjusts how long read notifications are kept.
func WithNotificationRetention(retention time.Duration) Option {
	return func(cleaner *Cleaner) {
		if retention > 0 {
			cleaner.retention = retention
		}
	}
}

// WithSchedule overrides the cron specification for the nightly notification sweep.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.feedSchedule = spec
		}
	}
}

// WithQuestSchedule overrides the cron specification for the daily quest reset.
func WithQuestSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.questSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil cache store
// skips cache pruning.
func NewCleaner(db *gorm.DB, store *cache.DatabaseStore, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:            db,
		store:         store,
		now:           time.Now,
		retention:     defaultNotificationRetention,
		cacheSchedule: defaultCacheSpec,
		feedSchedule:  defaultFeedSpec,
		questSchedule: defaultQuestSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if c.store != nil {
		if _, err := c.cron.AddFunc(c.cacheSchedule, func() {
			if _, err := c.store.PruneExpired(context.Background(), c.now()); err != nil {
				c.log.Warn("cache prune failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.retention > 0 {
		if _, err := c.cron.AddFunc(c.feedSchedule, func() {
			cutoff := c.now().Add(-c.retention)
			if _, err := CleanupReadNotifications(context.Background(), c.db, cutoff); err != nil {
				c.log.Warn("notification cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if _, err := c.cron.AddFunc(c.questSchedule, func() {
		if _, err := ResetDailyQuests(context.Background(), c.db); err != nil {
			c.log.Warn("daily quest reset failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.store != nil {
		if _, err := c.store.PruneExpired(ctx, c.now()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.db != nil && c.retention > 0 {
		cutoff := c.now().Add(-c.retention)
		if _, err := CleanupReadNotifications(ctx, c.db, cutoff); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.db != nil {
		if _, err := ResetDailyQuests(ctx, c.db); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

// CleanupReadNotifications deletes notifications read before the cutoff.
// Unread entries are never removed.
func CleanupReadNotifications(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("cleanup notifications: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := db.WithContext(ctx).
		Where("is_read = ? AND read_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("cleanup notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ResetDailyQuests zeroes counters for quests that reset each day. One-off
// quests keep their progress.
func ResetDailyQuests(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("reset quests: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var dailyIDs []string
	for _, quest := range progress.QuestCatalog() {
		if quest.Daily {
			dailyIDs = append(dailyIDs, quest.ID)
		}
	}
	if len(dailyIDs) == 0 {
		return 0, nil
	}

	result := db.WithContext(ctx).
		Model(&models.QuestProgress{}).
		Where("quest_id IN ?", dailyIDs).
		Updates(map[string]any{
			"count":        0,
			"completed_at": nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("reset quests: %w", result.Error)
	}
	return result.RowsAffected, nil
}
