package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
)

// CleanupStore is the store surface the cleanup pass needs.
type CleanupStore interface {
	DeactivateExpiredOneTime(now time.Time) (int64, error)
	DeactivateExpiredTemplates(now time.Time) (int64, error)
}

// DeviceTokenPruner deletes device tokens not seen since the given time.
type DeviceTokenPruner interface {
	DeleteStale(before time.Time) (int64, error)
}

// CleanupJob retires reminders whose bounds have passed and prunes device
// tokens that have gone quiet.
type CleanupJob struct {
	store    CleanupStore
	tokens   DeviceTokenPruner
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewCleanupJob(store CleanupStore, tokens DeviceTokenPruner, cfg *config.Config, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		store:    store,
		tokens:   tokens,
		tokenTTL: cfg.DeviceTokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessExpired runs one cleanup pass and returns the number of reminders
// deactivated. Token pruning failures are logged but do not fail the pass.
func (j *CleanupJob) ProcessExpired(ctx context.Context) (int, error) {
	now := j.now().UTC()

	oneTime, err := j.store.DeactivateExpiredOneTime(now)
	if err != nil {
		j.logger.Error("one-time expiration failed", zap.Error(err))
		return 0, err
	}

	templates, err := j.store.DeactivateExpiredTemplates(now)
	if err != nil {
		j.logger.Error("template expiration failed", zap.Error(err))
		return int(oneTime), err
	}

	deactivated := int(oneTime + templates)
	if deactivated > 0 {
		j.logger.Info("expired reminders deactivated",
			zap.Int64("one_time", oneTime),
			zap.Int64("templates", templates))
	}

	if j.tokens != nil && j.tokenTTL > 0 {
		pruned, err := j.tokens.DeleteStale(now.Add(-j.tokenTTL))
		if err != nil {
			j.logger.Error("device token pruning failed", zap.Error(err))
		} else if pruned > 0 {
			j.logger.Info("stale device tokens pruned", zap.Int64("pruned", pruned))
		}
	}

	return deactivated, nil
}
