package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// DispatchStore is the store surface the dispatch scan needs.
type DispatchStore interface {
	GetDueReminders(now time.Time, limit int) ([]models.Reminder, error)
	MarkQueued(id uuid.UUID) error
	MarkFailed(id uuid.UUID) error
	MarkSkipped(id uuid.UUID) error
}

// Publisher sends a message to the broker under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Suppressor decides whether a due reminder should be skipped instead of
// dispatched.
type Suppressor interface {
	ShouldSuppress(reminder *models.Reminder) bool
}

// DispatchJob turns due reminder rows into dispatch events on the output
// queue, marking each row Queued, Failed or Skipped.
type DispatchJob struct {
	store      DispatchStore
	suppressor Suppressor
	publisher  Publisher
	routingKey string
	batch      int
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewDispatchJob(store DispatchStore, suppressor Suppressor, publisher Publisher, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *DispatchJob {
	return &DispatchJob{
		store:      store,
		suppressor: suppressor,
		publisher:  publisher,
		routingKey: cfg.OutputRoutingKey,
		batch:      cfg.BatchSize,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessDueReminders runs one dispatch scan and returns the number of events
// published.
func (j *DispatchJob) ProcessDueReminders(ctx context.Context) (int, error) {
	now := j.now().UTC()

	due, err := j.store.GetDueReminders(now, j.batch)
	if err != nil {
		j.logger.Error("dispatch scan query failed", zap.Error(err))
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	queued := 0
	for i := range due {
		if ctx.Err() != nil {
			return queued, ctx.Err()
		}
		reminder := &due[i]

		if j.suppressor != nil && j.suppressor.ShouldSuppress(reminder) {
			if err := j.store.MarkSkipped(reminder.ID); err != nil {
				j.logger.Error("could not mark reminder skipped",
					zap.String("reminder_id", reminder.ID.String()),
					zap.Error(err))
			}
			j.metrics.DispatchedTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
			continue
		}

		event := dto.NewDispatchEvent(reminder)
		body, err := json.Marshal(event)
		if err != nil {
			j.logger.Error("could not encode dispatch event",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err))
			j.metrics.DispatchedTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			continue
		}

		if err := j.publisher.Publish(ctx, j.routingKey, body); err != nil {
			j.logger.Error("dispatch publish failed",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err))
			j.metrics.BrokerPublishFailures.Inc()
			j.metrics.DispatchedTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			if err := j.store.MarkFailed(reminder.ID); err != nil {
				j.logger.Error("could not mark reminder failed",
					zap.String("reminder_id", reminder.ID.String()),
					zap.Error(err))
			}
			continue
		}

		if err := j.store.MarkQueued(reminder.ID); err != nil {
			j.logger.Error("could not mark reminder queued",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err))
		}
		j.metrics.DispatchedTotal.WithLabelValues(metrics.OutcomeQueued).Inc()
		queued++
	}

	j.logger.Info("dispatch scan complete",
		zap.Int("due", len(due)),
		zap.Int("queued", queued))
	return queued, nil
}
