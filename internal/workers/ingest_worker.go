// Package workers hosts the queue consumers: ingestion of creation events
// and delivery of dispatch events.
package workers

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/broker"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// Consumer runs a handler over a queue's deliveries until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, queue string, concurrency int, handler broker.HandlerFunc) error
}

// ReminderCreator is the creation path shared with the HTTP API.
type ReminderCreator interface {
	Create(req dto.CreateReminderRequest) (*dto.ReminderDTO, bool, error)
}

// IngestWorker consumes reminder-creation events from the input queue and
// persists them. Redeliveries are harmless: external_id dedupes.
type IngestWorker struct {
	consumer    Consumer
	service     ReminderCreator
	queue       string
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewIngestWorker(consumer Consumer, service ReminderCreator, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *IngestWorker {
	return &IngestWorker{
		consumer:    consumer,
		service:     service,
		queue:       cfg.InputQueue,
		concurrency: cfg.WorkerConcurrency,
		metrics:     m,
		logger:      logger,
	}
}

// Run blocks consuming the input queue until ctx is cancelled.
func (w *IngestWorker) Run(ctx context.Context) error {
	return w.consumer.Consume(ctx, w.queue, w.concurrency, w.handle)
}

// handle processes one creation event. Malformed or invalid events are
// dropped after counting; store failures propagate so the broker rejects the
// message, but never requeues it.
func (w *IngestWorker) handle(ctx context.Context, body []byte) error {
	var req dto.CreateReminderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		w.metrics.IngestedTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		w.logger.Warn("undecodable creation event", zap.Error(err))
		return nil
	}

	result, created, err := w.service.Create(req)
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Code == apperrors.CodeValidationError {
			w.metrics.IngestedTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			w.logger.Warn("invalid creation event",
				zap.String("user_id", req.UserID),
				zap.String("reason", appErr.Message))
			return nil
		}
		w.metrics.IngestedTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		w.logger.Error("reminder creation failed",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return err
	}

	if !created {
		w.metrics.IngestedTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		w.logger.Info("duplicate creation event",
			zap.Stringp("external_id", result.ExternalID))
		return nil
	}

	w.metrics.IngestedTotal.WithLabelValues(metrics.OutcomeCreated).Inc()
	w.logger.Info("reminder created",
		zap.String("reminder_id", result.ID.String()),
		zap.String("user_id", result.UserID),
		zap.Bool("recurring", result.IsRecurring))
	return nil
}
