package workers

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
)

// EventSender delivers one dispatch event as a push notification.
type EventSender interface {
	Send(ctx context.Context, event dto.DispatchEvent) error
}

// DispatchWorker consumes dispatch events from the output queue and hands
// them to the push dispatcher.
type DispatchWorker struct {
	consumer    Consumer
	sender      EventSender
	queue       string
	concurrency int
	logger      *zap.Logger
}

func NewDispatchWorker(consumer Consumer, sender EventSender, cfg *config.Config, logger *zap.Logger) *DispatchWorker {
	return &DispatchWorker{
		consumer:    consumer,
		sender:      sender,
		queue:       cfg.OutputQueue,
		concurrency: cfg.WorkerConcurrency,
		logger:      logger,
	}
}

// Run blocks consuming the output queue until ctx is cancelled.
func (w *DispatchWorker) Run(ctx context.Context) error {
	return w.consumer.Consume(ctx, w.queue, w.concurrency, w.handle)
}

func (w *DispatchWorker) handle(ctx context.Context, body []byte) error {
	var event dto.DispatchEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.logger.Warn("undecodable dispatch event", zap.Error(err))
		return nil
	}
	return w.sender.Send(ctx, event)
}
