// Package broker wraps the RabbitMQ connection and the queue topology used
// for reminder ingestion and dispatch.
package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
)

// HandlerFunc processes one delivery body. A nil return acknowledges the
// message; an error drops it without requeue so poison messages cannot loop.
type HandlerFunc func(ctx context.Context, body []byte) error

type Broker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     *config.Config
	logger  *zap.Logger
}

// Connect dials RabbitMQ and declares the exchange, queues and bindings.
// Declarations are idempotent, so every process declares the full topology.
func Connect(cfg *config.Config, logger *zap.Logger) (*Broker, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	b := &Broker{conn: conn, channel: channel, cfg: cfg, logger: logger}
	if err := b.declareTopology(channel); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Broker) declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(b.cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", b.cfg.Exchange, err)
	}

	bindings := []struct {
		queue      string
		routingKey string
	}{
		{b.cfg.InputQueue, b.cfg.InputRoutingKey},
		{b.cfg.OutputQueue, b.cfg.OutputRoutingKey},
	}
	for _, binding := range bindings {
		if _, err := ch.QueueDeclare(binding.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", binding.queue, err)
		}
		if err := ch.QueueBind(binding.queue, binding.routingKey, b.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", binding.queue, err)
		}
	}
	return nil
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (b *Broker) Publish(ctx context.Context, routingKey string, body []byte) error {
	return b.channel.PublishWithContext(ctx, b.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Consume reads queue with the given number of handler goroutines. Messages
// are acknowledged only after the handler returns nil (late ack); handler
// errors reject without requeue. Blocks until ctx is cancelled or the
// deliveries channel closes.
func (b *Broker) Consume(ctx context.Context, queue string, concurrency int, handler HandlerFunc) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	// Dedicated channel per consumer so prefetch windows stay independent.
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}

	prefetch := b.cfg.PrefetchCount
	if prefetch < concurrency {
		prefetch = concurrency
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	b.logger.Info("consuming",
		zap.String("queue", queue),
		zap.Int("concurrency", concurrency),
		zap.Int("prefetch", prefetch))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for delivery := range deliveries {
				b.handleDelivery(ctx, queue, delivery, handler)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		// Closing the channel ends the deliveries range loops above.
		ch.Close()
		<-done
		return ctx.Err()
	case <-done:
		ch.Close()
		return fmt.Errorf("deliveries channel closed for queue %s", queue)
	}
}

func (b *Broker) handleDelivery(ctx context.Context, queue string, delivery amqp.Delivery, handler HandlerFunc) {
	if err := handler(ctx, delivery.Body); err != nil {
		b.logger.Error("message handling failed, dropping",
			zap.String("queue", queue),
			zap.Error(err))
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			b.logger.Error("nack failed", zap.String("queue", queue), zap.Error(nackErr))
		}
		return
	}
	if err := delivery.Ack(false); err != nil {
		b.logger.Error("ack failed", zap.String("queue", queue), zap.Error(err))
	}
}

// Healthy reports whether the underlying connection is still open. Safe to
// call on a nil broker, which reports unhealthy.
func (b *Broker) Healthy() bool {
	return b != nil && b.conn != nil && !b.conn.IsClosed()
}

func (b *Broker) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
