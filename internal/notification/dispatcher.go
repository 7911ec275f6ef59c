package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// TokenSource returns the freshest registered token for a user and platform.
type TokenSource interface {
	LatestForUser(userID string, platform models.Platform) (*models.DeviceToken, error)
}

// ZoneSource maps a user to their profile timezone, falling back to UTC.
type ZoneSource interface {
	UserZone(userID string) *time.Location
}

// ReminderMarker finalizes a reminder row once its push went out.
type ReminderMarker interface {
	MarkProcessed(id uuid.UUID) error
}

const (
	defaultTitle = "Reminder"
	defaultBody  = "It's time!"
)

// Dispatcher turns dispatch events into push notifications. Send never
// returns an error for delivery problems: events are consumed exactly once
// and failures surface through metrics, not redelivery.
type Dispatcher struct {
	push      PushClient
	tokens    TokenSource
	zones     ZoneSource
	reminders ReminderMarker
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewDispatcher(push PushClient, tokens TokenSource, zones ZoneSource, reminders ReminderMarker, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		push:      push,
		tokens:    tokens,
		zones:     zones,
		reminders: reminders,
		metrics:   m,
		logger:    logger,
	}
}

// Send delivers the push for one dispatch event.
func (d *Dispatcher) Send(ctx context.Context, event dto.DispatchEvent) error {
	token := event.Payload.String("fcm_token")
	if token == "" {
		row, err := d.tokens.LatestForUser(event.UserID, models.PlatformIOS)
		if err == nil && row != nil {
			token = row.FCMToken
		}
	}
	if token == "" {
		d.metrics.PushTotal.WithLabelValues(metrics.OutcomeNoToken).Inc()
		d.logger.Warn("no device token for user",
			zap.String("user_id", event.UserID),
			zap.String("reminder_id", event.ReminderID.String()))
		return nil
	}

	utc := event.Timestamp.UTC()
	local := utc.In(d.zones.UserZone(event.UserID))

	title := defaultTitle
	if t := event.Payload.String("title"); t != "" {
		title = t
	}
	body := defaultBody
	if m := event.Payload.String("message"); m != "" {
		body = m
	}

	// A fresh notification_id per send doubles as the collapse key. Each
	// send gets a unique value so the OS shows every reminder as its own
	// alert instead of merging them.
	notificationID := uuid.NewString()
	data := map[string]string{
		"reminder_id":     event.ReminderID.String(),
		"reminder_type":   event.ReminderType,
		"timestamp_utc":   utc.Format(time.RFC3339),
		"timestamp_local": local.Format(time.RFC3339),
		"notification_id": notificationID,
	}

	if err := d.push.Send(ctx, token, title, body, data, notificationID); err != nil {
		if errors.Is(err, ErrPushDisabled) {
			d.metrics.PushTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
			return nil
		}
		d.metrics.PushTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		d.logger.Error("push send failed",
			zap.String("user_id", event.UserID),
			zap.String("reminder_id", event.ReminderID.String()),
			zap.Error(err))
		return nil
	}

	d.metrics.PushTotal.WithLabelValues(metrics.OutcomeSent).Inc()
	d.metrics.PushLastSentTimestamp.SetToCurrentTime()

	if err := d.reminders.MarkProcessed(event.ReminderID); err != nil {
		d.logger.Warn("could not mark reminder processed",
			zap.String("reminder_id", event.ReminderID.String()),
			zap.Error(err))
	}
	return nil
}
