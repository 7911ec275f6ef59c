package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// DispatchEvent is the output-queue message consumed by dispatcher workers.
// It carries everything needed to send the push without another reminder
// lookup.
type DispatchEvent struct {
	UserID       string         `json:"user_id"`
	ReminderID   uuid.UUID      `json:"reminder_id"`
	ReminderType string         `json:"reminder_type"`
	Payload      models.JSONMap `json:"payload,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewDispatchEvent builds the event for a due reminder. The payload is copied
// with the resolved title and message folded in so consumers need no access
// to the reminder columns.
func NewDispatchEvent(r *models.Reminder) DispatchEvent {
	payload := make(models.JSONMap, len(r.Payload)+2)
	for k, v := range r.Payload {
		payload[k] = v
	}
	if title := r.ResolvedTitle(); title != "" {
		payload["title"] = title
	}
	if message := r.ResolvedMessage(); message != "" {
		payload["message"] = message
	}

	return DispatchEvent{
		UserID:       r.UserID,
		ReminderID:   r.ID,
		ReminderType: r.ReminderType,
		Payload:      payload,
		Timestamp:    r.ReminderTime.UTC(),
	}
}
