package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderStatus string

const (
	StatusPending      ReminderStatus = "pending"
	StatusQueued       ReminderStatus = "queued"
	StatusProcessed    ReminderStatus = "processed"
	StatusAcknowledged ReminderStatus = "acknowledged"
	StatusSkipped      ReminderStatus = "skipped"
	StatusFailed       ReminderStatus = "failed"
)

// ValidStatus reports whether s is one of the known reminder statuses.
func ValidStatus(s string) bool {
	switch ReminderStatus(s) {
	case StatusPending, StatusQueued, StatusProcessed, StatusAcknowledged, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

// JSONMap is an opaque JSON object stored in a JSONB column. It carries the
// reminder payload end to end (API -> store -> dispatch event -> push data).
type JSONMap map[string]interface{}

// Value implements driver.Valuer for JSONB storage
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONMap value")
	}
	return json.Unmarshal(bytes, m)
}

// String returns the string value stored under key, or "" when absent or not
// a string.
func (m JSONMap) String(key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// Nested returns the object stored under key, or nil when absent or not an
// object.
func (m JSONMap) Nested(key string) JSONMap {
	if m == nil {
		return nil
	}
	if sub, ok := m[key].(map[string]interface{}); ok {
		return JSONMap(sub)
	}
	return nil
}

// Reminder is the unified row for one-time reminders, recurring templates and
// the concrete occurrences generated from templates. Exactly one shape holds
// per row:
//
//	one-time:   IsRecurring=false, IsGenerated=false, ParentReminderID=nil
//	template:   IsRecurring=true,  IsGenerated=false
//	occurrence: IsRecurring=false, IsGenerated=true, ParentReminderID set
//
// Templates are never dispatched; they only spawn occurrences.
type Reminder struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string         `gorm:"size:255;not null;index:idx_reminders_user_time,priority:1" json:"user_id"`
	ReminderType string         `gorm:"size:100;not null" json:"reminder_type"`
	Title        *string        `gorm:"size:500" json:"title,omitempty"`
	Message      *string        `json:"message,omitempty"`
	Payload      JSONMap        `gorm:"type:jsonb" json:"payload,omitempty"`
	ReminderTime time.Time      `gorm:"not null;index:idx_reminders_status_time,priority:2;index:idx_reminders_user_time,priority:2" json:"reminder_time"`
	Status       ReminderStatus `gorm:"type:varchar(20);default:'pending';index:idx_reminders_status_time,priority:1" json:"status"`

	// ExternalID is the caller-supplied idempotency key. Synthesized when
	// absent; unique when present (multiple NULLs are allowed by Postgres).
	ExternalID *string `gorm:"size:255;uniqueIndex:idx_reminders_external_id" json:"external_id,omitempty"`

	// Recurrence fields. All nil/zero for one-time reminders.
	RecurrencePattern *RecurrencePattern `gorm:"type:jsonb" json:"recurrence_pattern,omitempty"`
	IsRecurring       bool               `gorm:"default:false;index:idx_reminders_recurring_active,priority:1" json:"is_recurring"`
	ParentReminderID  *uuid.UUID         `gorm:"type:uuid;index" json:"parent_reminder_id,omitempty"`
	OccurrenceNumber  *int               `json:"occurrence_number,omitempty"`
	IsGenerated       bool               `gorm:"default:false" json:"is_generated"`
	StartDate         *time.Time         `json:"start_date,omitempty"`
	EndDate           *time.Time         `json:"end_date,omitempty"`
	MaxOccurrences    *int               `json:"max_occurrences,omitempty"`
	Timezone          *string            `gorm:"size:64" json:"timezone,omitempty"`
	LastOccurrence    *time.Time         `json:"last_occurrence,omitempty"`
	NextOccurrence    *time.Time         `gorm:"index" json:"next_occurrence,omitempty"`
	OccurrenceCount   int                `gorm:"default:0" json:"occurrence_count"`
	IsActive          bool               `gorm:"default:true;index:idx_reminders_recurring_active,priority:2" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsTemplate reports whether the row is a recurring template.
func (r *Reminder) IsTemplate() bool {
	return r.IsRecurring && !r.IsGenerated
}

// IsDispatchable reports whether the row can ever be turned into a push.
// Templates are excluded; they only spawn occurrences.
func (r *Reminder) IsDispatchable() bool {
	return !r.IsRecurring
}

// ResolvedTitle returns the display title: payload override first, then the
// column, then empty.
func (r *Reminder) ResolvedTitle() string {
	if s := r.Payload.String("title"); s != "" {
		return s
	}
	if r.Title != nil {
		return *r.Title
	}
	return ""
}

// ResolvedMessage returns the display message with the same precedence as
// ResolvedTitle.
func (r *Reminder) ResolvedMessage() string {
	if s := r.Payload.String("message"); s != "" {
		return s
	}
	if r.Message != nil {
		return *r.Message
	}
	return ""
}

// SyntheticExternalID derives the deterministic idempotency key used when the
// caller did not supply one: "user_id:reminder_type:epoch_seconds" of the
// first intended firing.
func SyntheticExternalID(userID, reminderType string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", userID, reminderType, at.UTC().Unix())
}

// ChildExternalID derives the idempotency key of a generated occurrence from
// its parent template's key and the 1-based occurrence number.
func ChildExternalID(parentExternalID string, occurrenceNumber int) string {
	return fmt.Sprintf("%s_%d", parentExternalID, occurrenceNumber)
}
