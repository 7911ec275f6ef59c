package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// CreateReminderRequest is both the POST /reminders/ body and the input-queue
// message; the API enqueues the body verbatim and the ingestion worker decodes
// it back into this type.
//
// One-time reminders carry reminder_time; recurring ones carry
// recurrence_pattern plus start_date.
type CreateReminderRequest struct {
	UserID            string                    `json:"user_id" binding:"required"`
	ReminderType      string                    `json:"reminder_type" binding:"required"`
	Title             *string                   `json:"title,omitempty"`
	Message           *string                   `json:"message,omitempty"`
	Payload           models.JSONMap            `json:"payload,omitempty"`
	ReminderTime      *time.Time                `json:"reminder_time,omitempty"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	StartDate         *time.Time                `json:"start_date,omitempty"`
	EndDate           *time.Time                `json:"end_date,omitempty"`
	MaxOccurrences    *int                      `json:"max_occurrences,omitempty"`
	Timezone          *string                   `json:"timezone,omitempty"`
	ExternalID        *string                   `json:"external_id,omitempty"`
}

// UpdateReminderRequest is the PATCH body. Nil fields are left unchanged.
type UpdateReminderRequest struct {
	Title             *string                   `json:"title,omitempty"`
	Message           *string                   `json:"message,omitempty"`
	Payload           models.JSONMap            `json:"payload,omitempty"`
	ReminderTime      *time.Time                `json:"reminder_time,omitempty"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	StartDate         *time.Time                `json:"start_date,omitempty"`
	EndDate           *time.Time                `json:"end_date,omitempty"`
	MaxOccurrences    *int                      `json:"max_occurrences,omitempty"`
	Timezone          *string                   `json:"timezone,omitempty"`
	Status            *string                   `json:"status,omitempty"`
	IsActive          *bool                     `json:"is_active,omitempty"`
}

// EnqueueResponse acknowledges an accepted creation. The row itself is
// created asynchronously by the ingestion worker.
type EnqueueResponse struct {
	ExternalID string    `json:"external_id"`
	QueuedAt   time.Time `json:"queued_at"`
}

// AckResponse confirms an acknowledgement.
type AckResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// ReminderDTO represents a reminder in responses
type ReminderDTO struct {
	ID                uuid.UUID                 `json:"id"`
	UserID            string                    `json:"user_id"`
	ReminderType      string                    `json:"reminder_type"`
	Title             *string                   `json:"title,omitempty"`
	Message           *string                   `json:"message,omitempty"`
	Payload           models.JSONMap            `json:"payload,omitempty"`
	ReminderTime      time.Time                 `json:"reminder_time"`
	Status            string                    `json:"status"`
	ExternalID        *string                   `json:"external_id,omitempty"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	IsRecurring       bool                      `json:"is_recurring"`
	ParentReminderID  *uuid.UUID                `json:"parent_reminder_id,omitempty"`
	OccurrenceNumber  *int                      `json:"occurrence_number,omitempty"`
	IsGenerated       bool                      `json:"is_generated"`
	StartDate         *time.Time                `json:"start_date,omitempty"`
	EndDate           *time.Time                `json:"end_date,omitempty"`
	MaxOccurrences    *int                      `json:"max_occurrences,omitempty"`
	Timezone          *string                   `json:"timezone,omitempty"`
	LastOccurrence    *time.Time                `json:"last_occurrence,omitempty"`
	NextOccurrence    *time.Time                `json:"next_occurrence,omitempty"`
	OccurrenceCount   int                       `json:"occurrence_count"`
	IsActive          bool                      `json:"is_active"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// ReminderToDTO converts a Reminder model to ReminderDTO
func ReminderToDTO(r *models.Reminder) ReminderDTO {
	return ReminderDTO{
		ID:                r.ID,
		UserID:            r.UserID,
		ReminderType:      r.ReminderType,
		Title:             r.Title,
		Message:           r.Message,
		Payload:           r.Payload,
		ReminderTime:      r.ReminderTime,
		Status:            string(r.Status),
		ExternalID:        r.ExternalID,
		RecurrencePattern: r.RecurrencePattern,
		IsRecurring:       r.IsRecurring,
		ParentReminderID:  r.ParentReminderID,
		OccurrenceNumber:  r.OccurrenceNumber,
		IsGenerated:       r.IsGenerated,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		MaxOccurrences:    r.MaxOccurrences,
		Timezone:          r.Timezone,
		LastOccurrence:    r.LastOccurrence,
		NextOccurrence:    r.NextOccurrence,
		OccurrenceCount:   r.OccurrenceCount,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// RemindersToDTO converts a slice of Reminder models to DTOs
func RemindersToDTO(reminders []models.Reminder) []ReminderDTO {
	dtos := make([]ReminderDTO, len(reminders))
	for i, r := range reminders {
		dtos[i] = ReminderToDTO(&r)
	}
	return dtos
}
