package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/recurrence"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/repository"
	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// ReminderStore is the persistence surface the service depends on.
// *repository.ReminderRepository satisfies it; tests use an in-memory fake.
type ReminderStore interface {
	Create(reminder *models.Reminder) (*models.Reminder, bool, error)
	FindByID(id uuid.UUID) (*models.Reminder, error)
	List(params repository.ReminderListParams) ([]models.Reminder, error)
	Update(reminder *models.Reminder) error
	Delete(id uuid.UUID) error
	MarkAcknowledged(id uuid.UUID) error
}

// Publisher sends a message to the broker under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type ReminderService struct {
	store           ReminderStore
	publisher       Publisher
	inputRoutingKey string
	oneTimeGrace    time.Duration
	logger          *zap.Logger
	now             func() time.Time
}

func NewReminderService(store ReminderStore, publisher Publisher, cfg *config.Config, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		store:           store,
		publisher:       publisher,
		inputRoutingKey: cfg.InputRoutingKey,
		oneTimeGrace:    cfg.OneTimeExpiryGrace,
		logger:          logger,
		now:             time.Now,
	}
}

// Enqueue validates a creation request and publishes it to the input queue.
// The row itself is created by the ingestion worker; callers get back the
// external_id they can poll or dedupe on.
func (s *ReminderService) Enqueue(ctx context.Context, req dto.CreateReminderRequest) (*dto.EnqueueResponse, error) {
	if err := normalizeCreate(&req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to encode reminder event", http.StatusInternalServerError)
	}

	if s.publisher == nil {
		return nil, apperrors.ErrQueueUnavailable
	}
	if err := s.publisher.Publish(ctx, s.inputRoutingKey, body); err != nil {
		s.logger.Error("input queue publish failed",
			zap.String("external_id", *req.ExternalID),
			zap.Error(err))
		return nil, apperrors.QueueError(err)
	}

	return &dto.EnqueueResponse{
		ExternalID: *req.ExternalID,
		QueuedAt:   s.now().UTC(),
	}, nil
}

// Create validates, normalizes and persists a reminder. Duplicate
// external_id values return the existing row unchanged with created=false.
// This is the single creation path shared by the ingestion worker and any
// direct callers.
func (s *ReminderService) Create(req dto.CreateReminderRequest) (*dto.ReminderDTO, bool, error) {
	if err := normalizeCreate(&req); err != nil {
		return nil, false, err
	}

	reminder, err := s.buildReminder(&req)
	if err != nil {
		return nil, false, err
	}

	row, created, err := s.store.Create(reminder)
	if err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to create reminder", http.StatusInternalServerError)
	}

	result := dto.ReminderToDTO(row)
	return &result, created, nil
}

func (s *ReminderService) GetByID(id uuid.UUID) (*dto.ReminderDTO, error) {
	reminder, err := s.store.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load reminder")
	}
	result := dto.ReminderToDTO(reminder)
	return &result, nil
}

func (s *ReminderService) List(params repository.ReminderListParams) ([]dto.ReminderDTO, error) {
	if params.Status != "" && !models.ValidStatus(params.Status) {
		return nil, apperrors.ValidationError("unknown status filter")
	}
	reminders, err := s.store.List(params)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to list reminders", http.StatusInternalServerError)
	}
	return dto.RemindersToDTO(reminders), nil
}

// Update applies the non-nil patch fields. Changing a template's recurrence
// or start date recomputes its next occurrence; occurrence progress is kept.
func (s *ReminderService) Update(id uuid.UUID, req dto.UpdateReminderRequest) (*dto.ReminderDTO, error) {
	reminder, err := s.store.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load reminder")
	}

	if req.RecurrencePattern != nil {
		if err := recurrence.Validate(req.RecurrencePattern); err != nil {
			return nil, apperrors.ValidationError(err.Error())
		}
		reminder.RecurrencePattern = req.RecurrencePattern
	}
	if req.Title != nil {
		reminder.Title = req.Title
	}
	if req.Message != nil {
		reminder.Message = req.Message
	}
	if req.Payload != nil {
		reminder.Payload = req.Payload
	}
	if req.ReminderTime != nil {
		utc := req.ReminderTime.UTC()
		reminder.ReminderTime = utc
	}
	if req.StartDate != nil {
		utc := req.StartDate.UTC()
		reminder.StartDate = &utc
	}
	if req.EndDate != nil {
		utc := req.EndDate.UTC()
		reminder.EndDate = &utc
	}
	if req.MaxOccurrences != nil {
		reminder.MaxOccurrences = req.MaxOccurrences
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, apperrors.ValidationError("invalid timezone")
		}
		reminder.Timezone = req.Timezone
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, apperrors.ValidationError("unknown status")
		}
		reminder.Status = models.ReminderStatus(*req.Status)
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}

	if reminder.IsTemplate() && (req.RecurrencePattern != nil || req.StartDate != nil) {
		base := reminder.ReminderTime
		if reminder.StartDate != nil {
			base = *reminder.StartDate
		}
		first, err := recurrence.FirstOccurrence(reminder.RecurrencePattern, base)
		if err != nil {
			return nil, apperrors.ValidationError(err.Error())
		}
		reminder.NextOccurrence = &first
		reminder.ReminderTime = first
	}

	if err := s.store.Update(reminder); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to update reminder", http.StatusInternalServerError)
	}

	result := dto.ReminderToDTO(reminder)
	return &result, nil
}

func (s *ReminderService) Delete(id uuid.UUID) error {
	if err := s.store.Delete(id); err != nil {
		return notFoundOr(err, "Failed to delete reminder")
	}
	return nil
}

// Acknowledge is idempotent: repeated calls leave the row acknowledged.
func (s *ReminderService) Acknowledge(id uuid.UUID) error {
	if err := s.store.MarkAcknowledged(id); err != nil {
		return notFoundOr(err, "Failed to acknowledge reminder")
	}
	return nil
}

func (s *ReminderService) buildReminder(req *dto.CreateReminderRequest) (*models.Reminder, error) {
	reminder := &models.Reminder{
		UserID:       req.UserID,
		ReminderType: req.ReminderType,
		Title:        req.Title,
		Message:      req.Message,
		Payload:      req.Payload,
		Status:       models.StatusPending,
		Timezone:     req.Timezone,
		ExternalID:   req.ExternalID,
		IsActive:     true,
	}

	if req.RecurrencePattern == nil {
		// One-time: dispatchable until shortly after its intended firing.
		reminderTime := req.ReminderTime.UTC()
		endDate := reminderTime.Add(s.oneTimeGrace)
		maxOccurrences := 1
		reminder.ReminderTime = reminderTime
		reminder.EndDate = &endDate
		reminder.MaxOccurrences = &maxOccurrences
		return reminder, nil
	}

	start := req.StartDate.UTC()
	first, err := recurrence.FirstOccurrence(req.RecurrencePattern, start)
	if err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	endDate := req.EndDate
	if endDate == nil {
		endDate = req.RecurrencePattern.EndDate
	}
	if endDate != nil {
		utc := endDate.UTC()
		endDate = &utc
	}
	maxOccurrences := req.MaxOccurrences
	if maxOccurrences == nil {
		maxOccurrences = req.RecurrencePattern.MaxOccurrences
	}

	reminder.RecurrencePattern = req.RecurrencePattern
	reminder.IsRecurring = true
	reminder.StartDate = &start
	reminder.EndDate = endDate
	reminder.MaxOccurrences = maxOccurrences
	reminder.NextOccurrence = &first
	reminder.ReminderTime = first
	return reminder, nil
}

// normalizeCreate validates the request, converts times to UTC and fills in
// a deterministic external_id when the caller omitted one. Shared by the
// synchronous enqueue path and the ingestion worker so both agree on the
// idempotency key.
func normalizeCreate(req *dto.CreateReminderRequest) error {
	if req.UserID == "" {
		return apperrors.ValidationError("user_id is required")
	}
	if req.ReminderType == "" {
		return apperrors.ValidationError("reminder_type is required")
	}

	if req.RecurrencePattern != nil {
		if req.StartDate == nil {
			return apperrors.ValidationError("recurring reminders require start_date")
		}
		if err := recurrence.Validate(req.RecurrencePattern); err != nil {
			return apperrors.ValidationError(err.Error())
		}
	} else if req.ReminderTime == nil {
		return apperrors.ValidationError("one-time reminders require reminder_time")
	}

	if req.Timezone != nil && *req.Timezone != "" {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return apperrors.ValidationError("invalid timezone")
		}
	}

	if req.ReminderTime != nil {
		utc := req.ReminderTime.UTC()
		req.ReminderTime = &utc
	}
	if req.StartDate != nil {
		utc := req.StartDate.UTC()
		req.StartDate = &utc
	}
	if req.EndDate != nil {
		utc := req.EndDate.UTC()
		req.EndDate = &utc
	}

	if req.ExternalID == nil || *req.ExternalID == "" {
		anchor := req.ReminderTime
		if req.RecurrencePattern != nil {
			anchor = req.StartDate
		}
		externalID := models.SyntheticExternalID(req.UserID, req.ReminderType, *anchor)
		req.ExternalID = &externalID
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrReminderNotFound
	}
	return apperrors.Wrap(err, apperrors.CodeInternalError, message, http.StatusInternalServerError)
}
