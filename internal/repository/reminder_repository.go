package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create inserts a reminder, treating external_id as an idempotency key.
// When a row with the same external_id already exists it is returned
// unchanged and created is false.
func (r *ReminderRepository) Create(reminder *models.Reminder) (*models.Reminder, bool, error) {
	if reminder.ExternalID != nil {
		existing, err := r.FindByExternalID(*reminder.ExternalID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	err := r.db.Create(reminder).Error
	if err == nil {
		return reminder, true, nil
	}
	// Lost a race with a concurrent insert of the same external_id.
	if errors.Is(err, gorm.ErrDuplicatedKey) && reminder.ExternalID != nil {
		existing, ferr := r.FindByExternalID(*reminder.ExternalID)
		if ferr == nil {
			return existing, false, nil
		}
	}
	return nil, false, err
}

func (r *ReminderRepository) FindByID(id uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.db.Where("id = ?", id).First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *ReminderRepository) FindByExternalID(externalID string) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.db.Where("external_id = ?", externalID).First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

type ReminderListParams struct {
	UserID string
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

func (r *ReminderRepository) List(params ReminderListParams) ([]models.Reminder, error) {
	query := r.db.Model(&models.Reminder{})

	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.From != nil {
		query = query.Where("reminder_time >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("reminder_time <= ?", *params.To)
	}

	limit := params.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var reminders []models.Reminder
	err := query.
		Order("reminder_time ASC").
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

func (r *ReminderRepository) Update(reminder *models.Reminder) error {
	return r.db.Save(reminder).Error
}

func (r *ReminderRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Reminder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReminderRepository) MarkQueued(id uuid.UUID) error {
	return r.updateStatus(id, models.StatusQueued)
}

func (r *ReminderRepository) MarkProcessed(id uuid.UUID) error {
	return r.updateStatus(id, models.StatusProcessed)
}

func (r *ReminderRepository) MarkFailed(id uuid.UUID) error {
	return r.updateStatus(id, models.StatusFailed)
}

func (r *ReminderRepository) MarkSkipped(id uuid.UUID) error {
	return r.updateStatus(id, models.StatusSkipped)
}

func (r *ReminderRepository) MarkAcknowledged(id uuid.UUID) error {
	return r.updateStatus(id, models.StatusAcknowledged)
}

func (r *ReminderRepository) updateStatus(id uuid.UUID, status models.ReminderStatus) error {
	result := r.db.Model(&models.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetDueReminders selects dispatchable rows: pending, not recurring, still
// active, due at or before now. Ordered oldest first.
func (r *ReminderRepository) GetDueReminders(now time.Time, limit int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Where("status = ? AND is_recurring = ? AND is_active = ? AND reminder_time <= ?",
			models.StatusPending, false, true, now).
		Order("reminder_time ASC").
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

// GetDueRecurringReminders selects templates eligible for expansion: active,
// next occurrence due, and bounds still permitting more occurrences.
func (r *ReminderRepository) GetDueRecurringReminders(now time.Time, limit int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Where("is_recurring = ? AND is_active = ?", true, true).
		Where("next_occurrence IS NOT NULL AND next_occurrence <= ?", now).
		Where("end_date IS NULL OR end_date > ?", now).
		Where("max_occurrences IS NULL OR occurrence_count < max_occurrences").
		Order("next_occurrence ASC").
		Limit(limit).
		Find(&reminders).Error
	return reminders, err
}

// ExpandTemplate atomically inserts the generated occurrence and saves the
// template's advanced progress fields. Re-running for an already-materialized
// occurrence only saves the template, so redelivered work stays idempotent.
func (r *ReminderRepository) ExpandTemplate(template, occurrence *models.Reminder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Reminder{}).
			Where("parent_reminder_id = ? AND occurrence_number = ?", template.ID, occurrence.OccurrenceNumber).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Create(occurrence).Error; err != nil {
				return err
			}
		}
		return tx.Save(template).Error
	})
}

// DeactivateExpiredOneTime deactivates non-recurring rows whose end_date has
// passed so the dispatch scan stops considering them.
func (r *ReminderRepository) DeactivateExpiredOneTime(now time.Time) (int64, error) {
	result := r.db.Model(&models.Reminder{}).
		Where("is_recurring = ? AND is_active = ? AND end_date IS NOT NULL AND end_date <= ?", false, true, now).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// DeactivateExpiredTemplates closes templates that ran past their end date or
// produced their final occurrence.
func (r *ReminderRepository) DeactivateExpiredTemplates(now time.Time) (int64, error) {
	result := r.db.Model(&models.Reminder{}).
		Where("is_recurring = ? AND is_active = ?", true, true).
		Where("(end_date IS NOT NULL AND end_date <= ?) OR (max_occurrences IS NOT NULL AND occurrence_count >= max_occurrences)", now).
		Updates(map[string]interface{}{
			"is_active":       false,
			"status":          models.StatusProcessed,
			"next_occurrence": nil,
			"updated_at":      now,
		})
	return result.RowsAffected, result.Error
}
