package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/recurrence"
)

// ExpansionStore is the store surface the expansion scan needs.
type ExpansionStore interface {
	GetDueRecurringReminders(now time.Time, limit int) ([]models.Reminder, error)
	ExpandTemplate(template, occurrence *models.Reminder) error
}

// ExpansionJob materializes the next occurrence of each due recurring
// template and advances the template's schedule.
type ExpansionJob struct {
	store   ExpansionStore
	batch   int
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewExpansionJob(store ExpansionStore, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *ExpansionJob {
	return &ExpansionJob{
		store:   store,
		batch:   cfg.BatchSize,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessDueTemplates runs one expansion scan and returns the number of
// occurrences generated. Per-template failures are logged and skipped so one
// bad row cannot stall the batch.
func (j *ExpansionJob) ProcessDueTemplates(ctx context.Context) (int, error) {
	now := j.now().UTC()

	templates, err := j.store.GetDueRecurringReminders(now, j.batch)
	if err != nil {
		j.logger.Error("expansion scan query failed", zap.Error(err))
		return 0, err
	}
	if len(templates) == 0 {
		return 0, nil
	}

	expanded := 0
	for i := range templates {
		if ctx.Err() != nil {
			return expanded, ctx.Err()
		}
		template := &templates[i]
		if template.NextOccurrence == nil || template.RecurrencePattern == nil {
			j.logger.Warn("template missing schedule fields",
				zap.String("reminder_id", template.ID.String()))
			continue
		}

		occurrence := buildOccurrence(template)
		advanceTemplate(template, now)

		if err := j.store.ExpandTemplate(template, occurrence); err != nil {
			j.logger.Error("template expansion failed",
				zap.String("reminder_id", template.ID.String()),
				zap.Error(err))
			continue
		}

		expanded++
		j.metrics.ExpandedTotal.Inc()
	}

	j.logger.Info("expansion scan complete",
		zap.Int("due", len(templates)),
		zap.Int("expanded", expanded))
	return expanded, nil
}

// buildOccurrence copies the template into a concrete dispatchable row firing
// at the template's current next occurrence.
func buildOccurrence(template *models.Reminder) *models.Reminder {
	number := template.OccurrenceCount + 1
	occurrence := &models.Reminder{
		UserID:           template.UserID,
		ReminderType:     template.ReminderType,
		Title:            template.Title,
		Message:          template.Message,
		Payload:          template.Payload,
		ReminderTime:     *template.NextOccurrence,
		Status:           models.StatusPending,
		ParentReminderID: &template.ID,
		OccurrenceNumber: &number,
		IsGenerated:      true,
		Timezone:         template.Timezone,
		IsActive:         true,
	}
	if template.ExternalID != nil {
		childID := models.ChildExternalID(*template.ExternalID, number)
		occurrence.ExternalID = &childID
	}
	return occurrence
}

// advanceTemplate records the occurrence just produced and computes the
// following one, deactivating the template once its bounds are exhausted.
func advanceTemplate(template *models.Reminder, now time.Time) {
	fired := *template.NextOccurrence
	template.LastOccurrence = &fired
	template.OccurrenceCount++

	next, ok := recurrence.NextAfter(template.RecurrencePattern, fired, now)
	exhausted := !ok ||
		(template.MaxOccurrences != nil && template.OccurrenceCount >= *template.MaxOccurrences) ||
		(template.EndDate != nil && next.After(*template.EndDate))

	if exhausted {
		template.IsActive = false
		template.Status = models.StatusProcessed
		template.NextOccurrence = nil
		return
	}
	template.NextOccurrence = &next
	// The template row mirrors its next firing time.
	template.ReminderTime = next
}
