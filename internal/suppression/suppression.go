// Package suppression drops due reminders whose precondition is already
// satisfied, currently just nutrition reminders for meals the user logged.
package suppression

import (
	"time"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// TypeNutritionLog is the reminder_type subject to meal suppression.
const TypeNutritionLog = "nutrition_log"

// MealLogSource answers whether the user already logged a meal on a local
// date. The production implementation reads the nutrition table; tests use
// an in-memory fake.
type MealLogSource interface {
	WasMealLogged(userID string, localDate time.Time, meal string) (bool, error)
}

// ZoneResolver yields the timezone used to derive the reminder's local date.
type ZoneResolver interface {
	Resolve(reminder *models.Reminder) *time.Location
}

type Checker struct {
	meals  MealLogSource
	zones  ZoneResolver
	logger *zap.Logger
}

func NewChecker(meals MealLogSource, zones ZoneResolver, logger *zap.Logger) *Checker {
	return &Checker{meals: meals, zones: zones, logger: logger}
}

// ShouldSuppress reports whether the reminder must be skipped instead of
// dispatched. Lookup failures fail open: a broken nutrition source must not
// block reminders.
func (c *Checker) ShouldSuppress(reminder *models.Reminder) bool {
	if reminder.ReminderType != TypeNutritionLog {
		return false
	}

	meal := reminder.Payload.String("meal")
	if meal == "" {
		meal = reminder.Payload.Nested("context").String("key")
	}
	if meal == "" {
		return false
	}

	loc := c.zones.Resolve(reminder)
	localTime := reminder.ReminderTime.In(loc)

	logged, err := c.meals.WasMealLogged(reminder.UserID, localTime, meal)
	if err != nil {
		c.logger.Warn("meal lookup failed, not suppressing",
			zap.String("reminder_id", reminder.ID.String()),
			zap.String("user_id", reminder.UserID),
			zap.Error(err))
		return false
	}
	if logged {
		c.logger.Info("suppressing reminder, meal already logged",
			zap.String("reminder_id", reminder.ID.String()),
			zap.String("user_id", reminder.UserID),
			zap.String("meal", meal),
			zap.String("local_date", localTime.Format("2006-01-02")))
	}
	return logged
}
