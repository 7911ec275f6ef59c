package suppression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

type fakeMealLog struct {
	logged map[string]bool // "user|date|meal"
	err    error

	lastDate time.Time
}

func (f *fakeMealLog) WasMealLogged(userID string, localDate time.Time, meal string) (bool, error) {
	f.lastDate = localDate
	if f.err != nil {
		return false, f.err
	}
	return f.logged[userID+"|"+localDate.Format("2006-01-02")+"|"+meal], nil
}

type fixedZone struct{ loc *time.Location }

func (z fixedZone) Resolve(*models.Reminder) *time.Location { return z.loc }

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestSuppressesLoggedMeal(t *testing.T) {
	kolkata := mustZone(t, "Asia/Kolkata")
	meals := &fakeMealLog{logged: map[string]bool{"U|2025-04-01|lunch": true}}
	checker := NewChecker(meals, fixedZone{kolkata}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		Payload:      models.JSONMap{"meal": "lunch"},
		ReminderTime: time.Date(2025, 4, 1, 7, 30, 0, 0, time.UTC),
	}
	assert.True(t, checker.ShouldSuppress(r))
}

func TestDoesNotSuppressUnloggedMeal(t *testing.T) {
	kolkata := mustZone(t, "Asia/Kolkata")
	meals := &fakeMealLog{logged: map[string]bool{}}
	checker := NewChecker(meals, fixedZone{kolkata}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		Payload:      models.JSONMap{"meal": "lunch"},
		ReminderTime: time.Date(2025, 4, 1, 7, 30, 0, 0, time.UTC),
	}
	assert.False(t, checker.ShouldSuppress(r))
}

func TestLocalDateCrossesUTCMidnight(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	meals := &fakeMealLog{logged: map[string]bool{"U|2025-04-01|dinner": true}}
	checker := NewChecker(meals, fixedZone{ny}, zap.NewNop())

	// 03:00 UTC on April 2nd is still the evening of April 1st in New York.
	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		Payload:      models.JSONMap{"meal": "dinner"},
		ReminderTime: time.Date(2025, 4, 2, 3, 0, 0, 0, time.UTC),
	}
	assert.True(t, checker.ShouldSuppress(r))
	assert.Equal(t, "2025-04-01", meals.lastDate.Format("2006-01-02"))
}

func TestMealFromContextKey(t *testing.T) {
	meals := &fakeMealLog{logged: map[string]bool{"U|2025-04-01|breakfast": true}}
	checker := NewChecker(meals, fixedZone{time.UTC}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		Payload: models.JSONMap{
			"context": map[string]interface{}{"key": "breakfast"},
		},
		ReminderTime: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	assert.True(t, checker.ShouldSuppress(r))
}

func TestIgnoresOtherReminderTypes(t *testing.T) {
	meals := &fakeMealLog{logged: map[string]bool{"U|2025-04-01|lunch": true}}
	checker := NewChecker(meals, fixedZone{time.UTC}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: "medication",
		Payload:      models.JSONMap{"meal": "lunch"},
		ReminderTime: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.False(t, checker.ShouldSuppress(r))
}

func TestNoMealKeyMeansNoSuppression(t *testing.T) {
	meals := &fakeMealLog{logged: map[string]bool{}}
	checker := NewChecker(meals, fixedZone{time.UTC}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		ReminderTime: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.False(t, checker.ShouldSuppress(r))
}

func TestFailsOpenOnLookupError(t *testing.T) {
	meals := &fakeMealLog{err: errors.New("nutrition table unavailable")}
	checker := NewChecker(meals, fixedZone{time.UTC}, zap.NewNop())

	r := &models.Reminder{
		UserID:       "U",
		ReminderType: TypeNutritionLog,
		Payload:      models.JSONMap{"meal": "lunch"},
		ReminderTime: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	assert.False(t, checker.ShouldSuppress(r))
}
