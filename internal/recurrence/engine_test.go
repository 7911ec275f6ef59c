package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

func intPtr(n int) *int { return &n }

func TestValidate(t *testing.T) {
	t.Run("daily ok", func(t *testing.T) {
		require.NoError(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceDaily}))
	})

	t.Run("nil pattern", func(t *testing.T) {
		require.Error(t, Validate(nil))
	})

	t.Run("unknown type", func(t *testing.T) {
		require.Error(t, Validate(&models.RecurrencePattern{Type: "fortnightly"}))
	})

	t.Run("weekly requires weekdays", func(t *testing.T) {
		err := Validate(&models.RecurrencePattern{Type: models.RecurrenceWeekly})
		require.Error(t, err)
	})

	t.Run("weekday out of range", func(t *testing.T) {
		err := Validate(&models.RecurrencePattern{Type: models.RecurrenceWeekly, Weekdays: []int{0, 7}})
		require.Error(t, err)
	})

	t.Run("monthly requires day_of_month", func(t *testing.T) {
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceMonthly}))
	})

	t.Run("monthly day bounds", func(t *testing.T) {
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(0)}))
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(32)}))
		require.NoError(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(-1)}))
		require.NoError(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(31)}))
	})

	t.Run("custom requires parseable cron", func(t *testing.T) {
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceCustom}))
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "not cron"}))
		require.NoError(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "0 9 * * *"}))
	})

	t.Run("negative interval", func(t *testing.T) {
		require.Error(t, Validate(&models.RecurrencePattern{Type: models.RecurrenceDaily, Interval: -1}))
	})
}

func TestFirstOccurrence(t *testing.T) {
	t.Run("daily is the start itself", func(t *testing.T) {
		start := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
		first, err := FirstOccurrence(&models.RecurrencePattern{Type: models.RecurrenceDaily}, start)
		require.NoError(t, err)
		assert.True(t, first.Equal(start))
	})

	t.Run("weekly returns start when its weekday matches", func(t *testing.T) {
		monday := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
		p := &models.RecurrencePattern{Type: models.RecurrenceWeekly, Weekdays: []int{0, 2, 4}}
		first, err := FirstOccurrence(p, monday)
		require.NoError(t, err)
		assert.True(t, first.Equal(monday))
	})

	t.Run("weekly scans forward to the next matching weekday", func(t *testing.T) {
		tuesday := time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)
		p := &models.RecurrencePattern{Type: models.RecurrenceWeekly, Weekdays: []int{2}}
		first, err := FirstOccurrence(p, tuesday)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC), first)
	})

	t.Run("monthly last day starting on a last day", func(t *testing.T) {
		start := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(-1)}
		first, err := FirstOccurrence(p, start)
		require.NoError(t, err)
		assert.True(t, first.Equal(start))
	})

	t.Run("monthly rolls into the next cycle when the day has passed", func(t *testing.T) {
		start := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, DayOfMonth: intPtr(15)}
		first, err := FirstOccurrence(p, start)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC), first)
	})

	t.Run("cron matching the start returns the start", func(t *testing.T) {
		start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) // Monday 09:00
		p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "0 9 * * 1"}
		first, err := FirstOccurrence(p, start)
		require.NoError(t, err)
		assert.True(t, first.Equal(start))
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		_, err := FirstOccurrence(&models.RecurrencePattern{Type: models.RecurrenceWeekly}, time.Now())
		require.Error(t, err)
	})
}

func TestNextAfterDaily(t *testing.T) {
	base := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	p := &models.RecurrencePattern{Type: models.RecurrenceDaily, Interval: 1}

	t.Run("advances one day", func(t *testing.T) {
		next, ok := NextAfter(p, base, base.Add(5*time.Second))
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("respects interval", func(t *testing.T) {
		p3 := &models.RecurrencePattern{Type: models.RecurrenceDaily, Interval: 3}
		next, ok := NextAfter(p3, base, base)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 13, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("catches up past the floor after downtime", func(t *testing.T) {
		now := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
		next, ok := NextAfter(p, base, now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC), next)
		assert.True(t, next.After(now))
	})
}

func TestNextAfterWeekly(t *testing.T) {
	p := &models.RecurrencePattern{Type: models.RecurrenceWeekly, Interval: 1, Weekdays: []int{0, 2, 4}}

	t.Run("walks Monday Wednesday Friday", func(t *testing.T) {
		cur := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC) // Monday
		want := []time.Time{
			time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC),  // Wednesday
			time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC),  // Friday
			time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), // next Monday
			time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), // next Wednesday
		}
		for _, expected := range want {
			next, ok := NextAfter(p, cur, cur)
			require.True(t, ok)
			assert.Equal(t, expected, next)
			cur = next
		}
	})

	t.Run("biweekly skips the inactive week", func(t *testing.T) {
		biweekly := &models.RecurrencePattern{Type: models.RecurrenceWeekly, Interval: 2, Weekdays: []int{0, 4}}
		friday := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
		next, ok := NextAfter(biweekly, friday, friday)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC), next)
	})

	t.Run("empty weekday set yields nothing", func(t *testing.T) {
		empty := &models.RecurrencePattern{Type: models.RecurrenceWeekly}
		_, ok := NextAfter(empty, time.Now(), time.Now())
		assert.False(t, ok)
	})
}

func TestNextAfterMonthly(t *testing.T) {
	t.Run("day 31 clamps to shorter months", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: intPtr(31)}
		cur := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
		want := []time.Time{
			time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 30, 10, 0, 0, 0, time.UTC),
		}
		for _, expected := range want {
			next, ok := NextAfter(p, cur, cur)
			require.True(t, ok)
			assert.Equal(t, expected, next)
			cur = next
		}
	})

	t.Run("last day of month follows calendar lengths", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: intPtr(-1)}
		cur := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
		want := []time.Time{
			time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 30, 23, 0, 0, 0, time.UTC),
		}
		for _, expected := range want {
			next, ok := NextAfter(p, cur, cur)
			require.True(t, ok)
			assert.Equal(t, expected, next)
			cur = next
		}
	})

	t.Run("leap February", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: intPtr(-1)}
		cur := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
		next, ok := NextAfter(p, cur, cur)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("multi-month interval crosses the year boundary", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceMonthly, Interval: 3, DayOfMonth: intPtr(15)}
		cur := time.Date(2024, 11, 15, 12, 0, 0, 0, time.UTC)
		next, ok := NextAfter(p, cur, cur)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC), next)
	})
}

func TestNextAfterFixedDeltas(t *testing.T) {
	base := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)

	t.Run("quarterly adds ninety days", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceQuarterly, Interval: 1}
		next, ok := NextAfter(p, base, base)
		require.True(t, ok)
		assert.Equal(t, base.AddDate(0, 0, 90), next)
	})

	t.Run("yearly adds three-hundred-sixty-five days", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceYearly, Interval: 1}
		next, ok := NextAfter(p, base, base)
		require.True(t, ok)
		assert.Equal(t, base.AddDate(0, 0, 365), next)
	})
}

func TestNextAfterCron(t *testing.T) {
	t.Run("daily nine o'clock", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "0 9 * * *"}
		base := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
		next, ok := NextAfter(p, base, base)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("floor uses now when later than base", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "30 7 * * *"}
		base := time.Date(2025, 2, 1, 7, 30, 0, 0, time.UTC)
		now := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
		next, ok := NextAfter(p, base, now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 2, 11, 7, 30, 0, 0, time.UTC), next)
	})

	t.Run("unsatisfiable expression yields nothing", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "0 0 30 2 *"}
		base := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
		_, ok := NextAfter(p, base, base)
		assert.False(t, ok)
	})

	t.Run("unparseable expression yields nothing", func(t *testing.T) {
		p := &models.RecurrencePattern{Type: models.RecurrenceCustom, CronExpression: "bogus"}
		_, ok := NextAfter(p, time.Now(), time.Now())
		assert.False(t, ok)
	})
}

func TestNextAfterMonotonic(t *testing.T) {
	patterns := []*models.RecurrencePattern{
		{Type: models.RecurrenceDaily, Interval: 2},
		{Type: models.RecurrenceWeekly, Interval: 1, Weekdays: []int{1, 3}},
		{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: intPtr(31)},
		{Type: models.RecurrenceQuarterly, Interval: 1},
		{Type: models.RecurrenceCustom, CronExpression: "15 6 * * *"},
	}
	for _, p := range patterns {
		cur := time.Date(2025, 1, 10, 6, 15, 0, 0, time.UTC)
		for i := 0; i < 12; i++ {
			next, ok := NextAfter(p, cur, cur)
			require.True(t, ok, "pattern %s", p.Type)
			require.True(t, next.After(cur), "pattern %s produced %s not after %s", p.Type, next, cur)
			cur = next
		}
	}
}
