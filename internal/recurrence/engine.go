// Package recurrence computes firing instants for recurring reminders.
// All functions are pure; callers supply the reference times. Computation
// is done in UTC.
package recurrence

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// Validate checks that a pattern is well formed enough to schedule.
func Validate(p *models.RecurrencePattern) error {
	if p == nil {
		return fmt.Errorf("recurrence pattern is required")
	}
	if p.Interval < 0 {
		return fmt.Errorf("interval must be positive, got %d", p.Interval)
	}
	switch p.Type {
	case models.RecurrenceDaily, models.RecurrenceQuarterly, models.RecurrenceYearly:
		return nil
	case models.RecurrenceWeekly:
		if len(p.Weekdays) == 0 {
			return fmt.Errorf("weekly recurrence requires a non-empty weekday set")
		}
		for _, wd := range p.Weekdays {
			if wd < 0 || wd > 6 {
				return fmt.Errorf("weekday %d out of range 0..6", wd)
			}
		}
		return nil
	case models.RecurrenceMonthly:
		if p.DayOfMonth == nil {
			return fmt.Errorf("monthly recurrence requires day_of_month")
		}
		if d := *p.DayOfMonth; d != models.LastDayOfMonth && (d < 1 || d > 31) {
			return fmt.Errorf("day_of_month %d out of range (1..31 or -1)", d)
		}
		return nil
	case models.RecurrenceCustom:
		if p.CronExpression == "" {
			return fmt.Errorf("custom recurrence requires cron_expression")
		}
		if _, err := cron.ParseStandard(p.CronExpression); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", p.CronExpression, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence type %q", p.Type)
	}
}

// FirstOccurrence returns the first firing instant at or after start.
func FirstOccurrence(p *models.RecurrencePattern, start time.Time) (time.Time, error) {
	if err := Validate(p); err != nil {
		return time.Time{}, err
	}
	start = start.UTC()
	switch p.Type {
	case models.RecurrenceDaily, models.RecurrenceQuarterly, models.RecurrenceYearly:
		return start, nil
	case models.RecurrenceWeekly:
		d := start
		for i := 0; i < 7; i++ {
			if containsWeekday(p.Weekdays, weekdayIndex(d)) {
				return d, nil
			}
			d = d.AddDate(0, 0, 1)
		}
		return time.Time{}, fmt.Errorf("no weekday matched within one week of %s", start)
	case models.RecurrenceMonthly:
		interval := p.EffectiveInterval()
		year, month, _ := start.Date()
		for months := 0; ; months += interval {
			candidate := monthlyInstant(year, month, months, *p.DayOfMonth, start)
			if !candidate.Before(start) {
				return candidate, nil
			}
		}
	case models.RecurrenceCustom:
		sched, err := cron.ParseStandard(p.CronExpression)
		if err != nil {
			return time.Time{}, err
		}
		next := sched.Next(start.Add(-time.Second))
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("cron expression %q yields no future occurrence", p.CronExpression)
		}
		return next.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unknown recurrence type %q", p.Type)
}

// NextAfter returns the next firing instant strictly after both base (the
// previous occurrence) and now. ok is false when the pattern yields nothing
// further, which callers treat as exhaustion.
func NextAfter(p *models.RecurrencePattern, base, now time.Time) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	base = base.UTC()
	floor := base
	if n := now.UTC(); n.After(floor) {
		floor = n
	}
	interval := p.EffectiveInterval()

	switch p.Type {
	case models.RecurrenceDaily:
		return nextFixedDelta(base, floor, time.Duration(interval)*24*time.Hour), true
	case models.RecurrenceQuarterly:
		return nextFixedDelta(base, floor, time.Duration(90*interval)*24*time.Hour), true
	case models.RecurrenceYearly:
		return nextFixedDelta(base, floor, time.Duration(365*interval)*24*time.Hour), true
	case models.RecurrenceWeekly:
		return nextWeekly(p.Weekdays, interval, base, floor)
	case models.RecurrenceMonthly:
		if p.DayOfMonth == nil {
			return time.Time{}, false
		}
		return nextMonthly(*p.DayOfMonth, interval, base, floor), true
	case models.RecurrenceCustom:
		sched, err := cron.ParseStandard(p.CronExpression)
		if err != nil {
			return time.Time{}, false
		}
		next := sched.Next(floor)
		if next.IsZero() || !next.After(floor) {
			return time.Time{}, false
		}
		return next.UTC(), true
	}
	return time.Time{}, false
}

// nextFixedDelta advances base by whole multiples of delta until strictly
// past floor. floor is never before base.
func nextFixedDelta(base, floor time.Time, delta time.Duration) time.Time {
	steps := floor.Sub(base)/delta + 1
	return base.Add(time.Duration(steps) * delta)
}

// nextWeekly scans the remainder of base's week for a matching weekday,
// then jumps ahead interval weeks at a time, rescanning each week from
// Monday. Weeks run Monday..Sunday.
func nextWeekly(weekdays []int, interval int, base, floor time.Time) (time.Time, bool) {
	if len(weekdays) == 0 {
		return time.Time{}, false
	}
	d := base.AddDate(0, 0, 1)
	for weekdayIndex(d) != 0 {
		if containsWeekday(weekdays, weekdayIndex(d)) && d.After(floor) {
			return d, true
		}
		d = d.AddDate(0, 0, 1)
	}
	// d is the Monday after base's week; skip the inactive weeks.
	d = d.AddDate(0, 0, (interval-1)*7)
	for {
		for i := 0; i < 7; i++ {
			if containsWeekday(weekdays, weekdayIndex(d)) && d.After(floor) {
				return d, true
			}
			d = d.AddDate(0, 0, 1)
		}
		d = d.AddDate(0, 0, (interval-1)*7)
	}
}

// nextMonthly advances month by interval steps until the clamped day at
// base's time of day lands strictly past floor.
func nextMonthly(dayOfMonth, interval int, base, floor time.Time) time.Time {
	year, month, _ := base.Date()
	for months := interval; ; months += interval {
		next := monthlyInstant(year, month, months, dayOfMonth, base)
		if next.After(floor) {
			return next
		}
	}
}

// monthlyInstant places dayOfMonth within the month `offset` months after
// (year, month), clamping to the month's length, at ref's time of day.
func monthlyInstant(year int, month time.Month, offset, dayOfMonth int, ref time.Time) time.Time {
	total := int(month) - 1 + offset
	y := year + total/12
	m := time.Month(total%12 + 1)
	last := daysInMonth(y, m)
	day := dayOfMonth
	if day == models.LastDayOfMonth || day > last {
		day = last
	}
	hh, mm, ss := ref.Clock()
	return time.Date(y, m, day, hh, mm, ss, ref.Nanosecond(), time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// weekdayIndex maps time.Weekday (Sunday=0) onto the Monday=0 convention
// used by recurrence patterns.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func containsWeekday(set []int, wd int) bool {
	for _, v := range set {
		if v == wd {
			return true
		}
	}
	return false
}
