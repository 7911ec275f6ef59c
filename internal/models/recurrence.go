package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type RecurrenceType string

const (
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceYearly    RecurrenceType = "yearly"
	RecurrenceCustom    RecurrenceType = "custom"
)

// LastDayOfMonth is the sentinel DayOfMonth value meaning "last day of the
// resulting month".
const LastDayOfMonth = -1

// RecurrencePattern describes how a template repeats. Persisted as JSONB.
//
// Weekdays use 0=Monday .. 6=Sunday. DayOfMonth is 1..31 or LastDayOfMonth.
// CronExpression is a standard 5-field cron evaluated in UTC.
type RecurrencePattern struct {
	Type           RecurrenceType `json:"type"`
	Interval       int            `json:"interval,omitempty"`
	Weekdays       []int          `json:"weekdays,omitempty"`
	DayOfMonth     *int           `json:"day_of_month,omitempty"`
	CronExpression string         `json:"cron_expression,omitempty"`
	EndDate        *time.Time     `json:"end_date,omitempty"`
	MaxOccurrences *int           `json:"max_occurrences,omitempty"`
}

// UnmarshalJSON accepts "cron" as an alias for "cron_expression" and defaults
// the interval to 1.
func (p *RecurrencePattern) UnmarshalJSON(data []byte) error {
	type alias RecurrencePattern
	aux := struct {
		*alias
		Cron string `json:"cron,omitempty"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.CronExpression == "" && aux.Cron != "" {
		p.CronExpression = aux.Cron
	}
	if p.Interval <= 0 {
		p.Interval = 1
	}
	return nil
}

// Value implements driver.Valuer for JSONB storage
func (p RecurrencePattern) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *RecurrencePattern) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal RecurrencePattern value")
	}
	return json.Unmarshal(bytes, p)
}

// EffectiveInterval returns the interval with the "every 1 unit" default
// applied.
func (p *RecurrencePattern) EffectiveInterval() int {
	if p.Interval <= 0 {
		return 1
	}
	return p.Interval
}
