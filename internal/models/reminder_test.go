package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestJSONMapHelpers(t *testing.T) {
	m := JSONMap{
		"meal": "lunch",
		"context": map[string]interface{}{
			"domain": "nutrition",
			"key":    "breakfast",
		},
		"count": float64(2),
	}

	assert.Equal(t, "lunch", m.String("meal"))
	assert.Equal(t, "", m.String("count"))
	assert.Equal(t, "", m.String("missing"))

	ctx := m.Nested("context")
	require.NotNil(t, ctx)
	assert.Equal(t, "breakfast", ctx.String("key"))
	assert.Nil(t, m.Nested("meal"))

	var empty JSONMap
	assert.Equal(t, "", empty.String("anything"))
	assert.Nil(t, empty.Nested("anything"))
}

func TestJSONMapScanRoundTrip(t *testing.T) {
	src := JSONMap{"title": "Drink water", "priority": float64(1)}
	value, err := src.Value()
	require.NoError(t, err)

	var dst JSONMap
	require.NoError(t, dst.Scan(value))
	assert.Equal(t, src, dst)

	var fromNil JSONMap
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestRecurrencePatternCronAlias(t *testing.T) {
	var p RecurrencePattern
	require.NoError(t, json.Unmarshal([]byte(`{"type":"custom","cron":"0 9 * * *"}`), &p))
	assert.Equal(t, RecurrenceCustom, p.Type)
	assert.Equal(t, "0 9 * * *", p.CronExpression)
	assert.Equal(t, 1, p.Interval)

	// explicit field wins over the alias
	var q RecurrencePattern
	require.NoError(t, json.Unmarshal([]byte(`{"type":"custom","cron_expression":"0 8 * * *","cron":"0 9 * * *"}`), &q))
	assert.Equal(t, "0 8 * * *", q.CronExpression)
}

func TestRecurrencePatternScanRoundTrip(t *testing.T) {
	day := 15
	src := RecurrencePattern{Type: RecurrenceMonthly, Interval: 2, DayOfMonth: &day}
	value, err := src.Value()
	require.NoError(t, err)

	var dst RecurrencePattern
	require.NoError(t, dst.Scan(value))
	assert.Equal(t, src.Type, dst.Type)
	assert.Equal(t, src.Interval, dst.Interval)
	require.NotNil(t, dst.DayOfMonth)
	assert.Equal(t, 15, *dst.DayOfMonth)
}

func TestExternalIDDerivation(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "u1:ping:1735689600", SyntheticExternalID("u1", "ping", at))
	assert.Equal(t, "u1:ping:1735689600_3", ChildExternalID("u1:ping:1735689600", 3))
}

func TestReminderShapes(t *testing.T) {
	oneTime := Reminder{}
	assert.False(t, oneTime.IsTemplate())
	assert.True(t, oneTime.IsDispatchable())

	template := Reminder{IsRecurring: true}
	assert.True(t, template.IsTemplate())
	assert.False(t, template.IsDispatchable())

	occurrence := Reminder{IsGenerated: true}
	assert.False(t, occurrence.IsTemplate())
	assert.True(t, occurrence.IsDispatchable())
}

func TestResolvedTitleAndMessage(t *testing.T) {
	r := Reminder{
		Title:   strPtr("Column title"),
		Message: strPtr("Column message"),
		Payload: JSONMap{"title": "Payload title"},
	}
	assert.Equal(t, "Payload title", r.ResolvedTitle())
	assert.Equal(t, "Column message", r.ResolvedMessage())

	bare := Reminder{}
	assert.Equal(t, "", bare.ResolvedTitle())
	assert.Equal(t, "", bare.ResolvedMessage())
}
