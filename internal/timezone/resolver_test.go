package timezone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

type stubProfiles struct {
	zones map[string]string
	err   error
}

func (s *stubProfiles) GetTimezone(userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.zones[userID], nil
}

func newTestResolver(t *testing.T, profiles ProfileSource) *Resolver {
	t.Helper()
	r, err := NewResolver(profiles, "America/New_York", zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestResolvePrefersReminderZone(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{zones: map[string]string{"u1": "Europe/Berlin"}})
	tz := "Asia/Kolkata"
	loc := r.Resolve(&models.Reminder{UserID: "u1", Timezone: &tz})
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestResolveFallsBackToProfile(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{zones: map[string]string{"u1": "Europe/Berlin"}})
	loc := r.Resolve(&models.Reminder{UserID: "u1"})
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{zones: map[string]string{}})
	loc := r.Resolve(&models.Reminder{UserID: "unknown"})
	assert.Equal(t, "America/New_York", loc.String())
}

func TestResolveSkipsInvalidReminderZone(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{zones: map[string]string{"u1": "Europe/Berlin"}})
	tz := "Not/AZone"
	loc := r.Resolve(&models.Reminder{UserID: "u1", Timezone: &tz})
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestResolveFailsOpenOnProfileError(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{err: errors.New("db down")})
	loc := r.Resolve(&models.Reminder{UserID: "u1"})
	assert.Equal(t, "America/New_York", loc.String())
}

func TestUserZoneDefaultsToUTC(t *testing.T) {
	r := newTestResolver(t, &stubProfiles{zones: map[string]string{"u2": "Asia/Tokyo"}})
	assert.Equal(t, "Asia/Tokyo", r.UserZone("u2").String())
	assert.Equal(t, "UTC", r.UserZone("nobody").String())
}
