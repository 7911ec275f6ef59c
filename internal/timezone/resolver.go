// Package timezone centralizes the zone lookup chain used for local-date
// computations and push timestamps.
package timezone

import (
	"time"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// ProfileSource looks up a user's configured IANA timezone. Implementations
// may fail; the resolver falls back rather than surfacing errors.
type ProfileSource interface {
	GetTimezone(userID string) (string, error)
}

type Resolver struct {
	profiles ProfileSource
	fallback *time.Location
	logger   *zap.Logger
}

// NewResolver builds a resolver with the service default zone. defaultZone
// must be a valid IANA name; config validation checks it at startup.
func NewResolver(profiles ProfileSource, defaultZone string, logger *zap.Logger) (*Resolver, error) {
	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		return nil, err
	}
	return &Resolver{profiles: profiles, fallback: loc, logger: logger}, nil
}

// Resolve returns the first usable zone of: the reminder's own timezone, the
// user profile's timezone, the service default.
func (r *Resolver) Resolve(reminder *models.Reminder) *time.Location {
	if reminder.Timezone != nil && *reminder.Timezone != "" {
		if loc, err := time.LoadLocation(*reminder.Timezone); err == nil {
			return loc
		}
		r.logger.Warn("reminder carries invalid timezone, falling back",
			zap.String("reminder_id", reminder.ID.String()),
			zap.String("timezone", *reminder.Timezone))
	}
	if loc := r.profileZone(reminder.UserID); loc != nil {
		return loc
	}
	return r.fallback
}

// UserZone returns the user profile's zone, or UTC when the profile has none.
// Push timestamps use this so a missing profile yields local == UTC.
func (r *Resolver) UserZone(userID string) *time.Location {
	if loc := r.profileZone(userID); loc != nil {
		return loc
	}
	return time.UTC
}

func (r *Resolver) profileZone(userID string) *time.Location {
	if r.profiles == nil {
		return nil
	}
	name, err := r.profiles.GetTimezone(userID)
	if err != nil || name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		r.logger.Warn("user profile carries invalid timezone",
			zap.String("user_id", userID),
			zap.String("timezone", name))
		return nil
	}
	return loc
}
