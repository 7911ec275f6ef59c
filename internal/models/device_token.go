package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}

// DeviceToken is a push registration. One row per (user, platform); a
// re-registration replaces the token in place.
type DeviceToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"size:64;not null;uniqueIndex:idx_device_tokens_user_platform" json:"user_id"`
	Platform   Platform  `gorm:"type:varchar(10);not null;uniqueIndex:idx_device_tokens_user_platform" json:"platform"`
	FCMToken   string    `gorm:"column:fcm_token;not null" json:"-"`
	DeviceName string    `gorm:"size:255" json:"device_name"`
	AppVersion string    `gorm:"size:20" json:"app_version"`
	LastSeenAt time.Time `gorm:"default:now()" json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d *DeviceToken) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
