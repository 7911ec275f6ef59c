package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// RegisterDeviceRequest is the request body for registering a push token
type RegisterDeviceRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Platform   string `json:"platform" binding:"required,oneof=ios android web"`
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceName string `json:"device_name,omitempty"`
	AppVersion string `json:"app_version,omitempty"`
}

// DeviceTokenDTO represents a device token in responses
type DeviceTokenDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	Platform   string    `json:"platform"`
	DeviceName string    `json:"device_name,omitempty"`
	AppVersion string    `json:"app_version,omitempty"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeviceTokenToDTO converts a DeviceToken model to DeviceTokenDTO
func DeviceTokenToDTO(d *models.DeviceToken) DeviceTokenDTO {
	return DeviceTokenDTO{
		ID:         d.ID,
		UserID:     d.UserID,
		Platform:   string(d.Platform),
		DeviceName: d.DeviceName,
		AppVersion: d.AppVersion,
		LastSeenAt: d.LastSeenAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// DeviceTokensToDTO converts a slice of DeviceToken models to DTOs
func DeviceTokensToDTO(tokens []models.DeviceToken) []DeviceTokenDTO {
	dtos := make([]DeviceTokenDTO, len(tokens))
	for i, d := range tokens {
		dtos[i] = DeviceTokenToDTO(&d)
	}
	return dtos
}
