package service

import (
	"net/http"
	"time"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/repository"
	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// DeviceTokenStore is the persistence surface the service depends on.
type DeviceTokenStore interface {
	Upsert(token *models.DeviceToken) (*models.DeviceToken, error)
	List(params repository.DeviceTokenListParams) ([]models.DeviceToken, error)
}

type DeviceService struct {
	store DeviceTokenStore
}

func NewDeviceService(store DeviceTokenStore) *DeviceService {
	return &DeviceService{store: store}
}

// Register stores a device token or refreshes the existing row for the
// same user and platform.
func (s *DeviceService) Register(req dto.RegisterDeviceRequest) (*dto.DeviceTokenDTO, error) {
	if req.FCMToken == "" {
		return nil, apperrors.ValidationError("fcm_token is required")
	}
	platform := models.Platform(req.Platform)
	if !models.ValidPlatform(platform) {
		return nil, apperrors.ValidationError("platform must be one of ios, android, web")
	}

	token := &models.DeviceToken{
		UserID:     req.UserID,
		Platform:   platform,
		FCMToken:   req.FCMToken,
		DeviceName: req.DeviceName,
		AppVersion: req.AppVersion,
		LastSeenAt: time.Now().UTC(),
	}

	row, err := s.store.Upsert(token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to register device", http.StatusInternalServerError)
	}

	result := dto.DeviceTokenToDTO(row)
	return &result, nil
}

// List returns registered device tokens, newest first, optionally filtered
// by user and platform.
func (s *DeviceService) List(userID, platform string) ([]dto.DeviceTokenDTO, error) {
	if platform != "" && !models.ValidPlatform(models.Platform(platform)) {
		return nil, apperrors.ValidationError("platform must be one of ios, android, web")
	}

	tokens, err := s.store.List(repository.DeviceTokenListParams{
		UserID:   userID,
		Platform: platform,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to list devices", http.StatusInternalServerError)
	}

	return dto.DeviceTokensToDTO(tokens), nil
}
