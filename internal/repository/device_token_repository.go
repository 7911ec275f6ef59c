package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// Upsert registers a token, replacing any existing row for the same
// (user, platform) pair.
func (r *DeviceTokenRepository) Upsert(token *models.DeviceToken) (*models.DeviceToken, error) {
	var existing models.DeviceToken
	err := r.db.Where("user_id = ? AND platform = ?", token.UserID, token.Platform).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		token.LastSeenAt = time.Now().UTC()
		cerr := r.db.Create(token).Error
		if cerr == nil {
			return token, nil
		}
		if !errors.Is(cerr, gorm.ErrDuplicatedKey) {
			return nil, cerr
		}
		// Lost a race with a concurrent register for the same (user,
		// platform); update the winner's row instead.
		ferr := r.db.Where("user_id = ? AND platform = ?", token.UserID, token.Platform).First(&existing).Error
		if ferr != nil {
			return nil, cerr
		}
	} else if err != nil {
		return nil, err
	}

	existing.FCMToken = token.FCMToken
	existing.DeviceName = token.DeviceName
	existing.AppVersion = token.AppVersion
	existing.LastSeenAt = time.Now().UTC()
	if err := r.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// LatestForUser returns the most recently created token for the user on the
// given platform.
func (r *DeviceTokenRepository) LatestForUser(userID string, platform models.Platform) (*models.DeviceToken, error) {
	var token models.DeviceToken
	err := r.db.
		Where("user_id = ? AND platform = ?", userID, platform).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

type DeviceTokenListParams struct {
	UserID   string
	Platform string
}

func (r *DeviceTokenRepository) List(params DeviceTokenListParams) ([]models.DeviceToken, error) {
	query := r.db.Model(&models.DeviceToken{})
	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Platform != "" {
		query = query.Where("platform = ?", params.Platform)
	}

	var tokens []models.DeviceToken
	err := query.Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}

// DeleteStale removes tokens whose devices have not checked in since the
// threshold.
func (r *DeviceTokenRepository) DeleteStale(before time.Time) (int64, error) {
	result := r.db.Where("last_seen_at < ?", before).Delete(&models.DeviceToken{})
	return result.RowsAffected, result.Error
}
