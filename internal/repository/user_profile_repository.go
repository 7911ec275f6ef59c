package repository

import (
	"gorm.io/gorm"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// UserProfileRepository reads the externally-owned users table. The service
// never writes it; only the timezone column matters here.
type UserProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) GetTimezone(userID string) (string, error) {
	var profile models.UserProfile
	err := r.db.Select("timezone").Where("id = ?", userID).First(&profile).Error
	if err != nil {
		return "", err
	}
	return profile.Timezone, nil
}
