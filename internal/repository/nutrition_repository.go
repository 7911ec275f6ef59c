package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/models"
)

// NutritionRepository reads the externally-owned nutrition log used to
// suppress meal reminders the user has already acted on.
type NutritionRepository struct {
	db *gorm.DB
}

func NewNutritionRepository(db *gorm.DB) *NutritionRepository {
	return &NutritionRepository{db: db}
}

// WasMealLogged reports whether the user logged the given meal on localDate.
func (r *NutritionRepository) WasMealLogged(userID string, localDate time.Time, meal string) (bool, error) {
	var count int64
	err := r.db.Model(&models.NutritionEntry{}).
		Where("user_id = ? AND meal_date = ? AND meal_type = ?",
			userID, localDate.Format("2006-01-02"), meal).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
