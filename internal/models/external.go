package models

import "time"

// Read-only projections over tables owned by other services. They are
// queried for dispatch decisions and are never migrated or written here.

// UserProfile exposes the timezone column of the users table.
type UserProfile struct {
	ID       string `gorm:"primary_key"`
	Timezone string
}

func (UserProfile) TableName() string {
	return "users"
}

// NutritionEntry is a logged meal. A matching row for the reminder's local
// date suppresses a nutrition log reminder.
type NutritionEntry struct {
	ID       uint   `gorm:"primary_key"`
	UserID   string `gorm:"column:user_id"`
	MealDate time.Time
	MealType string
}

func (NutritionEntry) TableName() string {
	return "nutrition_raw_data"
}
