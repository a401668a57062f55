package models

import "time"

// User is identified by phone number. Targets are nullable; a missing target
// is treated as zero wherever progress is computed.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"uniqueIndex;not null" json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	TargetCalories *float64 `json:"target_calories"`
	TargetProtein  *float64 `json:"target_protein"` // grams
	TargetCarbs    *float64 `json:"target_carbs"`   // grams
	TargetFats     *float64 `json:"target_fats"`    // grams

	Height              float64 `json:"height"` // cm
	Weight              float64 `json:"weight"` // kg
	Age                 int     `json:"age"`
	ActivityLevel       string  `json:"activity_level"`       // e.g. "sedentary", "moderate", "active"
	DietaryRestrictions string  `json:"dietary_restrictions"` // comma-separated

	FoodLogs []FoodLog `gorm:"foreignKey:UserID" json:"-"`
}

// Targets returns the daily targets with unset values treated as zero.
func (u *User) Targets() MacroNutrients {
	deref := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	return MacroNutrients{
		Calories: deref(u.TargetCalories),
		Protein:  deref(u.TargetProtein),
		Carbs:    deref(u.TargetCarbs),
		Fats:     deref(u.TargetFats),
	}
}
