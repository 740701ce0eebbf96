package models

import "time"

// MealTime is the slot of the day a planned recipe is cooked for
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
	MealTimeSnack     MealTime = "snack"
)

// Valid reports whether t is a known meal time
func (t MealTime) Valid() bool {
	switch t {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner, MealTimeSnack:
		return true
	}
	return false
}

// MealPlanEntry schedules a recipe at a number of servings
type MealPlanEntry struct {
	RecipeID int64    `json:"recipe_id" db:"recipe_id"`
	Servings float64  `json:"servings" db:"servings"`
	MealTime MealTime `json:"meal_time" db:"meal_time"`
	Position int      `json:"position" db:"position"`
	Recipe   *Recipe  `json:"recipe,omitempty"`
}

// MealPlan is one user's schedule for one day
type MealPlan struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Date      time.Time       `json:"date" db:"date"`
	Entries   []MealPlanEntry `json:"entries"`
	Macros    Macros          `json:"macros"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
