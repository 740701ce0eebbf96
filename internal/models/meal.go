package models

import "time"

// MealType classifies a logged meal
type MealType string

const (
	MealTypeMeal  MealType = "meal"
	MealTypeSnack MealType = "snack"
	MealTypeDrink MealType = "drink"
)

// Valid reports whether t is a known meal type
func (t MealType) Valid() bool {
	switch t {
	case MealTypeMeal, MealTypeSnack, MealTypeDrink:
		return true
	}
	return false
}

// Meal is a logged consumption event. Macros are entered directly and are
// not linked to recipes.
type Meal struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	MealType  MealType  `json:"meal_type" db:"meal_type"`
	Macros    Macros    `json:"macros"`
	EatenAt   time.Time `json:"eaten_at" db:"eaten_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
