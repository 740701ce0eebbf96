package models

import "time"

// Suggestion is the cached set of recommended recipes for a user's day
type Suggestion struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"date"`
	RecipeIDs []int64   `json:"recipe_ids" db:"recipe_ids"`
	Recipes   []*Recipe `json:"recipes,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
