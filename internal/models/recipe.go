package models

import "time"

// RecipeIngredient is one line of a recipe
type RecipeIngredient struct {
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	Amount       float64 `json:"amount" db:"amount"`
	Unit         string  `json:"unit" db:"unit"`
}

// Recipe represents a catalog recipe. TotalMacros covers all Servings.
type Recipe struct {
	ID           int64              `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	Description  string             `json:"description" db:"description"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	TotalMacros  Macros             `json:"total_macros"`
	Servings     float64            `json:"servings" db:"servings"`
	Instructions string             `json:"instructions" db:"instructions"`
	Tags         []string           `json:"tags" db:"tags"`
	CreatedByID  int64              `json:"created_by_id" db:"created_by_id"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// BaseServings returns Servings, treating non-positive values as a single serving
func (r *Recipe) BaseServings() float64 {
	if r.Servings <= 0 {
		return 1
	}
	return r.Servings
}

// PerServing returns the macros of one serving
func (r *Recipe) PerServing() Macros {
	return r.TotalMacros.Scale(1 / r.BaseServings())
}
