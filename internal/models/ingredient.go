package models

import "time"

// Ingredient is catalog reference data. Macros are given per ServingSize
// of ServingUnit.
type Ingredient struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ServingSize float64   `json:"serving_size" db:"serving_size"`
	ServingUnit string    `json:"serving_unit" db:"serving_unit"`
	Macros      Macros    `json:"macros"`
	Verified    bool      `json:"verified" db:"verified"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
