// Package nutrition holds the macro arithmetic shared by recipes, meal plans
// and the shopping list, plus the calendar helpers they use.
package nutrition

import (
	"github.com/Kerhoff/mizan/internal/models"
)

// RecipeTotals sums the macros of every recipe line whose ingredient is
// known, scaled by amount over the ingredient's serving size. Lines with a
// missing ingredient or a non-positive serving size contribute nothing.
func RecipeTotals(lines []models.RecipeIngredient, ingredients map[int64]*models.Ingredient) models.Macros {
	var total models.Macros
	for _, line := range lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok || ing == nil || ing.ServingSize <= 0 {
			continue
		}
		total = total.Add(ing.Macros.Scale(line.Amount / ing.ServingSize))
	}
	return total
}

// ServingFactor is the multiplier applied to a recipe planned at the given
// number of servings.
func ServingFactor(planned float64, recipe *models.Recipe) float64 {
	return planned / recipe.BaseServings()
}

// PlanMacros aggregates a day's entries. Entries whose recipe was not
// loaded are skipped.
func PlanMacros(entries []models.MealPlanEntry) models.Macros {
	var total models.Macros
	for _, e := range entries {
		if e.Recipe == nil {
			continue
		}
		total = total.Add(e.Recipe.TotalMacros.Scale(ServingFactor(e.Servings, e.Recipe)))
	}
	return total
}

// MealsMacros sums logged meals.
func MealsMacros(meals []*models.Meal) models.Macros {
	var total models.Macros
	for _, m := range meals {
		total = total.Add(m.Macros)
	}
	return total
}
