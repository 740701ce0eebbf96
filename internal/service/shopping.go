package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/metrics"
	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
)

// shoppingKey merges lines of the same ingredient in the same unit. Units
// are never converted, so "g" and "kg" of one ingredient stay separate.
type shoppingKey struct {
	ingredientID int64
	unit         string
}

// ShoppingList consolidates the ingredients needed to cook every recipe
// planned in the week containing date. A failure to load plans or
// ingredients fails the whole list.
func (s *Service) ShoppingList(ctx context.Context, userID int64, date time.Time) ([]models.ShoppingItem, error) {
	from, to := s.WeekWindow(date)

	plans, err := s.Plans.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.Ingredients.GetByIDs(ctx, plannedIngredientIDs(plans))
	if err != nil {
		return nil, err
	}

	items := BuildShoppingList(plans, ingredients)
	metrics.ShoppingListItems.Observe(float64(len(items)))

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"from":    from.Format(nutrition.DateLayout),
		"plans":   len(plans),
		"items":   len(items),
	}).Debug("Built shopping list")

	return items, nil
}

// BuildShoppingList expands every planned recipe, scales each ingredient
// line by planned servings over the recipe's base servings and sums lines
// sharing an (ingredient, unit) pair. Entries without a loaded recipe and
// lines whose ingredient is missing from ingredients are skipped. Items
// appear in the order they are first met: plans in the given order, entries
// by position, lines in recipe order.
func BuildShoppingList(plans []*models.MealPlan, ingredients map[int64]*models.Ingredient) []models.ShoppingItem {
	items := []models.ShoppingItem{}
	index := make(map[shoppingKey]int)

	for _, plan := range plans {
		for _, entry := range plan.Entries {
			if entry.Recipe == nil {
				continue
			}
			factor := nutrition.ServingFactor(entry.Servings, entry.Recipe)
			for _, line := range entry.Recipe.Ingredients {
				ing, ok := ingredients[line.IngredientID]
				if !ok || ing == nil {
					continue
				}

				key := shoppingKey{ingredientID: line.IngredientID, unit: strings.TrimSpace(line.Unit)}
				amount := line.Amount * factor

				if i, seen := index[key]; seen {
					items[i].Amount += amount
					continue
				}
				index[key] = len(items)
				items = append(items, models.ShoppingItem{Name: ing.Name, Amount: amount, Unit: key.unit})
			}
		}
	}

	return items
}

func plannedIngredientIDs(plans []*models.MealPlan) []int64 {
	ids := []int64{}
	seen := make(map[int64]bool)
	for _, plan := range plans {
		for _, entry := range plan.Entries {
			if entry.Recipe == nil {
				continue
			}
			for _, line := range entry.Recipe.Ingredients {
				if !seen[line.IngredientID] {
					seen[line.IngredientID] = true
					ids = append(ids, line.IngredientID)
				}
			}
		}
	}
	return ids
}

// FormatShoppingList renders items one per line for chat surfaces
func FormatShoppingList(items []models.ShoppingItem) string {
	if len(items) == 0 {
		return "Nothing to buy: no meals are planned this week."
	}
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "• %s: %s %s\n", it.Name, formatAmount(it.Amount), it.Unit)
	}
	return sb.String()
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
