package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

// RecipeInput is the writable part of a recipe
type RecipeInput struct {
	Name         string
	Description  string
	Servings     float64
	Instructions string
	Tags         []string
	Ingredients  []models.RecipeIngredient
}

// CreateIngredient adds an ingredient to the catalog. Admin only.
func (s *Service) CreateIngredient(ctx context.Context, actor *models.User, ing *models.Ingredient) (*models.Ingredient, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can add ingredients", ErrForbidden)
	}

	ing.Name = strings.TrimSpace(ing.Name)
	ing.ServingUnit = strings.TrimSpace(ing.ServingUnit)

	var v validation
	v.check(ing.Name != "", "name is required")
	v.check(ing.ServingSize > 0, "serving_size must be positive")
	v.check(ing.ServingUnit != "", "serving_unit is required")
	checkMacros(&v, ing.Macros)
	if err := v.err(); err != nil {
		return nil, err
	}

	created, err := s.Ingredients.Create(ctx, ing)
	if err != nil {
		return nil, fromRepo(err)
	}

	s.logger.WithField("ingredient_id", created.ID).Infof("Created ingredient %q", created.Name)
	return created, nil
}

// GetIngredient returns one ingredient.
func (s *Service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := s.Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
	}
	return ing, nil
}

// ListIngredients searches the catalog.
func (s *Service) ListIngredients(ctx context.Context, filters repository.CatalogFilters) ([]*models.Ingredient, error) {
	return s.Ingredients.List(ctx, filters)
}

// DeleteIngredient removes an ingredient. Recipes referencing it keep their
// lines as dangling references, and their stored totals are recomputed
// without it. Admin only.
func (s *Service) DeleteIngredient(ctx context.Context, actor *models.User, id int64) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: only admins can delete ingredients", ErrForbidden)
	}
	if err := s.Ingredients.Delete(ctx, id); err != nil {
		return fromRepo(err)
	}
	s.logger.WithField("ingredient_id", id).Info("Deleted ingredient")

	if err := s.refreshRecipeTotals(ctx, id); err != nil {
		return fmt.Errorf("failed to refresh recipes using ingredient %d: %w", id, err)
	}
	return nil
}

// refreshRecipeTotals re-derives and stores the totals of every recipe with
// a line for ingredientID.
func (s *Service) refreshRecipeTotals(ctx context.Context, ingredientID int64) error {
	recipes, err := s.Recipes.ListByIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		return nil
	}

	ids := []int64{}
	for _, recipe := range recipes {
		for _, line := range recipe.Ingredients {
			ids = append(ids, line.IngredientID)
		}
	}
	ingredients, err := s.Ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}

	for _, recipe := range recipes {
		recipe.TotalMacros = nutrition.RecipeTotals(recipe.Ingredients, ingredients)
		if _, err := s.Recipes.Update(ctx, recipe); err != nil {
			return fromRepo(err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"ingredient_id": ingredientID,
		"recipes":       len(recipes),
	}).Info("Recomputed recipe totals")
	return nil
}

// CreateRecipe stores a new recipe owned by actor with its totals derived
// from the ingredient lines.
func (s *Service) CreateRecipe(ctx context.Context, actor *models.User, in RecipeInput) (*models.Recipe, error) {
	recipe := &models.Recipe{CreatedByID: actor.ID}
	if err := s.applyRecipeInput(ctx, recipe, in); err != nil {
		return nil, err
	}

	created, err := s.Recipes.Create(ctx, recipe)
	if err != nil {
		return nil, fromRepo(err)
	}

	s.logger.WithFields(logrus.Fields{
		"recipe_id": created.ID,
		"user_id":   actor.ID,
	}).Infof("Created recipe %q", created.Name)
	return created, nil
}

// UpdateRecipe replaces a recipe's content and recomputes its totals.
// Only the creator or an admin may update.
func (s *Service) UpdateRecipe(ctx context.Context, actor *models.User, id int64, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(actor, recipe) {
		return nil, fmt.Errorf("%w: recipe %d belongs to another user", ErrForbidden, id)
	}

	if err := s.applyRecipeInput(ctx, recipe, in); err != nil {
		return nil, err
	}

	updated, err := s.Recipes.Update(ctx, recipe)
	if err != nil {
		return nil, fromRepo(err)
	}
	return updated, nil
}

// GetRecipe returns one recipe with its ingredient lines.
func (s *Service) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, err := s.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
	}
	return recipe, nil
}

// ListRecipes searches the catalog.
func (s *Service) ListRecipes(ctx context.Context, filters repository.CatalogFilters) ([]*models.Recipe, error) {
	return s.Recipes.List(ctx, filters)
}

// DeleteRecipe removes a recipe. Only the creator or an admin may delete.
func (s *Service) DeleteRecipe(ctx context.Context, actor *models.User, id int64) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !canEdit(actor, recipe) {
		return fmt.Errorf("%w: recipe %d belongs to another user", ErrForbidden, id)
	}
	return fromRepo(s.Recipes.Delete(ctx, id))
}

func (s *Service) applyRecipeInput(ctx context.Context, recipe *models.Recipe, in RecipeInput) error {
	var v validation
	name := strings.TrimSpace(in.Name)
	v.check(name != "", "name is required")
	v.check(in.Servings >= 1, "servings must be at least 1")
	v.check(len(in.Ingredients) > 0, "at least one ingredient is required")

	ids := make([]int64, 0, len(in.Ingredients))
	lines := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for i, line := range in.Ingredients {
		line.Unit = strings.TrimSpace(line.Unit)
		v.check(line.Amount > 0, "ingredients[%d]: amount must be positive", i)
		v.check(line.Unit != "", "ingredients[%d]: unit is required", i)
		ids = append(ids, line.IngredientID)
		lines = append(lines, line)
	}
	if err := v.err(); err != nil {
		return err
	}

	ingredients, err := s.Ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	for i, line := range lines {
		v.check(ingredients[line.IngredientID] != nil, "ingredients[%d]: unknown ingredient %d", i, line.IngredientID)
	}
	if err := v.err(); err != nil {
		return err
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}

	recipe.Name = name
	recipe.Description = strings.TrimSpace(in.Description)
	recipe.Servings = in.Servings
	recipe.Instructions = strings.TrimSpace(in.Instructions)
	recipe.Tags = tags
	recipe.Ingredients = lines
	recipe.TotalMacros = nutrition.RecipeTotals(lines, ingredients)
	return nil
}

func canEdit(actor *models.User, recipe *models.Recipe) bool {
	return actor.IsAdmin || recipe.CreatedByID == actor.ID
}

func checkMacros(v *validation, m models.Macros) {
	v.check(m.Calories >= 0 && m.Protein >= 0 && m.Carbs >= 0 && m.Fat >= 0 && m.Fiber >= 0,
		"macros must not be negative")
}
