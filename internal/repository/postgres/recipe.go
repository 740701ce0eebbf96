package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/repository"
)

const recipeColumns = `id, name, description, servings, instructions, tags,
	calories, protein, carbs, fat, fiber, COALESCE(created_by_id, 0), created_at, updated_at`

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *sql.DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (name, description, servings, instructions, tags,
			calories, protein, carbs, fat, fiber, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			recipe.Name,
			recipe.Description,
			recipe.Servings,
			recipe.Instructions,
			pq.Array(nonNilTags(recipe.Tags)),
			recipe.TotalMacros.Calories,
			recipe.TotalMacros.Protein,
			recipe.TotalMacros.Carbs,
			recipe.TotalMacros.Fat,
			recipe.TotalMacros.Fiber,
			recipe.CreatedByID,
			recipe.CreatedAt,
			recipe.UpdatedAt,
		).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", translate(err))
		}
		return insertRecipeLines(ctx, tx, recipe)
	})
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe := &models.Recipe{}
	if err := scanRecipe(r.db.QueryRowContext(ctx, query, id), recipe); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := loadRecipeLines(ctx, r.db, map[int64]*models.Recipe{recipe.ID: recipe}); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *recipeRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Recipe, error) {
	return getRecipesByIDs(ctx, r.db, ids)
}

func (r *recipeRepository) List(ctx context.Context, filters repository.CatalogFilters) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE TRUE`
	args := []any{}

	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filters.Tag != "" {
		args = append(args, filters.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}

	args = append(args, clampLimit(filters.Limit), filters.Offset)
	query += fmt.Sprintf(" ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryRecipes(ctx, query, args...)
}

func (r *recipeRepository) ListByIngredient(ctx context.Context, ingredientID int64) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes
		WHERE id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id = $1)
		ORDER BY id ASC`

	return r.queryRecipes(ctx, query, ingredientID)
}

// queryRecipes runs a recipe select and attaches the ingredient lines
func (r *recipeRepository) queryRecipes(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	byID := make(map[int64]*models.Recipe)
	for rows.Next() {
		recipe := &models.Recipe{}
		if err := scanRecipe(rows, recipe); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
		byID[recipe.ID] = recipe
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadRecipeLines(ctx, r.db, byID); err != nil {
		return nil, err
	}

	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		UPDATE recipes
		SET name = $2, description = $3, servings = $4, instructions = $5, tags = $6,
			calories = $7, protein = $8, carbs = $9, fat = $10, fiber = $11, updated_at = $12
		WHERE id = $1`

	recipe.UpdatedAt = time.Now()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			recipe.ID,
			recipe.Name,
			recipe.Description,
			recipe.Servings,
			recipe.Instructions,
			pq.Array(nonNilTags(recipe.Tags)),
			recipe.TotalMacros.Calories,
			recipe.TotalMacros.Protein,
			recipe.TotalMacros.Carbs,
			recipe.TotalMacros.Fat,
			recipe.TotalMacros.Fiber,
			recipe.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := expectOneRow(result, "recipe", recipe.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		return insertRecipeLines(ctx, tx, recipe)
	})
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectOneRow(result, "recipe", id)
}

func insertRecipeLines(ctx context.Context, tx *sql.Tx, recipe *models.Recipe) error {
	query := `
		INSERT INTO recipe_ingredients (recipe_id, position, ingredient_id, amount, unit)
		VALUES ($1, $2, $3, $4, $5)`

	for i, line := range recipe.Ingredients {
		if _, err := tx.ExecContext(ctx, query, recipe.ID, i, line.IngredientID, line.Amount, line.Unit); err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}
	return nil
}

// getRecipesByIDs loads recipes with their ingredient lines. Missing ids are
// absent from the result.
func getRecipesByIDs(ctx context.Context, q queryer, ids []int64) (map[int64]*models.Recipe, error) {
	found := make(map[int64]*models.Recipe, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = ANY($1)`

	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		recipe := &models.Recipe{}
		if err := scanRecipe(rows, recipe); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		found[recipe.ID] = recipe
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadRecipeLines(ctx, q, found); err != nil {
		return nil, err
	}

	return found, nil
}

func loadRecipeLines(ctx context.Context, q queryer, recipes map[int64]*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(recipes))
	for id, recipe := range recipes {
		ids = append(ids, id)
		recipe.Ingredients = []models.RecipeIngredient{}
	}

	query := `
		SELECT recipe_id, ingredient_id, amount, unit
		FROM recipe_ingredients
		WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, position`

	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var line models.RecipeIngredient
		if err := rows.Scan(&recipeID, &line.IngredientID, &line.Amount, &line.Unit); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		if recipe, ok := recipes[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, line)
		}
	}

	return rows.Err()
}

func scanRecipe(row rowScanner, recipe *models.Recipe) error {
	return row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Description,
		&recipe.Servings,
		&recipe.Instructions,
		pq.Array(&recipe.Tags),
		&recipe.TotalMacros.Calories,
		&recipe.TotalMacros.Protein,
		&recipe.TotalMacros.Carbs,
		&recipe.TotalMacros.Fat,
		&recipe.TotalMacros.Fiber,
		&recipe.CreatedByID,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
