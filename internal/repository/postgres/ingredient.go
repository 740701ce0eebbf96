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

const ingredientColumns = `id, name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, verified, created_at`

type ingredientRepository struct {
	db *sql.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *sql.DB) repository.IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	query := `
		INSERT INTO ingredients (name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	ing.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		ing.Name,
		ing.ServingSize,
		ing.ServingUnit,
		ing.Macros.Calories,
		ing.Macros.Protein,
		ing.Macros.Carbs,
		ing.Macros.Fat,
		ing.Macros.Fiber,
		ing.Verified,
		ing.CreatedAt,
	).Scan(&ing.ID, &ing.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", translate(err))
	}

	return ing, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`

	ing := &models.Ingredient{}
	err := scanIngredient(r.db.QueryRowContext(ctx, query, id), ing)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	return ing, nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Ingredient, error) {
	found := make(map[int64]*models.Ingredient, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ing := &models.Ingredient{}
		if err := scanIngredient(rows, ing); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		found[ing.ID] = ing
	}

	return found, rows.Err()
}

func (r *ingredientRepository) List(ctx context.Context, filters repository.CatalogFilters) ([]*models.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients`
	args := []any{}

	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		query += fmt.Sprintf(" WHERE name ILIKE $%d", len(args))
	}

	args = append(args, clampLimit(filters.Limit), filters.Offset)
	query += fmt.Sprintf(" ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []*models.Ingredient{}
	for rows.Next() {
		ing := &models.Ingredient{}
		if err := scanIngredient(rows, ing); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, rows.Err()
}

func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return expectOneRow(result, "ingredient", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner, ing *models.Ingredient) error {
	return row.Scan(
		&ing.ID,
		&ing.Name,
		&ing.ServingSize,
		&ing.ServingUnit,
		&ing.Macros.Calories,
		&ing.Macros.Protein,
		&ing.Macros.Carbs,
		&ing.Macros.Fat,
		&ing.Macros.Fiber,
		&ing.Verified,
		&ing.CreatedAt,
	)
}
