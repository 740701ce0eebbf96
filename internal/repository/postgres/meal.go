package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/repository"
)

const mealColumns = `id, user_id, name, meal_type, calories, protein, carbs, fat, fiber, eaten_at, created_at`

type mealRepository struct {
	db *sql.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *sql.DB) repository.MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	query := `
		INSERT INTO meals (user_id, name, meal_type, calories, protein, carbs, fat, fiber, eaten_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	meal.CreatedAt = time.Now()
	if meal.EatenAt.IsZero() {
		meal.EatenAt = meal.CreatedAt
	}

	err := r.db.QueryRowContext(ctx, query,
		meal.UserID,
		meal.Name,
		meal.MealType,
		meal.Macros.Calories,
		meal.Macros.Protein,
		meal.Macros.Carbs,
		meal.Macros.Fat,
		meal.Macros.Fiber,
		meal.EatenAt,
		meal.CreatedAt,
	).Scan(&meal.ID, &meal.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	return meal, nil
}

func (r *mealRepository) GetByID(ctx context.Context, id int64) (*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`

	meal := &models.Meal{}
	if err := scanMeal(r.db.QueryRowContext(ctx, query, id), meal); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

func (r *mealRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at < $3
		ORDER BY eaten_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	meals := []*models.Meal{}
	for rows.Next() {
		meal := &models.Meal{}
		if err := scanMeal(rows, meal); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}

	return meals, rows.Err()
}

func (r *mealRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return expectOneRow(result, "meal", id)
}

func scanMeal(row rowScanner, meal *models.Meal) error {
	return row.Scan(
		&meal.ID,
		&meal.UserID,
		&meal.Name,
		&meal.MealType,
		&meal.Macros.Calories,
		&meal.Macros.Protein,
		&meal.Macros.Carbs,
		&meal.Macros.Fat,
		&meal.Macros.Fiber,
		&meal.EatenAt,
		&meal.CreatedAt,
	)
}
