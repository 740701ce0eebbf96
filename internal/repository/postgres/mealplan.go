package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

type mealPlanRepository struct {
	db *sql.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *sql.DB) repository.MealPlanRepository {
	return &mealPlanRepository{db: db}
}

func (r *mealPlanRepository) Upsert(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	query := `
		INSERT INTO meal_plans (user_id, date, calories, protein, carbs, fat, fiber, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, date) DO UPDATE
		SET calories = EXCLUDED.calories, protein = EXCLUDED.protein, carbs = EXCLUDED.carbs,
			fat = EXCLUDED.fat, fiber = EXCLUDED.fiber, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	plan.Date = nutrition.DayStart(plan.Date)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			plan.UserID,
			plan.Date,
			plan.Macros.Calories,
			plan.Macros.Protein,
			plan.Macros.Carbs,
			plan.Macros.Fat,
			plan.Macros.Fiber,
			time.Now(),
		).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert meal plan: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plan_entries WHERE meal_plan_id = $1`, plan.ID); err != nil {
			return fmt.Errorf("failed to clear meal plan entries: %w", err)
		}

		entryQuery := `
			INSERT INTO meal_plan_entries (meal_plan_id, position, recipe_id, servings, meal_time)
			VALUES ($1, $2, $3, $4, $5)`
		for i := range plan.Entries {
			plan.Entries[i].Position = i
			e := plan.Entries[i]
			if _, err := tx.ExecContext(ctx, entryQuery, plan.ID, e.Position, e.RecipeID, e.Servings, e.MealTime); err != nil {
				return fmt.Errorf("failed to insert meal plan entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *mealPlanRepository) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.MealPlan, error) {
	from, to := nutrition.DayWindow(date)
	plans, err := r.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return plans[0], nil
}

func (r *mealPlanRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.MealPlan, error) {
	query := `
		SELECT id, user_id, date, calories, protein, carbs, fat, fiber, created_at, updated_at
		FROM meal_plans
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.MealPlan{}
	byID := make(map[int64]*models.MealPlan)
	for rows.Next() {
		plan := &models.MealPlan{Entries: []models.MealPlanEntry{}}
		if err := rows.Scan(
			&plan.ID,
			&plan.UserID,
			&plan.Date,
			&plan.Macros.Calories,
			&plan.Macros.Protein,
			&plan.Macros.Carbs,
			&plan.Macros.Fat,
			&plan.Macros.Fiber,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
		byID[plan.ID] = plan
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meal plans: %w", err)
	}
	rows.Close()

	if len(plans) == 0 {
		return plans, nil
	}

	if err := r.loadEntries(ctx, byID); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, userID int64, date time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meal_plans WHERE user_id = $1 AND date = $2`, userID, nutrition.DayStart(date))
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return expectOneRow(result, "meal plan for user", userID)
}

// loadEntries attaches entries, and the recipes they reference, to plans
func (r *mealPlanRepository) loadEntries(ctx context.Context, plans map[int64]*models.MealPlan) error {
	ids := make([]int64, 0, len(plans))
	for id := range plans {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	query := `
		SELECT meal_plan_id, position, recipe_id, servings, meal_time
		FROM meal_plan_entries
		WHERE meal_plan_id = ANY($1)
		ORDER BY meal_plan_id, position`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query meal plan entries: %w", err)
	}
	defer rows.Close()

	recipeIDs := []int64{}
	seen := make(map[int64]bool)
	for rows.Next() {
		var planID int64
		var e models.MealPlanEntry
		if err := rows.Scan(&planID, &e.Position, &e.RecipeID, &e.Servings, &e.MealTime); err != nil {
			return fmt.Errorf("failed to scan meal plan entry: %w", err)
		}
		plan, ok := plans[planID]
		if !ok {
			continue
		}
		plan.Entries = append(plan.Entries, e)
		if !seen[e.RecipeID] {
			seen[e.RecipeID] = true
			recipeIDs = append(recipeIDs, e.RecipeID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read meal plan entries: %w", err)
	}
	rows.Close()

	recipes, err := getRecipesByIDs(ctx, r.db, recipeIDs)
	if err != nil {
		return err
	}

	for _, plan := range plans {
		for i := range plan.Entries {
			plan.Entries[i].Recipe = recipes[plan.Entries[i].RecipeID]
		}
	}

	return nil
}
