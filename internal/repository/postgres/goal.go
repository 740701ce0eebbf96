package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/repository"
)

const goalColumns = `id, user_id, version, calories, protein, carbs, fat, fiber, created_at`

type goalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *sql.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, version, calories, protein, carbs, fat, fiber, created_at)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2, $3, $4, $5, $6, $7
		FROM goals
		WHERE user_id = $1
		RETURNING id, version, created_at`

	goal.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		goal.UserID,
		goal.Macros.Calories,
		goal.Macros.Protein,
		goal.Macros.Carbs,
		goal.Macros.Fat,
		goal.Macros.Fiber,
		goal.CreatedAt,
	).Scan(&goal.ID, &goal.Version, &goal.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", translate(err))
	}

	return goal, nil
}

func (r *goalRepository) GetCurrent(ctx context.Context, userID int64) (*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY version DESC
		LIMIT 1`

	goal := &models.Goal{}
	if err := scanGoal(r.db.QueryRowContext(ctx, query, userID), goal); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current goal: %w", err)
	}

	return goal, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY version DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []*models.Goal{}
	for rows.Next() {
		goal := &models.Goal{}
		if err := scanGoal(rows, goal); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

func scanGoal(row rowScanner, goal *models.Goal) error {
	return row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Version,
		&goal.Macros.Calories,
		&goal.Macros.Protein,
		&goal.Macros.Carbs,
		&goal.Macros.Fat,
		&goal.Macros.Fiber,
		&goal.CreatedAt,
	)
}
