package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

type suggestionRepository struct {
	db *sql.DB
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *sql.DB) repository.SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Get(ctx context.Context, userID int64, date time.Time) (*models.Suggestion, error) {
	query := `
		SELECT id, user_id, date, recipe_ids, created_at
		FROM suggestions
		WHERE user_id = $1 AND date = $2`

	s := &models.Suggestion{}
	err := r.db.QueryRowContext(ctx, query, userID, nutrition.DayStart(date)).Scan(
		&s.ID,
		&s.UserID,
		&s.Date,
		pq.Array(&s.RecipeIDs),
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	return s, nil
}

func (r *suggestionRepository) Replace(ctx context.Context, s *models.Suggestion) (*models.Suggestion, error) {
	query := `
		INSERT INTO suggestions (user_id, date, recipe_ids, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO UPDATE
		SET recipe_ids = EXCLUDED.recipe_ids, created_at = EXCLUDED.created_at
		RETURNING id, created_at`

	s.Date = nutrition.DayStart(s.Date)
	s.CreatedAt = time.Now()
	if s.RecipeIDs == nil {
		s.RecipeIDs = []int64{}
	}

	err := r.db.QueryRowContext(ctx, query,
		s.UserID,
		s.Date,
		pq.Array(s.RecipeIDs),
		s.CreatedAt,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to store suggestion: %w", err)
	}

	return s, nil
}
