package repository

import (
	"context"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	// ListLinked returns every user bound to a Telegram account.
	ListLinked(ctx context.Context) ([]*models.User, error)
}

// IngredientRepository defines the interface for the ingredient catalog
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	// GetByIDs returns the ingredients that exist, keyed by id. Unknown ids
	// are simply absent from the map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Ingredient, error)
	List(ctx context.Context, filters CatalogFilters) ([]*models.Ingredient, error)
	Delete(ctx context.Context, id int64) error
}

// RecipeRepository defines the interface for the recipe catalog
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Recipe, error)
	List(ctx context.Context, filters CatalogFilters) ([]*models.Recipe, error)
	// ListByIngredient returns the recipes with a line for ingredientID,
	// ordered by id.
	ListByIngredient(ctx context.Context, ingredientID int64) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

// MealRepository defines the interface for the meal log
type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) (*models.Meal, error)
	GetByID(ctx context.Context, id int64) (*models.Meal, error)
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Meal, error)
	Delete(ctx context.Context, id int64) error
}

// MealPlanRepository defines the interface for daily meal plans
type MealPlanRepository interface {
	// Upsert replaces the plan for (UserID, Date) including its entries.
	Upsert(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.MealPlan, error)
	// ListByUserBetween returns plans with from <= date < to ordered by date,
	// with entry recipes populated. Entries whose recipe no longer exists
	// have a nil Recipe.
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.MealPlan, error)
	Delete(ctx context.Context, userID int64, date time.Time) error
}

// GoalRepository defines the interface for versioned macro goals
type GoalRepository interface {
	// Create stores the goal as the next version for its user.
	Create(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetCurrent(ctx context.Context, userID int64) (*models.Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Goal, error)
}

// SuggestionRepository defines the interface for cached recipe suggestions
type SuggestionRepository interface {
	Get(ctx context.Context, userID int64, date time.Time) (*models.Suggestion, error)
	// Replace stores the suggestion, overwriting any existing one for the day.
	Replace(ctx context.Context, suggestion *models.Suggestion) (*models.Suggestion, error)
}

// CatalogFilters represents filters for listing catalog entries
type CatalogFilters struct {
	Query  string
	Tag    string
	Limit  int
	Offset int
}
