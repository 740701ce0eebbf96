package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/auth"
	"github.com/Kerhoff/mizan/internal/llm"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Suggester picks recipe names for a user's day
type Suggester interface {
	SuggestRecipes(ctx context.Context, req llm.SuggestRequest) ([]string, error)
}

// Repositories groups the data access dependencies of the Service
type Repositories struct {
	Users       repository.UserRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Meals       repository.MealRepository
	Plans       repository.MealPlanRepository
	Goals       repository.GoalRepository
	Suggestions repository.SuggestionRepository
}

// Options tunes behaviour that comes from configuration
type Options struct {
	Tokens    *auth.TokenManager
	Suggester Suggester
	WeekStart time.Weekday
}

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the HTTP API and the Telegram bot.
type Service struct {
	db        Pinger
	logger    *logrus.Logger
	tokens    *auth.TokenManager
	suggester Suggester
	weekStart time.Weekday

	Users       repository.UserRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Meals       repository.MealRepository
	Plans       repository.MealPlanRepository
	Goals       repository.GoalRepository
	Suggestions repository.SuggestionRepository
}

// New creates a new Service with all required dependencies.
func New(db Pinger, logger *logrus.Logger, repos Repositories, opts Options) *Service {
	return &Service{
		db: db, logger: logger,
		tokens: opts.Tokens, suggester: opts.Suggester, weekStart: opts.WeekStart,
		Users: repos.Users, Ingredients: repos.Ingredients, Recipes: repos.Recipes,
		Meals: repos.Meals, Plans: repos.Plans, Goals: repos.Goals,
		Suggestions: repos.Suggestions,
	}
}

// Ping checks the database connection
func (s *Service) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// WeekStart returns the configured first day of the week
func (s *Service) WeekStart() time.Weekday {
	return s.weekStart
}

// WeekWindow returns the [from, to) window of the week containing date
func (s *Service) WeekWindow(date time.Time) (time.Time, time.Time) {
	return nutrition.WeekWindow(date, s.weekStart)
}
