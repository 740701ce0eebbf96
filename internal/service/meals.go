package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
)

// MealInput describes a consumption event to log
type MealInput struct {
	Name     string
	MealType models.MealType
	Macros   models.Macros
	EatenAt  time.Time
}

// DailySummary compares a day's logged meals with the current goal
type DailySummary struct {
	Date      string         `json:"date"`
	Consumed  models.Macros  `json:"consumed"`
	Goal      *models.Goal   `json:"goal"`
	Remaining *models.Macros `json:"remaining"`
	Meals     []*models.Meal `json:"meals"`
}

// LogMeal records a meal for the user. EatenAt defaults to now.
func (s *Service) LogMeal(ctx context.Context, userID int64, in MealInput) (*models.Meal, error) {
	meal := &models.Meal{
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		MealType: in.MealType,
		Macros:   in.Macros,
		EatenAt:  in.EatenAt,
	}
	if meal.MealType == "" {
		meal.MealType = models.MealTypeMeal
	}

	var v validation
	v.check(meal.Name != "", "name is required")
	v.check(meal.MealType.Valid(), "meal_type must be one of meal, snack, drink")
	checkMacros(&v, meal.Macros)
	if err := v.err(); err != nil {
		return nil, err
	}

	return s.Meals.Create(ctx, meal)
}

// ListMeals returns the meals logged on the day containing date.
func (s *Service) ListMeals(ctx context.Context, userID int64, date time.Time) ([]*models.Meal, error) {
	from, to := nutrition.DayWindow(date)
	return s.Meals.ListByUserBetween(ctx, userID, from, to)
}

// DeleteMeal removes one of the user's meals.
func (s *Service) DeleteMeal(ctx context.Context, userID, mealID int64) error {
	meal, err := s.Meals.GetByID(ctx, mealID)
	if err != nil {
		return err
	}
	if meal == nil || meal.UserID != userID {
		return fmt.Errorf("%w: meal %d", ErrNotFound, mealID)
	}
	return fromRepo(s.Meals.Delete(ctx, mealID))
}

// Summary totals the day's meals against the current goal.
func (s *Service) Summary(ctx context.Context, userID int64, date time.Time) (*DailySummary, error) {
	meals, err := s.ListMeals(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	goal, err := s.Goals.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:     date.Format(nutrition.DateLayout),
		Consumed: nutrition.MealsMacros(meals),
		Goal:     goal,
		Meals:    meals,
	}
	if goal != nil {
		remaining := goal.Macros.Sub(summary.Consumed)
		summary.Remaining = &remaining
	}
	return summary, nil
}
