package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
)

// PlanEntryInput schedules one recipe in a day's plan
type PlanEntryInput struct {
	RecipeID int64
	Servings float64
	MealTime models.MealTime
}

// SavePlan replaces the user's plan for date. Entries keep the given order
// and the plan's macros are pre-aggregated from the referenced recipes.
func (s *Service) SavePlan(ctx context.Context, userID int64, date time.Time, entries []PlanEntryInput) (*models.MealPlan, error) {
	var v validation
	ids := make([]int64, 0, len(entries))
	for i, e := range entries {
		v.check(e.Servings > 0, "entries[%d]: servings must be positive", i)
		v.check(e.MealTime.Valid(), "entries[%d]: meal_time must be one of breakfast, lunch, dinner, snack", i)
		ids = append(ids, e.RecipeID)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	recipes, err := s.Recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	plan := &models.MealPlan{
		UserID:  userID,
		Date:    nutrition.DayStart(date),
		Entries: make([]models.MealPlanEntry, 0, len(entries)),
	}
	for i, e := range entries {
		recipe := recipes[e.RecipeID]
		v.check(recipe != nil, "entries[%d]: unknown recipe %d", i, e.RecipeID)
		plan.Entries = append(plan.Entries, models.MealPlanEntry{
			RecipeID: e.RecipeID,
			Servings: e.Servings,
			MealTime: e.MealTime,
			Position: i,
			Recipe:   recipe,
		})
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	plan.Macros = nutrition.PlanMacros(plan.Entries)

	saved, err := s.Plans.Upsert(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    plan.Date.Format(nutrition.DateLayout),
		"entries": len(plan.Entries),
	}).Info("Saved meal plan")
	return saved, nil
}

// GetPlan returns the user's plan for date. With recompute the stored
// aggregate is replaced by one derived from the current recipes.
func (s *Service) GetPlan(ctx context.Context, userID int64, date time.Time, recompute bool) (*models.MealPlan, error) {
	plan, err := s.Plans.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: no meal plan for %s", ErrNotFound, date.Format(nutrition.DateLayout))
	}
	if recompute {
		plan.Macros = nutrition.PlanMacros(plan.Entries)
	}
	return plan, nil
}

// WeekPlans returns every plan in the week containing date, ordered by day.
func (s *Service) WeekPlans(ctx context.Context, userID int64, date time.Time, recompute bool) ([]*models.MealPlan, error) {
	from, to := s.WeekWindow(date)
	plans, err := s.Plans.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if recompute {
		for _, p := range plans {
			p.Macros = nutrition.PlanMacros(p.Entries)
		}
	}
	return plans, nil
}

// DeletePlan removes the user's plan for date.
func (s *Service) DeletePlan(ctx context.Context, userID int64, date time.Time) error {
	return fromRepo(s.Plans.Delete(ctx, userID, date))
}
