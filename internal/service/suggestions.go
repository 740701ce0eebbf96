package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/mizan/internal/llm"
	"github.com/Kerhoff/mizan/internal/metrics"
	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

const (
	suggestionCount      = 5
	suggestionCatalogCap = 200
)

// DailySuggestions returns the cached suggestion for the user's day, generating
// one when none exists yet.
func (s *Service) DailySuggestions(ctx context.Context, userID int64, date time.Time) (*models.Suggestion, error) {
	cached, err := s.Suggestions.Get(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		if err := s.populateSuggestion(ctx, cached); err != nil {
			return nil, err
		}
		return cached, nil
	}
	return s.RegenerateSuggestions(ctx, userID, date)
}

// RegenerateSuggestions builds a fresh suggestion and replaces the cached one.
func (s *Service) RegenerateSuggestions(ctx context.Context, userID int64, date time.Time) (*models.Suggestion, error) {
	catalog, err := s.Recipes.List(ctx, repository.CatalogFilters{Limit: suggestionCatalogCap})
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	goal, err := s.Goals.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	picked, source := s.pickWithModel(ctx, userID, catalog, goal)
	if len(picked) == 0 {
		picked, source = fallbackPicks(catalog, goal), "fallback"
	}
	metrics.SuggestionRegenerations.WithLabelValues(source).Inc()

	ids := make([]int64, len(picked))
	for i, r := range picked {
		ids[i] = r.ID
	}

	stored, err := s.Suggestions.Replace(ctx, &models.Suggestion{
		UserID:    userID,
		Date:      nutrition.DayStart(date),
		RecipeIDs: ids,
	})
	if err != nil {
		return nil, err
	}
	stored.Recipes = picked
	return stored, nil
}

// pickWithModel asks the suggester and maps its answer back onto the
// catalog. Any failure is logged and yields no picks.
func (s *Service) pickWithModel(ctx context.Context, userID int64, catalog []*models.Recipe, goal *models.Goal) ([]*models.Recipe, string) {
	if s.suggester == nil || len(catalog) == 0 {
		return nil, ""
	}

	req := llm.SuggestRequest{Count: suggestionCount}
	byName := make(map[string]*models.Recipe, len(catalog))
	for _, r := range catalog {
		key := strings.ToLower(r.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = r
			req.Candidates = append(req.Candidates, r.Name)
		}
	}
	if goal != nil {
		req.Goal = &goal.Macros
	}

	names, err := s.suggester.SuggestRecipes(ctx, req)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			s.logger.WithError(err).WithField("user_id", userID).Warn("LLM suggestion failed, using fallback")
		}
		return nil, ""
	}

	picked := []*models.Recipe{}
	seen := make(map[int64]bool)
	for _, n := range names {
		r, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		picked = append(picked, r)
		if len(picked) == suggestionCount {
			break
		}
	}
	return picked, "llm"
}

// fallbackPicks takes the first recipes whose single serving fits in a
// third of the daily calorie goal, or simply the first recipes without one.
func fallbackPicks(catalog []*models.Recipe, goal *models.Goal) []*models.Recipe {
	picked := []*models.Recipe{}
	for _, r := range catalog {
		if goal != nil && goal.Macros.Calories > 0 && r.PerServing().Calories > goal.Macros.Calories/3 {
			continue
		}
		picked = append(picked, r)
		if len(picked) == suggestionCount {
			break
		}
	}
	return picked
}

func (s *Service) populateSuggestion(ctx context.Context, sug *models.Suggestion) error {
	recipes, err := s.Recipes.GetByIDs(ctx, sug.RecipeIDs)
	if err != nil {
		return fmt.Errorf("failed to load suggested recipes: %w", err)
	}
	sug.Recipes = make([]*models.Recipe, 0, len(sug.RecipeIDs))
	for _, id := range sug.RecipeIDs {
		if r, ok := recipes[id]; ok {
			sug.Recipes = append(sug.Recipes, r)
		}
	}
	return nil
}
