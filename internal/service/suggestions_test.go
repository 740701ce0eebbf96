package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/mizan/internal/llm"
	"github.com/Kerhoff/mizan/internal/models"
)

func recipeIDs(rs []*models.Recipe) []int64 {
	ids := make([]int64, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func TestDailySuggestions_UsesModelAndCaches(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	pancakes := st.addRecipe("Pancakes", 2)
	salad := st.addRecipe("Salad", 1)
	st.addRecipe("Soup", 1)
	st.suggester.names = []string{"salad", "Unknown dish", "PANCAKES", "Salad"}
	_, err := svc.SetGoal(ctx, 1, models.Macros{Calories: 2100})
	require.NoError(t, err)

	sug, err := svc.DailySuggestions(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, []int64{salad.ID, pancakes.ID}, sug.RecipeIDs)
	assert.Equal(t, []int64{salad.ID, pancakes.ID}, recipeIDs(sug.Recipes))
	assert.Equal(t, []string{"Pancakes", "Salad", "Soup"}, st.suggester.last.Candidates)
	require.NotNil(t, st.suggester.last.Goal)
	assert.InDelta(t, 2100, st.suggester.last.Goal.Calories, 1e-9)

	again, err := svc.DailySuggestions(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, st.suggester.calls)
	assert.Equal(t, sug.RecipeIDs, again.RecipeIDs)
	assert.Len(t, again.Recipes, 2)
}

func TestRegenerateSuggestions_AlwaysCallsModel(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	st.addRecipe("Pancakes", 1)
	soup := st.addRecipe("Soup", 1)
	st.suggester.names = []string{"Soup"}

	_, err := svc.DailySuggestions(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	sug, err := svc.RegenerateSuggestions(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, st.suggester.calls)
	assert.Equal(t, []int64{soup.ID}, sug.RecipeIDs)
}

func TestSuggestions_FallbackWhenModelFails(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	feast := st.addRecipe("Feast", 1)
	feast.TotalMacros = models.Macros{Calories: 1500}
	light := st.addRecipe("Light lunch", 2)
	light.TotalMacros = models.Macros{Calories: 800}
	st.suggester.err = errors.New("boom")
	_, err := svc.SetGoal(ctx, 1, models.Macros{Calories: 1800})
	require.NoError(t, err)

	sug, err := svc.RegenerateSuggestions(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, []int64{light.ID}, sug.RecipeIDs)
}

func TestSuggestions_FallbackWithoutGoalOrModel(t *testing.T) {
	svc, st := newTestService()
	st.suggester.err = llm.ErrNotConfigured
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		st.addRecipe(n, 1)
	}

	sug, err := svc.RegenerateSuggestions(context.Background(), 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Len(t, sug.RecipeIDs, suggestionCount)
	assert.Equal(t, "A", sug.Recipes[0].Name)
}

func TestSuggestions_EmptyCatalog(t *testing.T) {
	svc, st := newTestService()

	sug, err := svc.RegenerateSuggestions(context.Background(), 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Empty(t, sug.RecipeIDs)
	assert.Equal(t, 0, st.suggester.calls)
}
