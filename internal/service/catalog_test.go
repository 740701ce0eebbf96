package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/mizan/internal/models"
)

func TestCreateRecipe_DerivesTotals(t *testing.T) {
	svc, st := newTestService()
	oats := st.addIngredient("Oats", 40, "g", models.Macros{Calories: 150, Protein: 5, Carbs: 27, Fat: 3, Fiber: 4})
	milk := st.addIngredient("Milk", 100, "ml", models.Macros{Calories: 42, Protein: 3.4, Carbs: 5, Fat: 1})
	cook := &models.User{ID: 5}

	recipe, err := svc.CreateRecipe(context.Background(), cook, RecipeInput{
		Name:     "  Porridge ",
		Servings: 2,
		Tags:     []string{" Breakfast", ""},
		Ingredients: []models.RecipeIngredient{
			{IngredientID: oats.ID, Amount: 80, Unit: "g"},
			{IngredientID: milk.ID, Amount: 300, Unit: "ml"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Porridge", recipe.Name)
	assert.Equal(t, int64(5), recipe.CreatedByID)
	assert.Equal(t, []string{"breakfast"}, recipe.Tags)
	assert.InDelta(t, 300+126, recipe.TotalMacros.Calories, 1e-9)
	assert.InDelta(t, 10+10.2, recipe.TotalMacros.Protein, 1e-9)
	assert.InDelta(t, 213, recipe.PerServing().Calories, 1e-9)
}

func TestUpdateRecipe_RecomputesTotals(t *testing.T) {
	svc, st := newTestService()
	egg := st.addIngredient("Egg", 1, "pc", models.Macros{Calories: 70})
	cook := &models.User{ID: 5}

	recipe, err := svc.CreateRecipe(context.Background(), cook, RecipeInput{
		Name: "Omelette", Servings: 1,
		Ingredients: []models.RecipeIngredient{{IngredientID: egg.ID, Amount: 2, Unit: "pc"}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(context.Background(), cook, recipe.ID, RecipeInput{
		Name: "Big omelette", Servings: 1,
		Ingredients: []models.RecipeIngredient{{IngredientID: egg.ID, Amount: 4, Unit: "pc"}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 280, updated.TotalMacros.Calories, 1e-9)
}

func TestUpdateRecipe_OnlyOwnerOrAdmin(t *testing.T) {
	svc, st := newTestService()
	egg := st.addIngredient("Egg", 1, "pc", models.Macros{Calories: 70})
	in := RecipeInput{Name: "Omelette", Servings: 1,
		Ingredients: []models.RecipeIngredient{{IngredientID: egg.ID, Amount: 2, Unit: "pc"}}}

	recipe, err := svc.CreateRecipe(context.Background(), &models.User{ID: 1}, in)
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(context.Background(), &models.User{ID: 2}, recipe.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateRecipe(context.Background(), &models.User{ID: 3, IsAdmin: true}, recipe.ID, in)
	assert.NoError(t, err)

	err = svc.DeleteRecipe(context.Background(), &models.User{ID: 2}, recipe.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRecipe_ReportsEveryProblem(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateRecipe(context.Background(), &models.User{ID: 1}, RecipeInput{
		Servings:    0,
		Ingredients: []models.RecipeIngredient{{IngredientID: 1, Amount: -1}},
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	for _, want := range []string{"name is required", "servings must be at least 1", "amount must be positive", "unit is required"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestCreateRecipe_UnknownIngredient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateRecipe(context.Background(), &models.User{ID: 1}, RecipeInput{
		Name: "Mystery", Servings: 1,
		Ingredients: []models.RecipeIngredient{{IngredientID: 77, Amount: 1, Unit: "g"}},
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "unknown ingredient 77")
}

func TestCreateIngredient_AdminOnly(t *testing.T) {
	svc, _ := newTestService()
	ing := &models.Ingredient{Name: "Salt", ServingSize: 1, ServingUnit: "g"}

	_, err := svc.CreateIngredient(context.Background(), &models.User{ID: 1}, ing)
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := svc.CreateIngredient(context.Background(), &models.User{ID: 1, IsAdmin: true}, ing)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.CreateIngredient(context.Background(), &models.User{ID: 1, IsAdmin: true},
		&models.Ingredient{Name: "Bad", ServingSize: 0, ServingUnit: "g", Macros: models.Macros{Fat: -1}})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "serving_size must be positive")
	assert.Contains(t, err.Error(), "macros must not be negative")
}

func TestDeleteIngredient_Missing(t *testing.T) {
	svc, _ := newTestService()
	err := svc.DeleteIngredient(context.Background(), &models.User{IsAdmin: true}, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIngredient_RecomputesRecipeTotals(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	admin := &models.User{ID: 1, IsAdmin: true}
	flour := st.addIngredient("Flour", 100, "g", models.Macros{Calories: 350})
	sugar := st.addIngredient("Sugar", 100, "g", models.Macros{Calories: 400})

	cake, err := svc.CreateRecipe(ctx, admin, RecipeInput{
		Name: "Cake", Servings: 1,
		Ingredients: []models.RecipeIngredient{
			{IngredientID: flour.ID, Amount: 100, Unit: "g"},
			{IngredientID: sugar.ID, Amount: 100, Unit: "g"},
		},
	})
	require.NoError(t, err)
	require.InDelta(t, 750, cake.TotalMacros.Calories, 1e-9)

	date := day(2024, 3, 4)
	_, err = svc.SavePlan(ctx, 7, date, []PlanEntryInput{
		{RecipeID: cake.ID, Servings: 2, MealTime: models.MealTimeDinner},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIngredient(ctx, admin, sugar.ID))

	got, err := svc.GetRecipe(ctx, cake.ID)
	require.NoError(t, err)
	assert.InDelta(t, 350, got.TotalMacros.Calories, 1e-9)
	assert.Len(t, got.Ingredients, 2, "dangling line is kept")

	plan, err := svc.GetPlan(ctx, 7, date, true)
	require.NoError(t, err)
	assert.InDelta(t, 700, plan.Macros.Calories, 1e-9)
}
