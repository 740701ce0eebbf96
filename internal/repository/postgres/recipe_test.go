package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/mizan/internal/models"
)

var recipeRowColumns = []string{
	"id", "name", "description", "servings", "instructions", "tags",
	"calories", "protein", "carbs", "fat", "fiber", "created_by_id", "created_at", "updated_at",
}

func newCake() *models.Recipe {
	return &models.Recipe{
		Name:        "Cake",
		Servings:    8,
		CreatedByID: 2,
		TotalMacros: models.Macros{Calories: 750},
		Ingredients: []models.RecipeIngredient{
			{IngredientID: 1, Amount: 100, Unit: "g"},
			{IngredientID: 4, Amount: 2, Unit: "pc"},
		},
	}
}

func TestRecipeRepository_CreateInsertsLinesInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WithArgs(int64(9), 0, int64(1), 100.0, "g").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WithArgs(int64(9), 1, int64(4), 2.0, "pc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	recipe, err := NewRecipeRepository(db).Create(context.Background(), newCake())

	require.NoError(t, err)
	assert.Equal(t, int64(9), recipe.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_CreateRollsBackOnLineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = NewRecipeRepository(db).Create(context.Background(), newCake())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert recipe ingredient")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_ListByIngredient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM recipes\\s+WHERE id IN \\(SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id = \\$1\\)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(recipeRowColumns).
			AddRow(int64(9), "Cake", "", 8.0, "", "{dessert}", 750.0, 10.0, 90.0, 30.0, 2.0, int64(2), now, now))
	mock.ExpectQuery("FROM recipe_ingredients\\s+WHERE recipe_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id", "ingredient_id", "amount", "unit"}).
			AddRow(int64(9), int64(1), 100.0, "g").
			AddRow(int64(9), int64(4), 2.0, "pc"))

	recipes, err := NewRecipeRepository(db).ListByIngredient(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"dessert"}, recipes[0].Tags)
	assert.Equal(t, []models.RecipeIngredient{
		{IngredientID: 1, Amount: 100, Unit: "g"},
		{IngredientID: 4, Amount: 2, Unit: "pc"},
	}, recipes[0].Ingredients)
	require.NoError(t, mock.ExpectationsWereMet())
}
