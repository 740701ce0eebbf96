package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ingredientRowColumns = []string{
	"id", "name", "serving_size", "serving_unit", "calories", "protein", "carbs", "fat", "fiber", "verified", "created_at",
}

func TestIngredientRepository_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM ingredients WHERE id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(ingredientRowColumns).
			AddRow(int64(1), "Flour", 100.0, "g", 364.0, 10.0, 76.0, 1.0, 2.7, true, now).
			AddRow(int64(3), "Milk", 100.0, "ml", 42.0, 3.4, 5.0, 1.0, 0.0, false, now))

	repo := NewIngredientRepository(db)
	found, err := repo.GetByIDs(context.Background(), []int64{1, 2, 3})

	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Flour", found[1].Name)
	assert.InDelta(t, 364, found[1].Macros.Calories, 1e-9)
	assert.True(t, found[1].Verified)
	assert.Equal(t, "ml", found[3].ServingUnit)
	assert.NotContains(t, found, int64(2))
	require.NoError(t, mock.ExpectationsWereMet())
}
