package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "available", "created_at", "updated_at"})
}

func TestRepository_GetItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, price, available").
			WithArgs(int64(7)).
			WillReturnRows(itemRows().AddRow(7, "Pizza", 10.00, true, time.Now(), time.Now()))

		item, err := repo.GetItem(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, "Pizza", item.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, price, available").
			WithArgs(int64(99)).
			WillReturnRows(itemRows())

		_, err := repo.GetItem(context.Background(), 99)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRepository_UpdateItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := UpdateItemParams{ID: 7, Name: "Pizza Margherita", Price: 11.50}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE food_items").
			WithArgs(params.Name, params.Price, params.ID).
			WillReturnRows(itemRows().AddRow(7, params.Name, params.Price, true, time.Now(), time.Now()))

		item, err := repo.UpdateItem(context.Background(), params)
		assert.NoError(t, err)
		assert.Equal(t, 11.50, item.Price)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("UPDATE food_items").
			WillReturnError(errors.New("db error"))

		_, err := repo.UpdateItem(context.Background(), params)
		assert.Error(t, err)
	})
}
