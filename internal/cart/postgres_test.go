package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineCols = []string{"id", "product_id", "quantity"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresStore_Lines(t *testing.T) {
	mock := newMock(t)
	store := NewPostgresStore(mock)

	mock.ExpectQuery(`SELECT id, product_id, quantity FROM cart_items ORDER BY id`).
		WillReturnRows(mock.NewRows(lineCols).
			AddRow(int64(1), int64(4), 2).
			AddRow(int64(3), int64(7), 1))

	lines, err := store.Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Line{{ID: 1, ProductID: 4, Quantity: 2}, {ID: 3, ProductID: 7, Quantity: 1}}, lines)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AddQuantityUpserts(t *testing.T) {
	mock := newMock(t)
	store := NewPostgresStore(mock)

	mock.ExpectQuery(`ON CONFLICT \(product_id\) DO UPDATE\s+SET quantity = cart_items.quantity \+ EXCLUDED.quantity`).
		WithArgs(int64(4), 3, MaxQuantity).
		WillReturnRows(mock.NewRows(lineCols).AddRow(int64(1), int64(4), 5))

	line, err := store.AddQuantity(context.Background(), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, Line{ID: 1, ProductID: 4, Quantity: 5}, line)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AddQuantityLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("merged sum over the limit", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery(`WHERE cart_items.quantity \+ EXCLUDED.quantity <= \$3`).
			WithArgs(int64(4), 2, MaxQuantity).
			WillReturnError(pgx.ErrNoRows)

		_, err := store.AddQuantity(ctx, 4, 2)
		assert.ErrorIs(t, err, ErrQuantityLimit)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("single add over the limit never reaches the database", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		_, err := store.AddQuantity(ctx, 4, MaxQuantity+1)
		assert.ErrorIs(t, err, ErrQuantityLimit)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery(`UPDATE cart_items SET quantity = \$2 WHERE id = \$1`).
			WithArgs(int64(1), 9).
			WillReturnRows(mock.NewRows(lineCols).AddRow(int64(1), int64(4), 9))

		line, err := store.SetQuantity(ctx, 1, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, line.Quantity)
	})

	t.Run("missing line", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery(`UPDATE cart_items`).
			WithArgs(int64(42), 1).
			WillReturnError(pgx.ErrNoRows)

		_, err := store.SetQuantity(ctx, 42, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresStore_Remove(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	store := NewPostgresStore(mock)

	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, store.Remove(ctx, 1))
	assert.ErrorIs(t, store.Remove(ctx, 1), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("reports deleted rows", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		mock.ExpectExec(`DELETE FROM cart_items`).WillReturnResult(pgxmock.NewResult("DELETE", 3))

		n, err := store.Clear(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("wraps driver error", func(t *testing.T) {
		mock := newMock(t)
		store := NewPostgresStore(mock)

		cause := errors.New("connection reset")
		mock.ExpectExec(`DELETE FROM cart_items`).WillReturnError(cause)

		_, err := store.Clear(ctx)
		assert.ErrorIs(t, err, cause)
	})
}
