// AngelaMos | 2026
// repository_test.go

package item

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func newSQLMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "sqlmock"), mock
}

var cartCols = []string{
	"id", "user_id", "product_id", "quantity", "created_at",
	"product.id", "product.name", "product.description", "product.price",
	"product.stock", "product.image_url", "product.image_public_id",
	"product.category", "product.created_at", "product.updated_at", "product.deleted_at",
}

func TestUpsertCartItemIncrementsOnConflict(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`ON CONFLICT \(user_id, product_id\)\s+DO UPDATE SET quantity = cart_items.quantity \+ EXCLUDED.quantity\s+RETURNING id`).
		WithArgs("new-id", alice, "p1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))

	id, err := repo.UpsertCartItem(context.Background(), "new-id", alice, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
}

func TestUpsertCartItemMissingProduct(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO cart_items`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.UpsertCartItem(context.Background(), "id", alice, "p1", 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLockActiveProductUsesShareLock(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`WHERE id = \$1 AND deleted_at IS NULL\s+FOR SHARE`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.LockActiveProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListCartEmbedsProduct(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`JOIN products p ON p.id = c.product_id\s+WHERE c.user_id = \$1 AND p.deleted_at IS NULL\s+ORDER BY c.created_at DESC`).
		WithArgs(alice).
		WillReturnRows(sqlmock.NewRows(cartCols).AddRow(
			"c1", alice, "p1", 3, now,
			"p1", "Mug", "desc", "4.50", 9, nil, nil, nil, now, now, nil,
		))

	items, err := repo.ListCart(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Mug", items[0].Product.Name)
	assert.Equal(t, "4.5", items[0].Product.Price.String())
}

func TestDeleteCartItemIsOwnerScoped(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1 AND user_id = \$2`).
		WithArgs("c1", bob).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteCartItem(context.Background(), bob, "c1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetCartQuantityCheckViolation(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE cart_items`).
		WithArgs("c1", alice, 0).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	err := repo.SetCartQuantity(context.Background(), alice, "c1", 0)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestInsertWishlistItemIgnoresDuplicates(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectExec(`ON CONFLICT \(user_id, product_id\) DO NOTHING`).
		WithArgs("w1", alice, "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.InsertWishlistItem(context.Background(), "w1", alice, "p1"))
}

func TestUpsertCartItemOverflowIsBadRequest(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO cart_items`).
		WillReturnError(&pgconn.PgError{Code: "22003"})

	_, err := repo.UpsertCartItem(context.Background(), "id", alice, "p1", 2000000000)
	assert.ErrorIs(t, err, core.ErrOutOfRange)

	appErr := core.ToAppError(mapItemError(err, "product"))
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "quantity is too large", appErr.Message)
}
