package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func allowAll(context.Context, uuid.UUID, string) error { return nil }

func denyAll(context.Context, uuid.UUID, string) error {
	return fmt.Errorf("store does not belong to this seller")
}

func TestSetStockScopedToStoreOwner(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	storeID := uuid.New()

	// The store lookup runs, then the guard rejects; no stock write happens.
	mock.ExpectQuery(`SELECT store_id FROM products WHERE id=\$1`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(storeID.String()))

	svc := NewService(db, denyAll, zap.NewNop())
	_, err = svc.SetStock(context.Background(), uuid.New(), productID.String(), "", 25)
	assert.ErrorContains(t, err, "does not belong")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStockWritesOwnedProduct(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	storeID := uuid.New()

	mock.ExpectQuery(`SELECT store_id FROM products WHERE id=\$1`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(storeID.String()))
	mock.ExpectQuery(`SELECT track_inventory FROM products`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"track_inventory"}).AddRow(true))
	mock.ExpectExec(`UPDATE products SET inventory=\$1`).
		WithArgs(25, productID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewService(db, allowAll, zap.NewNop())
	a, err := svc.SetStock(context.Background(), uuid.New(), productID.String(), "", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, a.Available)
	assert.True(t, a.Tracked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailabilityUnknownProduct(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectQuery(`SELECT store_id FROM products WHERE id=\$1`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}))

	svc := NewService(db, allowAll, zap.NewNop())
	_, err = svc.GetAvailability(context.Background(), uuid.New(), productID.String(), "")
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockScopedToStoreOwner(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectQuery(`SELECT store_id FROM products WHERE id=\$1`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(uuid.New().String()))

	svc := NewService(db, denyAll, zap.NewNop())
	_, err = svc.AdjustStock(context.Background(), uuid.New(), productID.String(), "", -2)
	assert.ErrorContains(t, err, "does not belong")
	assert.NoError(t, mock.ExpectationsWereMet())
}
