package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveDecrementsAndReturnsNewCount(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(3, productID).
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(7))

	got, err := Reserve(context.Background(), db, StockTarget{Kind: TargetProduct, ID: productID}, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveGuardFailureReportsAvailability(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	// The conditional UPDATE matches nothing, then the current count is read.
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(10, productID).
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}))
	mock.ExpectQuery(`SELECT inventory FROM products`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(4))

	_, err = Reserve(context.Background(), db, StockTarget{Kind: TargetProduct, ID: productID}, 10)
	var oos *OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, 4, oos.Available)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveVariantTargetsVariantRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	variantID := uuid.New()
	mock.ExpectQuery(`UPDATE product_variants`).
		WithArgs(1, variantID).
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(0))

	got, err := Reserve(context.Background(), db, StockTarget{Kind: TargetVariant, ID: variantID}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUntrackedIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	got, err := Reserve(context.Background(), db, StockTarget{Kind: TargetUntracked, ID: uuid.New()}, 99)
	require.NoError(t, err)
	assert.Equal(t, Unlimited, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Reserve(context.Background(), db, StockTarget{Kind: TargetProduct, ID: uuid.New()}, 0)
	assert.Error(t, err)
}

func TestReleaseRestoresStock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectExec(`UPDATE products SET inventory = inventory \+`).
		WithArgs(2, productID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = Release(context.Background(), db, StockTarget{Kind: TargetProduct, ID: productID}, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseMissingTarget(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectExec(`UPDATE products`).
		WithArgs(2, productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = Release(context.Background(), db, StockTarget{Kind: TargetProduct, ID: productID}, 2)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolveStockTargetVariant(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID, variantID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT id FROM product_variants`).
		WithArgs(variantID, productID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(variantID.String()))

	target, err := ResolveStockTarget(context.Background(), db, productID, &variantID)
	require.NoError(t, err)
	assert.Equal(t, TargetVariant, target.Kind)
	assert.Equal(t, variantID, target.ID)
}

func TestResolveStockTargetUntrackedProduct(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectQuery(`SELECT track_inventory FROM products`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"track_inventory"}).AddRow(false))

	target, err := ResolveStockTarget(context.Background(), db, productID, nil)
	require.NoError(t, err)
	assert.Equal(t, TargetUntracked, target.Kind)
}

func TestResolveStockTargetMissingProduct(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productID := uuid.New()
	mock.ExpectQuery(`SELECT track_inventory FROM products`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"track_inventory"}))

	_, err = ResolveStockTarget(context.Background(), db, productID, nil)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
