package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Querier is the subset of *sql.DB and *sql.Tx the ledger needs. Cart and
// order repositories pass their open transaction here so the stock guard
// and their row writes commit or abort together.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ResolveStockTarget decides which row backs the stock for the given
// product/variant pair. Returns ErrTargetNotFound if the product (or the
// variant under that product) does not exist.
func ResolveStockTarget(ctx context.Context, q Querier, productID uuid.UUID, variantID *uuid.UUID) (StockTarget, error) {
	if variantID != nil {
		var id uuid.UUID
		err := q.QueryRowContext(ctx, `
			SELECT id FROM product_variants WHERE id=$1 AND product_id=$2`,
			*variantID, productID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return StockTarget{}, ErrTargetNotFound
		}
		if err != nil {
			return StockTarget{}, err
		}
		return StockTarget{Kind: TargetVariant, ID: id}, nil
	}

	var tracked bool
	err := q.QueryRowContext(ctx,
		`SELECT track_inventory FROM products WHERE id=$1`, productID).Scan(&tracked)
	if errors.Is(err, sql.ErrNoRows) {
		return StockTarget{}, ErrTargetNotFound
	}
	if err != nil {
		return StockTarget{}, err
	}
	if !tracked {
		return StockTarget{Kind: TargetUntracked, ID: productID}, nil
	}
	return StockTarget{Kind: TargetProduct, ID: productID}, nil
}

// GetAvailable returns the units currently available for the target,
// or Unlimited for untracked targets.
func GetAvailable(ctx context.Context, q Querier, t StockTarget) (int, error) {
	var available int
	var err error
	switch t.Kind {
	case TargetUntracked:
		return Unlimited, nil
	case TargetVariant:
		err = q.QueryRowContext(ctx,
			`SELECT inventory FROM product_variants WHERE id=$1`, t.ID).Scan(&available)
	case TargetProduct:
		err = q.QueryRowContext(ctx,
			`SELECT inventory FROM products WHERE id=$1`, t.ID).Scan(&available)
	default:
		return 0, fmt.Errorf("unknown stock target kind %q", t.Kind)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTargetNotFound
	}
	if err != nil {
		return 0, err
	}
	return available, nil
}

// Reserve atomically decrements available stock by qty and returns the new
// availability. The decrement and its guard are one conditional UPDATE, so
// two concurrent reservations of the last unit cannot both succeed: the
// statement that matches no row loses, and the caller gets an
// OutOfStockError carrying the current count.
func Reserve(ctx context.Context, q Querier, t StockTarget, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}
	if t.Kind == TargetUntracked {
		return Unlimited, nil
	}

	var query string
	switch t.Kind {
	case TargetVariant:
		query = `UPDATE product_variants
			SET inventory = inventory - $1, updated_at = NOW()
			WHERE id = $2 AND inventory >= $1
			RETURNING inventory`
	case TargetProduct:
		query = `UPDATE products
			SET inventory = inventory - $1, updated_at = NOW()
			WHERE id = $2 AND inventory >= $1
			RETURNING inventory`
	default:
		return 0, fmt.Errorf("unknown stock target kind %q", t.Kind)
	}

	var newAvailable int
	err := q.QueryRowContext(ctx, query, qty, t.ID).Scan(&newAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		// Guard failed: either not enough stock or the row is gone.
		available, aerr := GetAvailable(ctx, q, t)
		if aerr != nil {
			return 0, aerr
		}
		return 0, &OutOfStockError{Available: available}
	}
	if err != nil {
		return 0, err
	}
	return newAvailable, nil
}

// Release returns qty units to the pool, used when a cart line is removed
// or reduced, or an order is cancelled.
func Release(ctx context.Context, q Querier, t StockTarget, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("release quantity must be positive, got %d", qty)
	}
	if t.Kind == TargetUntracked {
		return nil
	}

	var query string
	switch t.Kind {
	case TargetVariant:
		query = `UPDATE product_variants SET inventory = inventory + $1, updated_at = NOW() WHERE id = $2`
	case TargetProduct:
		query = `UPDATE products SET inventory = inventory + $1, updated_at = NOW() WHERE id = $2`
	default:
		return fmt.Errorf("unknown stock target kind %q", t.Kind)
	}

	res, err := q.ExecContext(ctx, query, qty, t.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrTargetNotFound
	}
	return nil
}
