package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// AddItem runs the reservation and the row upsert inside one transaction.
// The conditional stock decrement is the serialization point: of two
// concurrent adds for the last unit, exactly one commits.
func (r *postgresRepo) AddItem(ctx context.Context, p AddItemParams) (*CartItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var trackInventory bool
	err = tx.QueryRowContext(ctx, `
		SELECT track_inventory FROM products
		WHERE id=$1 AND store_id=$2 AND is_active=true`,
		p.ProductID, p.StoreID).Scan(&trackInventory)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	target, err := inventory.ResolveStockTarget(ctx, tx, p.ProductID, p.VariantID)
	if errors.Is(err, inventory.ErrTargetNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := inventory.Reserve(ctx, tx, target, p.Quantity); err != nil {
		return nil, err
	}

	item := &CartItem{
		CustomerID: p.CustomerID,
		StoreID:    p.StoreID,
		ProductID:  p.ProductID,
		VariantID:  p.VariantID,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO cart_items (id, customer_id, store_id, product_id, variant_id, quantity)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (customer_id, product_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`,
		uuid.New(), p.CustomerID, p.StoreID, p.ProductID, p.VariantID, p.Quantity).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, itemID, customerID uuid.UUID, quantity int) (*CartItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item := &CartItem{ID: itemID, CustomerID: customerID}
	var current int
	err = tx.QueryRowContext(ctx, `
		SELECT product_id, variant_id, store_id, quantity
		FROM cart_items
		WHERE id=$1 AND customer_id=$2
		FOR UPDATE`,
		itemID, customerID).
		Scan(&item.ProductID, &item.VariantID, &item.StoreID, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	if quantity != current {
		target, err := inventory.ResolveStockTarget(ctx, tx, item.ProductID, item.VariantID)
		if err != nil {
			return nil, err
		}
		if delta := quantity - current; delta > 0 {
			if _, err := inventory.Reserve(ctx, tx, target, delta); err != nil {
				return nil, err
			}
		} else {
			if err := inventory.Release(ctx, tx, target, -delta); err != nil {
				return nil, err
			}
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE cart_items SET quantity=$1, updated_at=NOW() WHERE id=$2`,
			quantity, itemID); err != nil {
			return nil, err
		}
	}
	item.Quantity = quantity

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, itemID, customerID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var productID uuid.UUID
	var variantID *uuid.UUID
	var quantity int
	err = tx.QueryRowContext(ctx, `
		SELECT product_id, variant_id, quantity
		FROM cart_items
		WHERE id=$1 AND customer_id=$2
		FOR UPDATE`,
		itemID, customerID).Scan(&productID, &variantID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		// Idempotent: removing an absent line is success.
		return nil
	}
	if err != nil {
		return err
	}

	target, err := inventory.ResolveStockTarget(ctx, tx, productID, variantID)
	if err != nil {
		return err
	}
	if err := inventory.Release(ctx, tx, target, quantity); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id=$1`, itemID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Clear(ctx context.Context, customerID, storeID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, variant_id, quantity
		FROM cart_items
		WHERE customer_id=$1 AND store_id=$2
		FOR UPDATE`,
		customerID, storeID)
	if err != nil {
		return err
	}

	type line struct {
		productID uuid.UUID
		variantID *uuid.UUID
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.variantID, &l.quantity); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		target, err := inventory.ResolveStockTarget(ctx, tx, l.productID, l.variantID)
		if err != nil {
			return err
		}
		if err := inventory.Release(ctx, tx, target, l.quantity); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE customer_id=$1 AND store_id=$2`,
		customerID, storeID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) ListItems(ctx context.Context, customerID, storeID uuid.UUID) ([]*CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.customer_id, ci.store_id, ci.product_id, ci.variant_id, ci.quantity,
		       p.name, COALESCE(v.name, ''), COALESCE(v.price, p.price), p.image_url,
		       CASE WHEN ci.variant_id IS NOT NULL THEN v.inventory
		            WHEN p.track_inventory THEN p.inventory
		            ELSE -1 END,
		       ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_variants v ON v.id = ci.variant_id
		WHERE ci.customer_id=$1 AND ci.store_id=$2
		ORDER BY ci.created_at`,
		customerID, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		item := &CartItem{}
		if err := rows.Scan(&item.ID, &item.CustomerID, &item.StoreID,
			&item.ProductID, &item.VariantID, &item.Quantity,
			&item.ProductName, &item.VariantName, &item.UnitPrice, &item.ImageURL,
			&item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) StoreSettings(ctx context.Context, storeID uuid.UUID) (*StoreSettings, error) {
	s := &StoreSettings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT currency, tax_rate, flat_shipping_rate, free_shipping_threshold
		FROM stores WHERE id=$1`, storeID).
		Scan(&s.Currency, &s.TaxRate, &s.FlatShippingRate, &s.FreeShippingThreshold)
	if err != nil {
		return nil, err
	}
	return s, nil
}
