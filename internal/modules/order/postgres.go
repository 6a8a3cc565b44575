package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateFromCart(ctx context.Context, o *Order, lines []CartLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, store_id, customer_id, order_number, status,
		   subtotal, tax, shipping, total, currency, notes, shipping_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.StoreID, o.CustomerID, o.OrderNumber, o.Status,
		o.Subtotal, o.Tax, o.Shipping, o.Total, o.Currency, o.Notes,
		nullableJSON(o.ShippingAddress))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, variant_id, product_name, variant_name,
			   quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, o.ID, item.ProductID, item.VariantID,
			item.ProductName, item.VariantName,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	// Only the snapshotted rows are consumed, and only at the quantity
	// the totals were computed from; their reservation stays with the
	// order. A row that moved since the snapshot aborts the checkout.
	for _, line := range lines {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM cart_items WHERE id=$1 AND customer_id=$2 AND quantity=$3`,
			line.ID, o.CustomerID, line.Quantity)
		if err != nil {
			return fmt.Errorf("consume cart: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrCartChanged
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) CancelAndRestock(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The conditional write comes first: it takes the row lock, so a
	// racing cancel blocks here, then matches zero rows and aborts
	// without releasing the stock a second time.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status IN ($3,$4)`,
		StatusCancelled, o.ID, StatusPending, StatusProcessing)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotCancellable
	}

	for _, item := range o.Items {
		target, err := inventory.ResolveStockTarget(ctx, tx, item.ProductID, item.VariantID)
		if err != nil {
			return fmt.Errorf("restock %s: %w", item.ProductID, err)
		}
		if err := inventory.Release(ctx, tx, target, item.Quantity); err != nil {
			return fmt.Errorf("restock %s: %w", item.ProductID, err)
		}
	}

	return tx.Commit()
}

const orderColumns = `id, store_id, customer_id, order_number, status,
	subtotal, tax, shipping, total, currency, notes, shipping_address, created_at, updated_at`

func (r *postgresRepo) scanOrder(row *sql.Row) (*Order, error) {
	o := &Order{}
	var addr []byte
	err := row.Scan(&o.ID, &o.StoreID, &o.CustomerID, &o.OrderNumber, &o.Status,
		&o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.Currency, &o.Notes,
		&addr, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if addr != nil {
		o.ShippingAddress = addr
	}
	return o, nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrdersByStore(ctx context.Context, storeID string, status string) ([]*Order, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id=$1`
	args := []interface{}{sid}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.listOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`,
		customerID)
}

func (r *postgresRepo) listOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{}
		var addr []byte
		if err := rows.Scan(&o.ID, &o.StoreID, &o.CustomerID, &o.OrderNumber, &o.Status,
			&o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.Currency, &o.Notes,
			&addr, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if addr != nil {
			o.ShippingAddress = addr
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, product_name, variant_name,
		       quantity, unit_price, line_total, created_at, updated_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID,
			&item.ProductName, &item.VariantName,
			&item.Quantity, &item.UnitPrice, &item.LineTotal,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		to, uid, from)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrStaleStatus
	}
	return nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
