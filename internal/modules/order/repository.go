package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines order data storage.
type Repository interface {
	// CreateFromCart persists the order and its items and consumes the
	// snapshotted cart rows in one transaction. Stock is not touched:
	// the units were already reserved when they entered the cart. A
	// cart row that no longer matches its snapshotted quantity aborts
	// the transaction with ErrCartChanged.
	CreateFromCart(ctx context.Context, o *Order, lines []CartLine) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrdersByStore returns orders for a store, optionally filtered by status.
	ListOrdersByStore(ctx context.Context, storeID string, status string) ([]*Order, error)

	// ListOrdersByCustomer returns orders placed by a customer.
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// UpdateStatus moves the order from one status to another with a
	// conditional write, returning ErrStaleStatus when the row is no
	// longer in the expected state.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error

	// CancelAndRestock marks the order CANCELLED and releases every
	// line's quantity back to the ledger in the same transaction. The
	// status write is conditional on PENDING or PROCESSING so racing
	// cancels cannot release the stock twice.
	CancelAndRestock(ctx context.Context, o *Order) error
}
