package cart

import (
	"context"

	"github.com/google/uuid"
)

// AddItemParams identifies the line to add or increment.
type AddItemParams struct {
	CustomerID uuid.UUID
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	Quantity   int
}

// Repository defines cart data storage. Every mutation that changes a
// line's quantity reserves or releases stock in the same transaction as
// the row write; there is no separate check-then-act round trip.
type Repository interface {
	// AddItem reserves Quantity units and upserts the cart row. Returns
	// ErrProductNotFound, or an inventory.OutOfStockError when the
	// reservation guard fails.
	AddItem(ctx context.Context, p AddItemParams) (*CartItem, error)

	// SetQuantity moves a line to an absolute quantity, reserving or
	// releasing the difference. Returns ErrItemNotFound when the row is
	// absent or owned by another customer.
	SetQuantity(ctx context.Context, itemID, customerID uuid.UUID, quantity int) (*CartItem, error)

	// RemoveItem deletes the line and releases its units. Removing an
	// absent line is not an error.
	RemoveItem(ctx context.Context, itemID, customerID uuid.UUID) error

	// Clear removes every line in the customer's cart for the store,
	// releasing all reserved units.
	Clear(ctx context.Context, customerID, storeID uuid.UUID) error

	// ListItems returns the cart lines with product/variant snapshots.
	ListItems(ctx context.Context, customerID, storeID uuid.UUID) ([]*CartItem, error)

	// StoreSettings loads the totals knobs for the store.
	StoreSettings(ctx context.Context, storeID uuid.UUID) (*StoreSettings, error)
}
