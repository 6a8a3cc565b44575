package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TargetKind says which row backs the stock for a cart line.
type TargetKind string

const (
	// TargetProduct: the product's own inventory column is authoritative.
	TargetProduct TargetKind = "product"
	// TargetVariant: the variant's inventory column is authoritative; the
	// parent product's inventory is ignored.
	TargetVariant TargetKind = "variant"
	// TargetUntracked: the product does not track inventory; reserve and
	// release are no-ops and availability is unlimited.
	TargetUntracked TargetKind = "untracked"
)

// StockTarget is the resolved backing row for a (product, variant?) pair.
// Exactly one concrete field backs the stock; every ledger operation goes
// through this resolution so the variant/product duality lives in one place.
type StockTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}

// Unlimited is the availability reported for untracked targets.
const Unlimited = -1

// ErrOutOfStock is the sentinel wrapped by OutOfStockError.
var ErrOutOfStock = errors.New("out of stock")

// ErrTargetNotFound is returned when the product or variant does not exist.
var ErrTargetNotFound = errors.New("stock target not found")

// OutOfStockError reports a failed reservation along with how many units
// are actually available, so callers can surface the count to the shopper.
type OutOfStockError struct {
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

// Availability is the seller-facing view of a stock target.
type Availability struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Available int        `json:"available"` // -1 when untracked
	Tracked   bool       `json:"tracked"`
}
