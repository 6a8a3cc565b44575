package cart

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a customer's cart, joined with a display snapshot
// of the product and variant it references. At most one row exists per
// (customer, store, product, variant) tuple; repeated adds increment it.
type CartItem struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	StoreID    uuid.UUID  `json:"store_id"`
	ProductID  uuid.UUID  `json:"product_id"`
	VariantID  *uuid.UUID `json:"variant_id,omitempty"`
	Quantity   int        `json:"quantity"`

	// Snapshot fields, populated on reads for display and totals.
	ProductName string  `json:"product_name,omitempty"`
	VariantName string  `json:"variant_name,omitempty"`
	UnitPrice   float64 `json:"unit_price"` // variant price override when present, else product price
	ImageURL    string  `json:"image_url,omitempty"`
	Available   int     `json:"available"` // current stock, -1 when untracked

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cart is the customer-facing view: the lines plus totals recomputed on
// every read, never persisted.
type Cart struct {
	Items     []*CartItem `json:"items"`
	ItemCount int         `json:"item_count"`
	Subtotal  float64     `json:"subtotal"`
	Tax       float64     `json:"tax"`
	Shipping  float64     `json:"shipping"`
	Total     float64     `json:"total"`
	Currency  string      `json:"currency"`
}

// StoreSettings are the per-store knobs that drive cart totals.
type StoreSettings struct {
	Currency              string
	TaxRate               float64
	FlatShippingRate      float64
	FreeShippingThreshold float64
}
