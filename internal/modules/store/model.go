package store

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a seller-owned storefront tenant. All catalog, cart and
// order data is scoped to one store.
type Store struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Currency    string    `json:"currency"`

	// Display-time totals knobs, seeded from platform defaults.
	TaxRate               float64 `json:"tax_rate"`
	FlatShippingRate      float64 `json:"flat_shipping_rate"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
