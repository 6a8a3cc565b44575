package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item in a store's catalog. Products referenced by
// orders are never hard-deleted; archiving sets is_active=false instead.
type Product struct {
	ID           uuid.UUID  `json:"id"`
	StoreID      uuid.UUID  `json:"store_id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	Price        float64    `json:"price"`
	ComparePrice *float64   `json:"compare_price,omitempty"`
	SKU          string     `json:"sku,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`

	// Inventory is the authoritative stock only when TrackInventory is set
	// and the product has no variants; with variants, the variant
	// inventories are the sellable stock and this field is ignored.
	Inventory      int  `json:"inventory"`
	TrackInventory bool `json:"track_inventory"`

	IsActive  bool              `json:"is_active"`
	Variants  []*ProductVariant `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ProductVariant is a purchasable configuration of a product (e.g. size or
// colour) with its own stock and optional price override.
type ProductVariant struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     *float64        `json:"price,omitempty"` // overrides the product price when set
	Inventory int             `json:"inventory"`
	Options   json.RawMessage `json:"options,omitempty"` // open key-value map, e.g. {"size":"M","color":"red"}
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Category groups products within one store.
type Category struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
