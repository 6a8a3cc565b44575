package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Order represents a customer's checkout at a store. Payment capture is
// simulated: orders start PENDING and advance through the seller surface.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	StoreID         uuid.UUID       `json:"store_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	OrderNumber     string          `json:"order_number"`
	Status          OrderStatus     `json:"status"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	Currency        string          `json:"currency"`
	Notes           string          `json:"notes,omitempty"`
	ShippingAddress json.RawMessage `json:"shipping_address,omitempty"`
	Items           []*OrderItem    `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a single line item within an order, snapshotting the price
// and names at checkout time.
type OrderItem struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"order_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	ProductName string     `json:"product_name"`
	VariantName string     `json:"variant_name,omitempty"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	LineTotal   float64    `json:"line_total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CartLine identifies a cart row consumed by checkout, at the quantity
// the order snapshot was built from.
type CartLine struct {
	ID       uuid.UUID
	Quantity int
}

// CheckoutRequest is the payload for converting a cart into an order.
type CheckoutRequest struct {
	Notes           string          `json:"notes,omitempty"`
	ShippingAddress json.RawMessage `json:"shipping_address,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
