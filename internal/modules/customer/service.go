package customer

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer mints customer-scoped auth tokens. Implemented by the auth module.
type TokenIssuer interface {
	CustomerToken(customerID, storeID uuid.UUID) (string, error)
}

// Session is a customer identity plus the token that proves it.
type Session struct {
	Customer *Customer `json:"customer"`
	Token    string    `json:"token"`
}

// Service defines the interface for store customer business logic.
type Service interface {
	// RegisterCustomer creates a registered customer for the store.
	RegisterCustomer(ctx context.Context, storeID uuid.UUID, email, password, name string) (*Session, error)

	// CreateGuest creates an anonymous customer row so an unauthenticated
	// shopper can hold a cart. The returned token works like any other.
	CreateGuest(ctx context.Context, storeID uuid.UUID) (*Session, error)

	// ClaimGuest upgrades the calling guest to a registered customer,
	// keeping their cart.
	ClaimGuest(ctx context.Context, customerID uuid.UUID, email, password, name string) (*Customer, error)

	GetCustomer(ctx context.Context, id string) (*Customer, error)
}
