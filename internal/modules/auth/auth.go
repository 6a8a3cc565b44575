package auth

import (
	"context"

	"github.com/google/uuid"
)

// Audience values distinguish the two token kinds.
const (
	AudienceSeller   = "seller"
	AudienceCustomer = "customer"
)

// Service defines the interface for authentication-related business logic.
// It is the single place identity is established; everything downstream
// receives explicit ids, never cookies or headers.
type Service interface {
	// SellerLogin verifies seller credentials and returns a signed token.
	SellerLogin(ctx context.Context, email, password string) (string, error)

	// CustomerLogin verifies store-scoped customer credentials and returns
	// a signed token carrying both the customer and store identity.
	CustomerLogin(ctx context.Context, storeID uuid.UUID, email, password string) (string, error)

	// CustomerToken mints a token for an already-verified customer,
	// used when registering or creating a guest session.
	CustomerToken(customerID, storeID uuid.UUID) (string, error)
}
