package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines store customer data storage.
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, storeID uuid.UUID, email string) (*Customer, error)
	// ClaimGuest attaches credentials to an existing guest row, converting it
	// into a registered customer.
	ClaimGuest(ctx context.Context, id uuid.UUID, email, passwordHash, name string) error
}
