package seller

import "context"

// Repository defines seller account data storage.
type Repository interface {
	CreateSeller(ctx context.Context, s *Seller) error
	GetSellerByEmail(ctx context.Context, email string) (*Seller, error)
	GetSellerByID(ctx context.Context, id string) (*Seller, error)
	UpdateSeller(ctx context.Context, s *Seller) error
}
