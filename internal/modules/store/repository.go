package store

import "context"

// Repository defines store data storage.
type Repository interface {
	CreateStore(ctx context.Context, s *Store) error
	GetStoreByID(ctx context.Context, id string) (*Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (*Store, error)
	ListStoresByOwner(ctx context.Context, ownerID string) ([]*Store, error)
	UpdateStore(ctx context.Context, s *Store) error
	SetActive(ctx context.Context, id string, active bool) error
}
