package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotOwner rejects seller requests against a store owned by someone else.
var ErrNotOwner = errors.New("store does not belong to this seller")

// OwnershipGuard builds the check the catalog, inventory, and order
// surfaces use to scope seller requests to stores the seller owns.
func OwnershipGuard(repo Repository) func(ctx context.Context, sellerID uuid.UUID, storeID string) error {
	return func(ctx context.Context, sellerID uuid.UUID, storeID string) error {
		st, err := repo.GetStoreByID(ctx, storeID)
		if err != nil {
			return err
		}
		if st.OwnerID != sellerID {
			return ErrNotOwner
		}
		return nil
	}
}

// Defaults are platform-wide settings applied to newly created stores.
type Defaults struct {
	Currency              string
	TaxRate               float64
	FlatShippingRate      float64
	FreeShippingThreshold float64
}

// Service defines store business logic.
type Service interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*Store, error)
	GetStore(ctx context.Context, id string, ownerID uuid.UUID) (*Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (*Store, error)
	ListStores(ctx context.Context, ownerID string) ([]*Store, error)
	UpdateStore(ctx context.Context, id string, ownerID uuid.UUID, req UpdateStoreRequest) (*Store, error)
	SetActive(ctx context.Context, id string, ownerID uuid.UUID, active bool) error
}

// CreateStoreRequest holds data for creating a store.
type CreateStoreRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Currency    string `json:"currency"`
}

// UpdateStoreRequest holds mutable store settings. Pointer fields are
// applied only when present.
type UpdateStoreRequest struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	LogoURL               string   `json:"logo_url"`
	Currency              string   `json:"currency"`
	TaxRate               *float64 `json:"tax_rate"`
	FlatShippingRate      *float64 `json:"flat_shipping_rate"`
	FreeShippingThreshold *float64 `json:"free_shipping_threshold"`
}

type service struct {
	repo     Repository
	defaults Defaults
}

// NewService creates a new store service.
func NewService(repo Repository, defaults Defaults) Service {
	return &service{repo: repo, defaults: defaults}
}

func (s *service) CreateStore(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*Store, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaults.Currency
	}
	st := &Store{
		ID:                    uuid.New(),
		OwnerID:               ownerID,
		Name:                  req.Name,
		Slug:                  slug,
		Description:           req.Description,
		LogoURL:               req.LogoURL,
		Currency:              currency,
		TaxRate:               s.defaults.TaxRate,
		FlatShippingRate:      s.defaults.FlatShippingRate,
		FreeShippingThreshold: s.defaults.FreeShippingThreshold,
		IsActive:              true,
	}
	if err := s.repo.CreateStore(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetStore(ctx context.Context, id string, ownerID uuid.UUID) (*Store, error) {
	st, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return st, nil
}

func (s *service) GetStoreBySlug(ctx context.Context, slug string) (*Store, error) {
	return s.repo.GetStoreBySlug(ctx, slug)
}

func (s *service) ListStores(ctx context.Context, ownerID string) ([]*Store, error) {
	return s.repo.ListStoresByOwner(ctx, ownerID)
}

func (s *service) UpdateStore(ctx context.Context, id string, ownerID uuid.UUID, req UpdateStoreRequest) (*Store, error) {
	st, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if req.Name != "" {
		st.Name = req.Name
	}
	if req.Description != "" {
		st.Description = req.Description
	}
	if req.LogoURL != "" {
		st.LogoURL = req.LogoURL
	}
	if req.Currency != "" {
		st.Currency = req.Currency
	}
	if req.TaxRate != nil {
		st.TaxRate = *req.TaxRate
	}
	if req.FlatShippingRate != nil {
		st.FlatShippingRate = *req.FlatShippingRate
	}
	if req.FreeShippingThreshold != nil {
		st.FreeShippingThreshold = *req.FreeShippingThreshold
	}
	if err := s.repo.UpdateStore(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) SetActive(ctx context.Context, id string, ownerID uuid.UUID, active bool) error {
	st, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return err
	}
	if st.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.SetActive(ctx, id, active)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
