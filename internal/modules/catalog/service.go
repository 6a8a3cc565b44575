package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// StoreGuard checks that the seller owns the store before a management
// call touches it. Wired from the store module at startup.
type StoreGuard func(ctx context.Context, sellerID uuid.UUID, storeID string) error

// Service defines catalog business logic. Management operations take the
// calling seller's id and are scoped to stores that seller owns; the
// storefront operations are public.
type Service interface {
	CreateProduct(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, sellerID uuid.UUID, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, storeID, slug string) (*Product, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID, storeID, categoryID string) ([]*Product, error)
	ListStorefrontProducts(ctx context.Context, storeID, categoryID string) ([]*Product, error)
	UpdateProduct(ctx context.Context, sellerID uuid.UUID, id string, req UpdateProductRequest) (*Product, error)
	// ArchiveProduct soft-deletes: the product disappears from storefronts
	// but stays referenceable by existing orders.
	ArchiveProduct(ctx context.Context, sellerID uuid.UUID, id string) error

	AddVariant(ctx context.Context, sellerID uuid.UUID, productID string, req VariantRequest) (*ProductVariant, error)
	ListVariants(ctx context.Context, sellerID uuid.UUID, productID string) ([]*ProductVariant, error)
	UpdateVariant(ctx context.Context, sellerID uuid.UUID, id, productID string, req VariantRequest) (*ProductVariant, error)
	DeleteVariant(ctx context.Context, sellerID uuid.UUID, id string) error

	CreateCategory(ctx context.Context, sellerID uuid.UUID, req CreateCategoryRequest) (*Category, error)
	ListCategories(ctx context.Context, storeID string) ([]*Category, error)
	DeleteCategory(ctx context.Context, sellerID uuid.UUID, id string) error
}

// CreateProductRequest holds the data for creating a product.
type CreateProductRequest struct {
	StoreID        string   `json:"store_id"`
	CategoryID     string   `json:"category_id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	ComparePrice   *float64 `json:"compare_price"`
	SKU            string   `json:"sku"`
	ImageURL       string   `json:"image_url"`
	Inventory      int      `json:"inventory"`
	TrackInventory bool     `json:"track_inventory"`
}

// UpdateProductRequest holds mutable product fields.
type UpdateProductRequest struct {
	CategoryID     string   `json:"category_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          *float64 `json:"price"`
	ComparePrice   *float64 `json:"compare_price"`
	SKU            string   `json:"sku"`
	ImageURL       string   `json:"image_url"`
	Inventory      *int     `json:"inventory"`
	TrackInventory *bool    `json:"track_inventory"`
	IsActive       *bool    `json:"is_active"`
}

// VariantRequest holds the data for creating or updating a variant.
type VariantRequest struct {
	Name      string          `json:"name"`
	Price     *float64        `json:"price"`
	Inventory int             `json:"inventory"`
	Options   json.RawMessage `json:"options"`
}

// CreateCategoryRequest holds the data for creating a category.
type CreateCategoryRequest struct {
	StoreID     string `json:"store_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type service struct {
	repo  Repository
	guard StoreGuard
}

// NewService creates a new catalog service.
func NewService(repo Repository, guard StoreGuard) Service {
	return &service{repo: repo, guard: guard}
}

// ownedProduct loads a product and verifies the seller owns its store.
func (s *service) ownedProduct(ctx context.Context, sellerID uuid.UUID, id string) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, sellerID, p.StoreID.String()); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*Product, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}
	if err := s.guard(ctx, sellerID, req.StoreID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	if req.Inventory < 0 {
		return nil, fmt.Errorf("inventory must not be negative")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	p := &Product{
		ID:             uuid.New(),
		StoreID:        storeID,
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		Price:          req.Price,
		ComparePrice:   req.ComparePrice,
		SKU:            req.SKU,
		ImageURL:       req.ImageURL,
		Inventory:      req.Inventory,
		TrackInventory: req.TrackInventory,
		IsActive:       true,
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		p.CategoryID = &cid
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, sellerID uuid.UUID, id string) (*Product, error) {
	return s.ownedProduct(ctx, sellerID, id)
}

func (s *service) GetProductBySlug(ctx context.Context, storeID, slug string) (*Product, error) {
	return s.repo.GetProductBySlug(ctx, storeID, slug)
}

func (s *service) ListSellerProducts(ctx context.Context, sellerID uuid.UUID, storeID, categoryID string) ([]*Product, error) {
	if err := s.guard(ctx, sellerID, storeID); err != nil {
		return nil, err
	}
	return s.repo.ListProducts(ctx, storeID, categoryID, false)
}

func (s *service) ListStorefrontProducts(ctx context.Context, storeID, categoryID string) ([]*Product, error) {
	return s.repo.ListProducts(ctx, storeID, categoryID, true)
}

func (s *service) UpdateProduct(ctx context.Context, sellerID uuid.UUID, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.ComparePrice != nil {
		p.ComparePrice = req.ComparePrice
	}
	if req.SKU != "" {
		p.SKU = req.SKU
	}
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if req.Inventory != nil {
		if *req.Inventory < 0 {
			return nil, fmt.Errorf("inventory must not be negative")
		}
		p.Inventory = *req.Inventory
	}
	if req.TrackInventory != nil {
		p.TrackInventory = *req.TrackInventory
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		p.CategoryID = &cid
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ArchiveProduct(ctx context.Context, sellerID uuid.UUID, id string) error {
	if _, err := s.ownedProduct(ctx, sellerID, id); err != nil {
		return err
	}
	return s.repo.SetProductActive(ctx, id, false)
}

func (s *service) AddVariant(ctx context.Context, sellerID uuid.UUID, productID string, req VariantRequest) (*ProductVariant, error) {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Inventory < 0 {
		return nil, fmt.Errorf("inventory must not be negative")
	}
	v := &ProductVariant{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      req.Name,
		Price:     req.Price,
		Inventory: req.Inventory,
		Options:   req.Options,
	}
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) ListVariants(ctx context.Context, sellerID uuid.UUID, productID string) ([]*ProductVariant, error) {
	if _, err := s.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	return s.repo.ListVariants(ctx, productID)
}

func (s *service) UpdateVariant(ctx context.Context, sellerID uuid.UUID, id, productID string, req VariantRequest) (*ProductVariant, error) {
	vid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid variant id: %w", err)
	}
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if req.Inventory < 0 {
		return nil, fmt.Errorf("inventory must not be negative")
	}
	v := &ProductVariant{
		ID:        vid,
		ProductID: p.ID,
		Name:      req.Name,
		Price:     req.Price,
		Inventory: req.Inventory,
		Options:   req.Options,
	}
	if err := s.repo.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) DeleteVariant(ctx context.Context, sellerID uuid.UUID, id string) error {
	v, err := s.repo.GetVariantByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedProduct(ctx, sellerID, v.ProductID.String()); err != nil {
		return err
	}
	return s.repo.DeleteVariant(ctx, id)
}

func (s *service) CreateCategory(ctx context.Context, sellerID uuid.UUID, req CreateCategoryRequest) (*Category, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}
	if err := s.guard(ctx, sellerID, req.StoreID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	c := &Category{
		ID:          uuid.New(),
		StoreID:     storeID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context, storeID string) ([]*Category, error) {
	return s.repo.ListCategories(ctx, storeID)
}

func (s *service) DeleteCategory(ctx context.Context, sellerID uuid.UUID, id string) error {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard(ctx, sellerID, c.StoreID.String()); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
