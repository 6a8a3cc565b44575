package catalog

import "context"

// Repository defines catalog data storage.
type Repository interface {
	// Products
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, storeID, slug string) (*Product, error)
	ListProducts(ctx context.Context, storeID string, categoryID string, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	SetProductActive(ctx context.Context, id string, active bool) error

	// Variants
	CreateVariant(ctx context.Context, v *ProductVariant) error
	GetVariantByID(ctx context.Context, id string) (*ProductVariant, error)
	ListVariants(ctx context.Context, productID string) ([]*ProductVariant, error)
	UpdateVariant(ctx context.Context, v *ProductVariant) error
	// DeleteVariant removes the variant and any cart rows that still
	// reference it; its stock pool goes with it.
	DeleteVariant(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context, storeID string) ([]*Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
