package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ---- Products ----

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, store_id, category_id, name, slug, description, price, compare_price,
		   sku, image_url, inventory, track_inventory, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.StoreID, p.CategoryID, p.Name, p.Slug, p.Description,
		p.Price, p.ComparePrice, p.SKU, p.ImageURL,
		p.Inventory, p.TrackInventory, p.IsActive)
	return err
}

const productColumns = `id, store_id, category_id, name, slug, description, price, compare_price,
	sku, image_url, inventory, track_inventory, is_active, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.StoreID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.ComparePrice, &p.SKU, &p.ImageURL,
		&p.Inventory, &p.TrackInventory, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	p.Variants, err = r.ListVariants(ctx, p.ID.String())
	return p, err
}

func (r *postgresRepo) GetProductBySlug(ctx context.Context, storeID, slug string) (*Product, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id=$1 AND slug=$2`, sid, slug).Scan)
	if err != nil {
		return nil, err
	}
	p.Variants, err = r.ListVariants(ctx, p.ID.String())
	return p, err
}

func (r *postgresRepo) ListProducts(ctx context.Context, storeID string, categoryID string, activeOnly bool) ([]*Product, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id=$1`
	args := []interface{}{sid}
	n := 2
	if categoryID != "" {
		cid, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(` AND category_id=$%d`, n)
		args = append(args, cid)
		n++
	}
	if activeOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id=$1, name=$2, slug=$3, description=$4, price=$5, compare_price=$6,
		    sku=$7, image_url=$8, inventory=$9, track_inventory=$10, is_active=$11,
		    updated_at=NOW()
		WHERE id=$12`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.ComparePrice,
		p.SKU, p.ImageURL, p.Inventory, p.TrackInventory, p.IsActive, p.ID)
	return err
}

func (r *postgresRepo) SetProductActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// ---- Variants ----

func (r *postgresRepo) CreateVariant(ctx context.Context, v *ProductVariant) error {
	var opts interface{}
	if v.Options != nil {
		opts = []byte(v.Options)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_variants (id, product_id, name, price, inventory, options)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.ProductID, v.Name, v.Price, v.Inventory, opts)
	return err
}

func (r *postgresRepo) GetVariantByID(ctx context.Context, id string) (*ProductVariant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	v := &ProductVariant{}
	var opts []byte
	err = r.db.QueryRowContext(ctx, `
		SELECT id, product_id, name, price, inventory, options, created_at, updated_at
		FROM product_variants WHERE id=$1`, uid).
		Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Inventory,
			&opts, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("variant %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if opts != nil {
		v.Options = json.RawMessage(opts)
	}
	return v, nil
}

func (r *postgresRepo) ListVariants(ctx context.Context, productID string) ([]*ProductVariant, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, price, inventory, options, created_at, updated_at
		FROM product_variants WHERE product_id=$1 ORDER BY created_at`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*ProductVariant
	for rows.Next() {
		v := &ProductVariant{}
		var opts []byte
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Inventory,
			&opts, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		if opts != nil {
			v.Options = json.RawMessage(opts)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

func (r *postgresRepo) UpdateVariant(ctx context.Context, v *ProductVariant) error {
	var opts interface{}
	if v.Options != nil {
		opts = []byte(v.Options)
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE product_variants
		SET name=$1, price=$2, inventory=$3, options=$4, updated_at=NOW()
		WHERE id=$5`,
		v.Name, v.Price, v.Inventory, opts, v.ID)
	return err
}

func (r *postgresRepo) DeleteVariant(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Cart rows pointing at the variant go first; the variant's stock
	// pool is destroyed with it, so there is nothing to release.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE variant_id=$1`, uid); err != nil {
		return fmt.Errorf("clear cart rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("variant %s not found", id)
	}
	return tx.Commit()
}

// ---- Categories ----

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, store_id, name, slug, description)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.StoreID, c.Name, c.Slug, c.Description)
	return err
}

func (r *postgresRepo) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c := &Category{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, slug, description, created_at, updated_at
		FROM categories WHERE id=$1`, uid).
		Scan(&c.ID, &c.StoreID, &c.Name, &c.Slug, &c.Description,
			&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context, storeID string) ([]*Category, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, slug, description, created_at, updated_at
		FROM categories WHERE store_id=$1 ORDER BY name`, sid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Slug, &c.Description,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *postgresRepo) DeleteCategory(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, uid)
	return err
}
