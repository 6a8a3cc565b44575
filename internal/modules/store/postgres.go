package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateStore(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores
		  (id, owner_id, name, slug, description, logo_url, currency,
		   tax_rate, flat_shipping_rate, free_shipping_threshold, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		s.ID, s.OwnerID, s.Name, s.Slug, s.Description, s.LogoURL, s.Currency,
		s.TaxRate, s.FlatShippingRate, s.FreeShippingThreshold, s.IsActive)
	return err
}

func scanStore(scan func(...interface{}) error) (*Store, error) {
	s := &Store{}
	err := scan(&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description, &s.LogoURL,
		&s.Currency, &s.TaxRate, &s.FlatShippingRate, &s.FreeShippingThreshold,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const storeColumns = `id, owner_id, name, slug, description, logo_url, currency,
	tax_rate, flat_shipping_rate, free_shipping_threshold, is_active, created_at, updated_at`

func (r *postgresRepo) GetStoreByID(ctx context.Context, id string) (*Store, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id=$1`, uid)
	return scanStore(row.Scan)
}

func (r *postgresRepo) GetStoreBySlug(ctx context.Context, slug string) (*Store, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE slug=$1`, slug)
	return scanStore(row.Scan)
}

func (r *postgresRepo) ListStoresByOwner(ctx context.Context, ownerID string) ([]*Store, error) {
	uid, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE owner_id=$1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		s, err := scanStore(rows.Scan)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, nil
}

func (r *postgresRepo) UpdateStore(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET name=$1, description=$2, logo_url=$3, currency=$4,
		    tax_rate=$5, flat_shipping_rate=$6, free_shipping_threshold=$7,
		    updated_at=NOW()
		WHERE id=$8`,
		s.Name, s.Description, s.LogoURL, s.Currency,
		s.TaxRate, s.FlatShippingRate, s.FreeShippingThreshold, s.ID)
	return err
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store %s not found", id)
	}
	return nil
}
