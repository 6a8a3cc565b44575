package customer

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateCustomer(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO store_customers (id, store_id, email, password_hash, name, is_guest)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.StoreID, c.Email, c.PasswordHash, c.Name, c.IsGuest)
	return err
}

func (r *postgresRepository) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, store_id, COALESCE(email, ''), password_hash, name, is_guest, created_at, updated_at
		FROM store_customers
		WHERE id = $1`, parsedID))
}

func (r *postgresRepository) GetCustomerByEmail(ctx context.Context, storeID uuid.UUID, email string) (*Customer, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, store_id, COALESCE(email, ''), password_hash, name, is_guest, created_at, updated_at
		FROM store_customers
		WHERE store_id = $1 AND email = $2`, storeID, email))
}

func (r *postgresRepository) ClaimGuest(ctx context.Context, id uuid.UUID, email, passwordHash, name string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE store_customers
		SET email = $1, password_hash = $2, name = $3, is_guest = false, updated_at = NOW()
		WHERE id = $4 AND is_guest = true`,
		email, passwordHash, name, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepository) scanOne(row *sql.Row) (*Customer, error) {
	c := &Customer{}
	err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Email,
		&c.PasswordHash,
		&c.Name,
		&c.IsGuest,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
