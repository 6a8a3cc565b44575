package seller

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL seller repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const sellerColumns = `id, email, password_hash, name, business_name, phone, created_at, updated_at`

func scanSeller(scan func(...interface{}) error) (*Seller, error) {
	s := &Seller{}
	err := scan(&s.ID, &s.Email, &s.PasswordHash, &s.Name,
		&s.BusinessName, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepository) CreateSeller(ctx context.Context, s *Seller) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sellers (id, email, password_hash, name, business_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Email, s.PasswordHash, s.Name, s.BusinessName, s.Phone)
	return err
}

func (r *postgresRepository) GetSellerByEmail(ctx context.Context, email string) (*Seller, error) {
	return scanSeller(r.db.QueryRowContext(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE email = $1`, email).Scan)
}

func (r *postgresRepository) GetSellerByID(ctx context.Context, id string) (*Seller, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanSeller(r.db.QueryRowContext(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, parsedID).Scan)
}

func (r *postgresRepository) UpdateSeller(ctx context.Context, s *Seller) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sellers
		SET name=$1, business_name=$2, phone=$3, updated_at=NOW()
		WHERE id=$4`,
		s.Name, s.BusinessName, s.Phone, s.ID)
	return err
}
