package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreGuard checks that the seller owns the store before a stock write
// or read touches it. Wired from the store module at startup.
type StoreGuard func(ctx context.Context, sellerID uuid.UUID, storeID string) error

// Service exposes the ledger to the seller management surface. Every
// operation is scoped to stores the calling seller owns.
type Service interface {
	// GetAvailability reports current stock for a product or variant.
	GetAvailability(ctx context.Context, sellerID uuid.UUID, productID, variantID string) (*Availability, error)

	// SetStock sets the absolute stock level (stocktake correction).
	SetStock(ctx context.Context, sellerID uuid.UUID, productID, variantID string, qty int) (*Availability, error)

	// AdjustStock applies a relative delta through the ledger so a
	// concurrent oversell is impossible even for manual corrections.
	AdjustStock(ctx context.Context, sellerID uuid.UUID, productID, variantID string, delta int) (*Availability, error)
}

type service struct {
	db    *sql.DB
	guard StoreGuard
	log   *zap.Logger
}

// NewService creates a new inventory service.
func NewService(db *sql.DB, guard StoreGuard, log *zap.Logger) Service {
	return &service{db: db, guard: guard, log: log}
}

// checkOwner resolves the product's store and runs the ownership guard.
func (s *service) checkOwner(ctx context.Context, sellerID, productID uuid.UUID) error {
	var storeID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT store_id FROM products WHERE id=$1`, productID).Scan(&storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTargetNotFound
	}
	if err != nil {
		return err
	}
	return s.guard(ctx, sellerID, storeID.String())
}

func (s *service) GetAvailability(ctx context.Context, sellerID uuid.UUID, productID, variantID string) (*Availability, error) {
	pid, vid, err := parseIDs(productID, variantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, sellerID, pid); err != nil {
		return nil, err
	}
	target, err := ResolveStockTarget(ctx, s.db, pid, vid)
	if err != nil {
		return nil, err
	}
	available, err := GetAvailable(ctx, s.db, target)
	if err != nil {
		return nil, err
	}
	return &Availability{
		ProductID: pid,
		VariantID: vid,
		Available: available,
		Tracked:   target.Kind != TargetUntracked,
	}, nil
}

func (s *service) SetStock(ctx context.Context, sellerID uuid.UUID, productID, variantID string, qty int) (*Availability, error) {
	if qty < 0 {
		return nil, fmt.Errorf("stock level must not be negative, got %d", qty)
	}
	pid, vid, err := parseIDs(productID, variantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, sellerID, pid); err != nil {
		return nil, err
	}
	target, err := ResolveStockTarget(ctx, s.db, pid, vid)
	if err != nil {
		return nil, err
	}
	if target.Kind == TargetUntracked {
		return nil, fmt.Errorf("product does not track inventory")
	}

	query := `UPDATE products SET inventory=$1, updated_at=NOW() WHERE id=$2`
	if target.Kind == TargetVariant {
		query = `UPDATE product_variants SET inventory=$1, updated_at=NOW() WHERE id=$2`
	}
	if _, err := s.db.ExecContext(ctx, query, qty, target.ID); err != nil {
		return nil, err
	}

	s.log.Info("stock level set",
		zap.String("product_id", productID),
		zap.String("variant_id", variantID),
		zap.Int("quantity", qty))

	return &Availability{ProductID: pid, VariantID: vid, Available: qty, Tracked: true}, nil
}

func (s *service) AdjustStock(ctx context.Context, sellerID uuid.UUID, productID, variantID string, delta int) (*Availability, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must not be zero")
	}
	pid, vid, err := parseIDs(productID, variantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, sellerID, pid); err != nil {
		return nil, err
	}
	target, err := ResolveStockTarget(ctx, s.db, pid, vid)
	if err != nil {
		return nil, err
	}
	if target.Kind == TargetUntracked {
		return nil, fmt.Errorf("product does not track inventory")
	}

	var available int
	if delta > 0 {
		if err := Release(ctx, s.db, target, delta); err != nil {
			return nil, err
		}
		available, err = GetAvailable(ctx, s.db, target)
		if err != nil {
			return nil, err
		}
	} else {
		available, err = Reserve(ctx, s.db, target, -delta)
		if err != nil {
			var oos *OutOfStockError
			if errors.As(err, &oos) {
				s.log.Warn("stock adjustment rejected",
					zap.String("product_id", productID),
					zap.String("variant_id", variantID),
					zap.Int("delta", delta),
					zap.Int("available", oos.Available))
			}
			return nil, err
		}
	}

	return &Availability{ProductID: pid, VariantID: vid, Available: available, Tracked: true}, nil
}

func parseIDs(productID, variantID string) (uuid.UUID, *uuid.UUID, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if variantID == "" {
		return pid, nil, nil
	}
	vid, err := uuid.Parse(variantID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid variant_id: %w", err)
	}
	return pid, &vid, nil
}
