package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
)

// Service defines cart business logic. Identity arrives as explicit
// (customerID, storeID) arguments resolved at the request boundary.
type Service interface {
	AddItem(ctx context.Context, customerID, storeID uuid.UUID, req AddItemRequest) (*Cart, error)
	UpdateQuantity(ctx context.Context, customerID, storeID uuid.UUID, req UpdateItemRequest) (*Cart, error)
	RemoveItem(ctx context.Context, customerID, storeID uuid.UUID, itemID string) (*Cart, error)
	Clear(ctx context.Context, customerID, storeID uuid.UUID) error
	GetCart(ctx context.Context, customerID, storeID uuid.UUID) (*Cart, error)
}

// AddItemRequest is the payload for adding a line to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the payload for moving a line to an absolute quantity.
type UpdateItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new cart service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) AddItem(ctx context.Context, customerID, storeID uuid.UUID, req AddItemRequest) (*Cart, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", ErrInvalidID)
	}
	var variantID *uuid.UUID
	if req.VariantID != "" {
		vid, err := uuid.Parse(req.VariantID)
		if err != nil {
			return nil, fmt.Errorf("invalid variant_id: %w", ErrInvalidID)
		}
		variantID = &vid
	}

	_, err = s.repo.AddItem(ctx, AddItemParams{
		CustomerID: customerID,
		StoreID:    storeID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		var oos *inventory.OutOfStockError
		if errors.As(err, &oos) {
			s.log.Info("reservation rejected",
				zap.String("customer_id", customerID.String()),
				zap.String("product_id", req.ProductID),
				zap.Int("requested", req.Quantity),
				zap.Int("available", oos.Available))
		}
		return nil, err
	}
	return s.GetCart(ctx, customerID, storeID)
}

func (s *service) UpdateQuantity(ctx context.Context, customerID, storeID uuid.UUID, req UpdateItemRequest) (*Cart, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", ErrInvalidID)
	}

	if _, err := s.repo.SetQuantity(ctx, itemID, customerID, req.Quantity); err != nil {
		var oos *inventory.OutOfStockError
		if errors.As(err, &oos) {
			s.log.Info("reservation rejected",
				zap.String("customer_id", customerID.String()),
				zap.String("item_id", req.ItemID),
				zap.Int("requested", req.Quantity),
				zap.Int("available", oos.Available))
		}
		return nil, err
	}
	return s.GetCart(ctx, customerID, storeID)
}

func (s *service) RemoveItem(ctx context.Context, customerID, storeID uuid.UUID, itemID string) (*Cart, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", ErrInvalidID)
	}
	if err := s.repo.RemoveItem(ctx, id, customerID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, customerID, storeID)
}

func (s *service) Clear(ctx context.Context, customerID, storeID uuid.UUID) error {
	return s.repo.Clear(ctx, customerID, storeID)
}

func (s *service) GetCart(ctx context.Context, customerID, storeID uuid.UUID) (*Cart, error) {
	items, err := s.repo.ListItems(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.StoreSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// An empty cart has nothing to ship or tax.
	if len(items) == 0 {
		return &Cart{Items: []*CartItem{}, Currency: settings.Currency}, nil
	}

	subtotal := Subtotal(items)
	totals := ComputeTotals(subtotal, settings.TaxRate, ShippingPolicy{
		FlatRate:              settings.FlatShippingRate,
		FreeShippingThreshold: settings.FreeShippingThreshold,
	})

	if items == nil {
		items = []*CartItem{}
	}
	return &Cart{
		Items:     items,
		ItemCount: ItemCount(items),
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Shipping:  totals.Shipping,
		Total:     totals.Total,
		Currency:  settings.Currency,
	}, nil
}
