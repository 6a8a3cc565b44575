package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/cart"
)

var (
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCartChanged reports that cart rows moved between the checkout
	// snapshot and the order write. The client re-reads the cart and
	// retries.
	ErrCartChanged = errors.New("cart changed during checkout")

	// ErrStaleStatus reports that the order status moved between the
	// transition check and the conditional write.
	ErrStaleStatus = errors.New("order status changed, reload and retry")

	// ErrNotCancellable covers orders past the point of cancellation.
	ErrNotCancellable = errors.New("only PENDING or PROCESSING orders can be cancelled")
)

// StoreGuard reports whether the seller owns the store; wired from the
// store module at startup.
type StoreGuard func(ctx context.Context, sellerID uuid.UUID, storeID string) error

// Service defines the order management business logic.
type Service interface {
	// Checkout converts the customer's cart at the store into a PENDING
	// order. The cart rows are consumed atomically with the order write;
	// the stock reserved by the cart is carried over, not re-reserved.
	Checkout(ctx context.Context, customerID, storeID uuid.UUID, req CheckoutRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID. Seller
	// access is scoped to stores the seller owns.
	GetOrder(ctx context.Context, sellerID uuid.UUID, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, sellerID uuid.UUID, orderNumber string) (*Order, error)

	// ListStoreOrders returns all orders for a store, optionally filtered by status.
	ListStoreOrders(ctx context.Context, sellerID uuid.UUID, storeID string, status string) ([]*Order, error)

	// ListCustomerOrders returns all orders placed by a customer.
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, sellerID uuid.UUID, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels a PENDING or PROCESSING order and returns its
	// units to stock.
	CancelOrder(ctx context.Context, sellerID uuid.UUID, id string) error
}

type service struct {
	repo   Repository
	carts  cart.Repository
	guard  StoreGuard
	logger *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, carts cart.Repository, guard StoreGuard, logger *zap.Logger) Service {
	return &service{repo: repo, carts: carts, guard: guard, logger: logger}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s *service) Checkout(ctx context.Context, customerID, storeID uuid.UUID, req CheckoutRequest) (*Order, error) {
	lines, err := s.carts.ListItems(ctx, customerID, storeID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.carts.StoreSettings(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load store settings: %w", err)
	}

	var items []*OrderItem
	consumed := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, &OrderItem{
			ID:          uuid.New(),
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   round2(line.UnitPrice * float64(line.Quantity)),
		})
		consumed = append(consumed, CartLine{ID: line.ID, Quantity: line.Quantity})
	}

	totals := cart.ComputeTotals(cart.Subtotal(lines), settings.TaxRate, cart.ShippingPolicy{
		FlatRate:              settings.FlatShippingRate,
		FreeShippingThreshold: settings.FreeShippingThreshold,
	})

	o := &Order{
		ID:              uuid.New(),
		StoreID:         storeID,
		CustomerID:      customerID,
		OrderNumber:     generateOrderNumber(),
		Status:          StatusPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Currency:        settings.Currency,
		Notes:           req.Notes,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}

	if err := s.repo.CreateFromCart(ctx, o, consumed); err != nil {
		if errors.Is(err, ErrCartChanged) {
			return nil, ErrCartChanged
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("store_id", storeID.String()),
		zap.Float64("total", o.Total),
		zap.Int("lines", len(items)))

	return o, nil
}

func (s *service) GetOrder(ctx context.Context, sellerID uuid.UUID, id string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, sellerID, o.StoreID.String()); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, sellerID uuid.UUID, orderNumber string) (*Order, error) {
	o, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, sellerID, o.StoreID.String()); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) ListStoreOrders(ctx context.Context, sellerID uuid.UUID, storeID string, status string) ([]*Order, error) {
	if err := s.guard(ctx, sellerID, storeID); err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByStore(ctx, storeID, status)
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func (s *service) UpdateStatus(ctx context.Context, sellerID uuid.UUID, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if err := s.guard(ctx, sellerID, o.StoreID.String()); err != nil {
		return nil, err
	}

	newStatus := OrderStatus(strings.ToUpper(req.Status))
	if newStatus == StatusCancelled {
		return nil, fmt.Errorf("use the cancel endpoint to cancel an order")
	}
	allowed := validTransitions[o.Status]
	valid := false
	for _, st := range allowed {
		if st == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, newStatus)
	}

	// Conditional on the status just read; a concurrent transition
	// surfaces as ErrStaleStatus instead of a silent overwrite.
	if err := s.repo.UpdateStatus(ctx, id, o.Status, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, sellerID uuid.UUID, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if err := s.guard(ctx, sellerID, o.StoreID.String()); err != nil {
		return err
	}
	if o.Status != StatusPending && o.Status != StatusProcessing {
		return fmt.Errorf("%w (current: %s)", ErrNotCancellable, o.Status)
	}
	if err := s.repo.CancelAndRestock(ctx, o); err != nil {
		return err
	}
	s.logger.Info("order cancelled",
		zap.String("order_number", o.OrderNumber),
		zap.Int("lines", len(o.Items)))
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
