package order

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/cart"
)

type fakeCartRepo struct {
	items    []*cart.CartItem
	settings cart.StoreSettings
}

func (f *fakeCartRepo) AddItem(context.Context, cart.AddItemParams) (*cart.CartItem, error) {
	panic("not used")
}
func (f *fakeCartRepo) SetQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cart.CartItem, error) {
	panic("not used")
}
func (f *fakeCartRepo) RemoveItem(context.Context, uuid.UUID, uuid.UUID) error {
	panic("not used")
}
func (f *fakeCartRepo) Clear(context.Context, uuid.UUID, uuid.UUID) error {
	panic("not used")
}
func (f *fakeCartRepo) ListItems(context.Context, uuid.UUID, uuid.UUID) ([]*cart.CartItem, error) {
	return f.items, nil
}
func (f *fakeCartRepo) StoreSettings(context.Context, uuid.UUID) (*cart.StoreSettings, error) {
	s := f.settings
	return &s, nil
}

// fakeOrderRepo mirrors the conditional-write contract of the postgres
// repository: status moves only from the expected state, and cancellation
// releases stock only when the guarded write hits the row.
type fakeOrderRepo struct {
	orders        map[uuid.UUID]*Order
	consumed      []CartLine
	cartDrift     bool
	restockedQtys []int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*Order)}
}

func (f *fakeOrderRepo) CreateFromCart(_ context.Context, o *Order, lines []CartLine) error {
	if f.cartDrift {
		return ErrCartChanged
	}
	f.orders[o.ID] = o
	f.consumed = append(f.consumed, lines...)
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, ok := f.orders[uid]
	if !ok {
		return nil, fmt.Errorf("order %s not found", id)
	}
	return o, nil
}

func (f *fakeOrderRepo) GetOrderByNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order %s not found", number)
}

func (f *fakeOrderRepo) ListOrdersByStore(_ context.Context, storeID string, status string) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.StoreID.String() == storeID && (status == "" || string(o.Status) == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, from, to OrderStatus) error {
	o, err := f.GetOrderByID(context.Background(), id)
	if err != nil {
		return err
	}
	if o.Status != from {
		return ErrStaleStatus
	}
	o.Status = to
	return nil
}

func (f *fakeOrderRepo) CancelAndRestock(_ context.Context, o *Order) error {
	stored, ok := f.orders[o.ID]
	if !ok {
		return fmt.Errorf("order %s not found", o.ID)
	}
	if stored.Status != StatusPending && stored.Status != StatusProcessing {
		return ErrNotCancellable
	}
	stored.Status = StatusCancelled
	for _, item := range stored.Items {
		f.restockedQtys = append(f.restockedQtys, item.Quantity)
	}
	return nil
}

func allowAll(context.Context, uuid.UUID, string) error { return nil }

func denyAll(context.Context, uuid.UUID, string) error {
	return fmt.Errorf("store does not belong to this seller")
}

func usdSettings() cart.StoreSettings {
	return cart.StoreSettings{
		Currency:              "USD",
		TaxRate:               0.10,
		FlatShippingRate:      5,
		FreeShippingThreshold: 50,
	}
}

func TestCheckoutBuildsOrderFromCart(t *testing.T) {
	variantID := uuid.New()
	carts := &fakeCartRepo{
		settings: usdSettings(),
		items: []*cart.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Mug", UnitPrice: 12.50, Quantity: 2},
			{ID: uuid.New(), ProductID: uuid.New(), VariantID: &variantID, ProductName: "Shirt", VariantName: "L", UnitPrice: 20, Quantity: 1},
		},
	}
	repo := newFakeOrderRepo()
	svc := NewService(repo, carts, allowAll, zap.NewNop())

	customerID, storeID := uuid.New(), uuid.New()
	o, err := svc.Checkout(context.Background(), customerID, storeID, CheckoutRequest{Notes: "leave at door"})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, customerID, o.CustomerID)
	assert.Equal(t, storeID, o.StoreID)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, 45.0, o.Subtotal)
	assert.Equal(t, 4.5, o.Tax)
	assert.Equal(t, 5.0, o.Shipping) // 45 is below the free-shipping threshold
	assert.Equal(t, 54.5, o.Total)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Mug", o.Items[0].ProductName)
	assert.Equal(t, 25.0, o.Items[0].LineTotal)
	assert.Equal(t, &variantID, o.Items[1].VariantID)
	assert.Equal(t, "L", o.Items[1].VariantName)
}

func TestCheckoutConsumesOnlySnapshottedLines(t *testing.T) {
	line1, line2 := uuid.New(), uuid.New()
	carts := &fakeCartRepo{
		settings: usdSettings(),
		items: []*cart.CartItem{
			{ID: line1, ProductID: uuid.New(), ProductName: "Mug", UnitPrice: 10, Quantity: 2},
			{ID: line2, ProductID: uuid.New(), ProductName: "Shirt", UnitPrice: 20, Quantity: 1},
		},
	}
	repo := newFakeOrderRepo()
	svc := NewService(repo, carts, allowAll, zap.NewNop())

	_, err := svc.Checkout(context.Background(), uuid.New(), uuid.New(), CheckoutRequest{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []CartLine{
		{ID: line1, Quantity: 2},
		{ID: line2, Quantity: 1},
	}, repo.consumed)
}

func TestCheckoutCartChangedMidway(t *testing.T) {
	carts := &fakeCartRepo{
		settings: usdSettings(),
		items: []*cart.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Mug", UnitPrice: 10, Quantity: 2},
		},
	}
	repo := newFakeOrderRepo()
	repo.cartDrift = true
	svc := NewService(repo, carts, allowAll, zap.NewNop())

	_, err := svc.Checkout(context.Background(), uuid.New(), uuid.New(), CheckoutRequest{})
	assert.ErrorIs(t, err, ErrCartChanged)
	assert.Empty(t, repo.orders)
}

func TestCheckoutEmptyCart(t *testing.T) {
	carts := &fakeCartRepo{settings: usdSettings()}
	svc := NewService(newFakeOrderRepo(), carts, allowAll, zap.NewNop())

	_, err := svc.Checkout(context.Background(), uuid.New(), uuid.New(), CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutFreeShippingOverThreshold(t *testing.T) {
	carts := &fakeCartRepo{
		settings: usdSettings(),
		items: []*cart.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Desk", UnitPrice: 60, Quantity: 1},
		},
	}
	svc := NewService(newFakeOrderRepo(), carts, allowAll, zap.NewNop())

	o, err := svc.Checkout(context.Background(), uuid.New(), uuid.New(), CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 66.0, o.Total)
}

func placeTestOrder(t *testing.T, repo *fakeOrderRepo) *Order {
	t.Helper()
	carts := &fakeCartRepo{
		settings: usdSettings(),
		items: []*cart.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Mug", UnitPrice: 10, Quantity: 3},
		},
	}
	o, err := NewService(repo, carts, allowAll, zap.NewNop()).
		Checkout(context.Background(), uuid.New(), uuid.New(), CheckoutRequest{})
	require.NoError(t, err)
	return o
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartRepo{}, allowAll, zap.NewNop())
	o := placeTestOrder(t, repo)
	sellerID := uuid.New()

	got, err := svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)

	got, err = svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)

	got, err = svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartRepo{}, allowAll, zap.NewNop())
	o := placeTestOrder(t, repo)
	sellerID := uuid.New()

	// PENDING cannot jump straight to SHIPPED.
	_, err := svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "SHIPPED"})
	assert.ErrorContains(t, err, "cannot transition")

	// Cancellation goes through the cancel endpoint, not the status PATCH.
	_, err = svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "CANCELLED"})
	assert.ErrorContains(t, err, "cancel endpoint")
}

func TestUpdateStatusDetectsConcurrentTransition(t *testing.T) {
	repo := newFakeOrderRepo()
	o := placeTestOrder(t, repo)

	// Two writers read PENDING; the conditional write lets only the
	// first one through.
	require.NoError(t, repo.UpdateStatus(context.Background(), o.ID.String(), StatusPending, StatusProcessing))
	err := repo.UpdateStatus(context.Background(), o.ID.String(), StatusPending, StatusProcessing)
	assert.ErrorIs(t, err, ErrStaleStatus)
	assert.Equal(t, StatusProcessing, repo.orders[o.ID].Status)
}

func TestCancelOrderRestocks(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartRepo{}, allowAll, zap.NewNop())
	o := placeTestOrder(t, repo)
	sellerID := uuid.New()

	require.NoError(t, svc.CancelOrder(context.Background(), sellerID, o.ID.String()))
	assert.Equal(t, []int{3}, repo.restockedQtys)

	got, err := svc.GetOrder(context.Background(), sellerID, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestCancelOrderTwiceRestocksOnce(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartRepo{}, allowAll, zap.NewNop())
	o := placeTestOrder(t, repo)
	sellerID := uuid.New()

	require.NoError(t, svc.CancelOrder(context.Background(), sellerID, o.ID.String()))
	err := svc.CancelOrder(context.Background(), sellerID, o.ID.String())
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Equal(t, []int{3}, repo.restockedQtys)
}

func TestCancelOrderRejectsShipped(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, &fakeCartRepo{}, allowAll, zap.NewNop())
	o := placeTestOrder(t, repo)
	sellerID := uuid.New()

	_, err := svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "PROCESSING"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)

	err = svc.CancelOrder(context.Background(), sellerID, o.ID.String())
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Empty(t, repo.restockedQtys)
}

func TestSellerCannotTouchForeignStoreOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	o := placeTestOrder(t, repo)
	svc := NewService(repo, &fakeCartRepo{}, denyAll, zap.NewNop())
	sellerID := uuid.New()

	_, err := svc.GetOrder(context.Background(), sellerID, o.ID.String())
	assert.ErrorContains(t, err, "does not belong")

	_, err = svc.GetOrderByNumber(context.Background(), sellerID, o.OrderNumber)
	assert.ErrorContains(t, err, "does not belong")

	_, err = svc.ListStoreOrders(context.Background(), sellerID, o.StoreID.String(), "")
	assert.ErrorContains(t, err, "does not belong")

	_, err = svc.UpdateStatus(context.Background(), sellerID, o.ID.String(), UpdateStatusRequest{Status: "PROCESSING"})
	assert.ErrorContains(t, err, "does not belong")
	assert.Equal(t, StatusPending, repo.orders[o.ID].Status)

	err = svc.CancelOrder(context.Background(), sellerID, o.ID.String())
	assert.ErrorContains(t, err, "does not belong")
	assert.Empty(t, repo.restockedQtys)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	n := generateOrderNumber()
	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 4)
}
