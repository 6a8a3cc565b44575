package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/customer"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/seller"
)

const testSecret = "test-secret"

type fakeSellerRepo struct{ byEmail map[string]*seller.Seller }

func (f *fakeSellerRepo) CreateSeller(_ context.Context, s *seller.Seller) error {
	f.byEmail[s.Email] = s
	return nil
}

func (f *fakeSellerRepo) GetSellerByEmail(_ context.Context, email string) (*seller.Seller, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("seller not found")
	}
	return s, nil
}

func (f *fakeSellerRepo) GetSellerByID(_ context.Context, id string) (*seller.Seller, error) {
	for _, s := range f.byEmail {
		if s.ID.String() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("seller not found")
}

func (f *fakeSellerRepo) UpdateSeller(_ context.Context, s *seller.Seller) error {
	f.byEmail[s.Email] = s
	return nil
}

type fakeCustomerRepo struct {
	rows map[uuid.UUID]*customer.Customer
}

func (f *fakeCustomerRepo) CreateCustomer(_ context.Context, c *customer.Customer) error {
	f.rows[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetCustomerByID(_ context.Context, id string) (*customer.Customer, error) {
	for _, c := range f.rows {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("customer not found")
}

func (f *fakeCustomerRepo) GetCustomerByEmail(_ context.Context, storeID uuid.UUID, email string) (*customer.Customer, error) {
	for _, c := range f.rows {
		if c.StoreID == storeID && c.Email == email {
			return c, nil
		}
	}
	return nil, fmt.Errorf("customer not found")
}

func (f *fakeCustomerRepo) ClaimGuest(_ context.Context, id uuid.UUID, email, passwordHash, name string) error {
	c, ok := f.rows[id]
	if !ok {
		return fmt.Errorf("customer not found")
	}
	c.Email = email
	c.PasswordHash = passwordHash
	c.Name = name
	c.IsGuest = false
	return nil
}

func newTestAuth(t *testing.T) (Service, *fakeSellerRepo, *fakeCustomerRepo) {
	t.Helper()
	sellers := &fakeSellerRepo{byEmail: make(map[string]*seller.Seller)}
	customers := &fakeCustomerRepo{rows: make(map[uuid.UUID]*customer.Customer)}
	return NewService(sellers, customers, testSecret, 1), sellers, customers
}

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestCustomerTokenRoundTrip(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	customerID, storeID := uuid.New(), uuid.New()

	token, err := svc.CustomerToken(customerID, storeID)
	require.NoError(t, err)

	var got CustomerIdentity
	var called bool
	handler := RequireCustomer(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, called = CustomerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.True(t, called)
	assert.Equal(t, customerID, got.CustomerID)
	assert.Equal(t, storeID, got.StoreID)
}

func TestRequireCustomerRejectsMissingAndBadTokens(t *testing.T) {
	handler := RequireCustomer(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for name, header := range map[string]string{
		"missing":    "",
		"malformed":  "Bearer not-a-token",
		"wrong type": "Basic abc",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestRequireSellerRejectsCustomerToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	token, err := svc.CustomerToken(uuid.New(), uuid.New())
	require.NoError(t, err)

	handler := RequireSeller(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSellerLogin(t *testing.T) {
	svc, sellers, _ := newTestAuth(t)
	s := &seller.Seller{ID: uuid.New(), Email: "owner@example.com", PasswordHash: hashPassword(t, "hunter2")}
	require.NoError(t, sellers.CreateSeller(context.Background(), s))

	token, err := svc.SellerLogin(context.Background(), "owner@example.com", "hunter2")
	require.NoError(t, err)

	var got uuid.UUID
	handler := RequireSeller(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SellerFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, s.ID, got)

	_, err = svc.SellerLogin(context.Background(), "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SellerLogin(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerLoginRejectsGuestRows(t *testing.T) {
	svc, _, customers := newTestAuth(t)
	storeID := uuid.New()
	guest := &customer.Customer{ID: uuid.New(), StoreID: storeID, Email: "guest@example.com", IsGuest: true}
	require.NoError(t, customers.CreateCustomer(context.Background(), guest))

	_, err := svc.CustomerLogin(context.Background(), storeID, "guest@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerLogin(t *testing.T) {
	svc, _, customers := newTestAuth(t)
	storeID := uuid.New()
	c := &customer.Customer{
		ID:           uuid.New(),
		StoreID:      storeID,
		Email:        "shopper@example.com",
		PasswordHash: hashPassword(t, "pa55word"),
	}
	require.NoError(t, customers.CreateCustomer(context.Background(), c))

	token, err := svc.CustomerLogin(context.Background(), storeID, "shopper@example.com", "pa55word")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Same email under a different store is a different account space.
	_, err = svc.CustomerLogin(context.Background(), uuid.New(), "shopper@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
