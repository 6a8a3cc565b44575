package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreRepo struct{ stores map[string]*Store }

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[string]*Store)}
}

func (f *fakeStoreRepo) CreateStore(_ context.Context, s *Store) error {
	f.stores[s.ID.String()] = s
	return nil
}

func (f *fakeStoreRepo) GetStoreByID(_ context.Context, id string) (*Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, fmt.Errorf("store %s not found", id)
	}
	return s, nil
}

func (f *fakeStoreRepo) GetStoreBySlug(_ context.Context, slug string) (*Store, error) {
	for _, s := range f.stores {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, fmt.Errorf("store %s not found", slug)
}

func (f *fakeStoreRepo) ListStoresByOwner(_ context.Context, ownerID string) ([]*Store, error) {
	var out []*Store
	for _, s := range f.stores {
		if s.OwnerID.String() == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) UpdateStore(_ context.Context, s *Store) error {
	f.stores[s.ID.String()] = s
	return nil
}

func (f *fakeStoreRepo) SetActive(_ context.Context, id string, active bool) error {
	s, ok := f.stores[id]
	if !ok {
		return fmt.Errorf("store %s not found", id)
	}
	s.IsActive = active
	return nil
}

func testDefaults() Defaults {
	return Defaults{
		Currency:              "USD",
		TaxRate:               0.07,
		FlatShippingRate:      5,
		FreeShippingThreshold: 50,
	}
}

func TestCreateStoreAppliesDefaults(t *testing.T) {
	svc := NewService(newFakeStoreRepo(), testDefaults())
	ownerID := uuid.New()

	st, err := svc.CreateStore(context.Background(), ownerID, CreateStoreRequest{Name: "Mug Emporium"})
	require.NoError(t, err)
	assert.Equal(t, "mug-emporium", st.Slug)
	assert.Equal(t, "USD", st.Currency)
	assert.Equal(t, 0.07, st.TaxRate)
	assert.Equal(t, 5.0, st.FlatShippingRate)
	assert.True(t, st.IsActive)
	assert.Equal(t, ownerID, st.OwnerID)
}

func TestCreateStoreRequiresName(t *testing.T) {
	svc := NewService(newFakeStoreRepo(), testDefaults())
	_, err := svc.CreateStore(context.Background(), uuid.New(), CreateStoreRequest{})
	assert.ErrorContains(t, err, "name is required")
}

func TestUpdateStoreOwnershipCheck(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewService(repo, testDefaults())
	ownerID := uuid.New()

	st, err := svc.CreateStore(context.Background(), ownerID, CreateStoreRequest{Name: "Mug Emporium"})
	require.NoError(t, err)

	_, err = svc.UpdateStore(context.Background(), st.ID.String(), uuid.New(), UpdateStoreRequest{Name: "Hijacked"})
	assert.ErrorContains(t, err, "does not belong")

	newRate := 0.10
	got, err := svc.UpdateStore(context.Background(), st.ID.String(), ownerID, UpdateStoreRequest{TaxRate: &newRate})
	require.NoError(t, err)
	assert.Equal(t, 0.10, got.TaxRate)
	assert.Equal(t, "Mug Emporium", got.Name)
}

func TestGetStoreScopedToOwner(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewService(repo, testDefaults())
	ownerID := uuid.New()

	st, err := svc.CreateStore(context.Background(), ownerID, CreateStoreRequest{Name: "Mug Emporium"})
	require.NoError(t, err)

	got, err := svc.GetStore(context.Background(), st.ID.String(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)

	_, err = svc.GetStore(context.Background(), st.ID.String(), uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestOwnershipGuard(t *testing.T) {
	repo := newFakeStoreRepo()
	ownerID := uuid.New()
	st, err := NewService(repo, testDefaults()).
		CreateStore(context.Background(), ownerID, CreateStoreRequest{Name: "Mug Emporium"})
	require.NoError(t, err)

	guard := OwnershipGuard(repo)
	assert.NoError(t, guard(context.Background(), ownerID, st.ID.String()))
	assert.ErrorIs(t, guard(context.Background(), uuid.New(), st.ID.String()), ErrNotOwner)
	assert.Error(t, guard(context.Background(), ownerID, uuid.New().String()))
}

func TestSlugifyStoreNames(t *testing.T) {
	assert.Equal(t, "the-mug-emporium", Slugify("The Mug Emporium"))
	assert.Equal(t, "caf-corner", Slugify("Café Corner"))
	assert.Equal(t, "shop-24-7", Slugify("Shop 24/7!"))
}
