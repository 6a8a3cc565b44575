package cart

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
)

func TestRespondCartErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"out of stock", &inventory.OutOfStockError{Available: 2}, http.StatusBadRequest},
		{"invalid quantity", ErrInvalidQuantity, http.StatusBadRequest},
		{"malformed product id", fmt.Errorf("invalid product_id: %w", ErrInvalidID), http.StatusBadRequest},
		{"malformed item id", fmt.Errorf("invalid item_id: %w", ErrInvalidID), http.StatusBadRequest},
		{"product not found", ErrProductNotFound, http.StatusNotFound},
		{"item not found", ErrItemNotFound, http.StatusNotFound},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondCartError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.name)
	}
}
