package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
)

// Handler exposes the seller-facing inventory endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireSeller func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireSeller)
		r.Route("/api/v1/inventory", func(r chi.Router) {
			r.Get("/availability", h.getAvailability) // ?product_id=...&variant_id=...
			r.Put("/stock", h.setStock)
			r.Post("/adjust", h.adjustStock)
		})
	})
}

func sellerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
	}
	return id, ok
}

func respondStockError(w http.ResponseWriter, err error) {
	var oos *OutOfStockError
	switch {
	case errors.As(err, &oos):
		respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":     "insufficient stock for adjustment",
			"available": oos.Available,
		})
	case errors.Is(err, ErrTargetNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
	case strings.Contains(err.Error(), "does not belong"):
		respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) getAvailability(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	productID := r.URL.Query().Get("product_id")
	variantID := r.URL.Query().Get("variant_id")
	if productID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}
	a, err := h.service.GetAvailability(r.Context(), sid, productID, variantID)
	if err != nil {
		respondStockError(w, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	var body struct {
		ProductID string `json:"product_id"`
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.SetStock(r.Context(), sid, body.ProductID, body.VariantID, body.Quantity)
	if err != nil {
		respondStockError(w, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	var body struct {
		ProductID string `json:"product_id"`
		VariantID string `json:"variant_id"`
		Delta     int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.AdjustStock(r.Context(), sid, body.ProductID, body.VariantID, body.Delta)
	if err != nil {
		respondStockError(w, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
