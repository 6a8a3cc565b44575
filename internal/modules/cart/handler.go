package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
)

// Handler exposes the customer cart endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireCustomer func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireCustomer)
		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Post("/", h.addItem)
			r.Patch("/", h.updateQuantity)
			r.Delete("/", h.removeItem)
			r.Delete("/all", h.clear)
		})
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	c, err := h.service.GetCart(r.Context(), identity.CustomerID, identity.StoreID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.AddItem(r.Context(), identity.CustomerID, identity.StoreID, req)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpdateQuantity(r.Context(), identity.CustomerID, identity.StoreID, req)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.RemoveItem(r.Context(), identity.CustomerID, identity.StoreID, req.ItemID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	if err := h.service.Clear(r.Context(), identity.CustomerID, identity.StoreID); err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

// respondCartError maps the cart error taxonomy onto status codes.
func respondCartError(w http.ResponseWriter, err error) {
	var oos *inventory.OutOfStockError
	switch {
	case errors.As(err, &oos):
		respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":     "insufficient inventory",
			"available": oos.Available,
		})
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidID):
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrItemNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
