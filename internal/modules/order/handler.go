package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireCustomer, requireSeller func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireCustomer)
		r.Post("/api/v1/checkout", h.checkout)   // POST /api/v1/checkout
		r.Get("/api/v1/orders/mine", h.listMine) // GET  /api/v1/orders/mine
	})
	r.Group(func(r chi.Router) {
		r.Use(requireSeller)
		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/{id}", h.getOrder)                    // GET    /api/v1/orders/{id}
			r.Get("/number/{number}", h.getOrderByNumber) // GET    /api/v1/orders/number/{number}
			r.Patch("/{id}/status", h.updateStatus)       // PATCH  /api/v1/orders/{id}/status
			r.Delete("/{id}", h.cancelOrder)              // DELETE /api/v1/orders/{id}
			r.Get("/store/{store_id}", h.listStoreOrders) // GET    /api/v1/orders/store/{store_id}?status=PENDING
		})
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req CheckoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	o, err := h.service.Checkout(r.Context(), identity.CustomerID, identity.StoreID, req)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if errors.Is(err, ErrCartChanged) {
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	orders, err := h.service.ListCustomerOrders(r.Context(), identity.CustomerID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func sellerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
	}
	return id, ok
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	o, err := h.service.GetOrder(r.Context(), sid, id)
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	number := chi.URLParam(r, "number")
	o, err := h.service.GetOrderByNumber(r.Context(), sid, number)
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), sid, id, req)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrStaleStatus):
			code = http.StatusConflict
		case strings.Contains(err.Error(), "does not belong"):
			code = http.StatusForbidden
		case strings.Contains(err.Error(), "cannot transition"), strings.Contains(err.Error(), "cancel endpoint"):
			code = http.StatusUnprocessableEntity
		case strings.Contains(err.Error(), "not found"):
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.CancelOrder(r.Context(), sid, id); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNotCancellable):
			code = http.StatusUnprocessableEntity
		case strings.Contains(err.Error(), "does not belong"):
			code = http.StatusForbidden
		case strings.Contains(err.Error(), "not found"):
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func (h *Handler) listStoreOrders(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	storeID := chi.URLParam(r, "store_id")
	status := r.URL.Query().Get("status")
	orders, err := h.service.ListStoreOrders(r.Context(), sid, storeID, strings.ToUpper(status))
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
