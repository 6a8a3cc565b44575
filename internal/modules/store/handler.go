package store

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
)

// Handler exposes store HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireSeller func(http.Handler) http.Handler) {
	// Public storefront resolution. Lives under a static segment so the
	// slug wildcard cannot collide with the {store_id} storefront routes.
	r.Get("/api/v1/storefront/resolve/{slug}", h.getStoreBySlug)

	// Seller management surface
	r.Group(func(r chi.Router) {
		r.Use(requireSeller)
		r.Post("/api/v1/stores", h.createStore)
		r.Get("/api/v1/stores", h.listStores)
		r.Get("/api/v1/stores/{id}", h.getStore)
		r.Patch("/api/v1/stores/{id}", h.updateStore)
		r.Patch("/api/v1/stores/{id}/status", h.setActive)
	})
}

// isDuplicateKey returns true when the error is a PostgreSQL unique constraint violation (code 23505).
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := h.service.CreateStore(r.Context(), ownerID, req)
	if err != nil {
		if isDuplicateKey(err) {
			respond(w, http.StatusConflict, map[string]string{"error": "a store with this slug already exists"})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, st)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.service.GetStore(r.Context(), id, ownerID)
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) getStoreBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	st, err := h.service.GetStoreBySlug(r.Context(), slug)
	if err != nil || !st.IsActive {
		respond(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	stores, err := h.service.ListStores(r.Context(), ownerID.String())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, stores)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	id := chi.URLParam(r, "id")
	var req UpdateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := h.service.UpdateStore(r.Context(), id, ownerID, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	id := chi.URLParam(r, "id")
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SetActive(r.Context(), id, ownerID, body.Active); err != nil {
		if strings.Contains(err.Error(), "does not belong") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "store updated"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
