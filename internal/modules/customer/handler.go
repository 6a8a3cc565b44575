package customer

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IdentityFn resolves the authenticated customer from a request context.
// Supplied by the auth module at wiring time; defined here to keep this
// package free of an auth import (auth already depends on customer).
type IdentityFn func(ctx context.Context) (customerID, storeID uuid.UUID, ok bool)

type Handler struct {
	service  Service
	identity IdentityFn
}

func NewHandler(service Service, identity IdentityFn) *Handler {
	return &Handler{service: service, identity: identity}
}

func (h *Handler) RegisterRoutes(router *chi.Mux, requireCustomer func(http.Handler) http.Handler) {
	router.Post("/api/v1/storefront/{store_id}/customers", h.register)
	router.Post("/api/v1/storefront/{store_id}/customers/guest", h.createGuest)
	router.Group(func(r chi.Router) {
		r.Use(requireCustomer)
		r.Post("/api/v1/customers/claim", h.claimGuest)
		r.Get("/api/v1/customers/me", h.me)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid store_id"})
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	session, err := h.service.RegisterCustomer(r.Context(), storeID, req.Email, req.Password, req.Name)
	if err != nil {
		if isDuplicateKey(err) {
			respond(w, http.StatusConflict, map[string]string{
				"error": "an account with this email already exists in this store",
			})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, session)
}

func (h *Handler) createGuest(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "store_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid store_id"})
		return
	}

	session, err := h.service.CreateGuest(r.Context(), storeID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, session)
}

func (h *Handler) claimGuest(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := h.identity(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	c, err := h.service.ClaimGuest(r.Context(), customerID, req.Email, req.Password, req.Name)
	if err != nil {
		if isDuplicateKey(err) {
			respond(w, http.StatusConflict, map[string]string{
				"error": "an account with this email already exists in this store",
			})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := h.identity(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}

	c, err := h.service.GetCustomer(r.Context(), customerID.String())
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

// isDuplicateKey returns true when the error is a PostgreSQL unique constraint violation (code 23505).
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
