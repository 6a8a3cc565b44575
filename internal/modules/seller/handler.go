package seller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IdentityFn resolves the authenticated seller from a request context.
// Supplied by the auth module at wiring time; defined here to keep this
// package free of an auth import (auth already depends on seller).
type IdentityFn func(ctx context.Context) (sellerID uuid.UUID, ok bool)

type Handler struct {
	service  Service
	identity IdentityFn
}

func NewHandler(service Service, identity IdentityFn) *Handler {
	return &Handler{service: service, identity: identity}
}

func (h *Handler) RegisterRoutes(router *chi.Mux, requireSeller func(http.Handler) http.Handler) {
	router.Post("/api/v1/sellers/register", h.registerSeller)
	router.Group(func(r chi.Router) {
		r.Use(requireSeller)
		r.Get("/api/v1/sellers/me", h.me)
		r.Patch("/api/v1/sellers/me", h.updateProfile)
	})
}

func (h *Handler) registerSeller(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s, err := h.service.RegisterSeller(r.Context(), req)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "23505"), strings.Contains(err.Error(), "duplicate key"):
			respond(w, http.StatusConflict, map[string]string{"error": "an account with this email already exists"})
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword),
			strings.Contains(err.Error(), "required"):
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusCreated, s)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	s, err := h.service.GetSeller(r.Context(), id.String())
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		if strings.Contains(err.Error(), "must not be empty") {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, s)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
