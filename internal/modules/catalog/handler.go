package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireSeller func(http.Handler) http.Handler) {
	// Public storefront surface
	r.Get("/api/v1/storefront/{store_id}/products", h.listStorefrontProducts)
	r.Get("/api/v1/storefront/{store_id}/products/{slug}", h.getStorefrontProduct)
	r.Get("/api/v1/storefront/{store_id}/categories", h.listCategories)

	// Seller management surface
	r.Group(func(r chi.Router) {
		r.Use(requireSeller)
		r.Route("/api/v1/catalog", func(r chi.Router) {
			r.Post("/products", h.createProduct)
			r.Get("/products/{product_id}", h.getProduct)
			r.Get("/stores/{store_id}/products", h.listProducts) // ?category_id=...
			r.Patch("/products/{product_id}", h.updateProduct)
			r.Delete("/products/{product_id}", h.archiveProduct)

			r.Post("/products/{product_id}/variants", h.addVariant)
			r.Get("/products/{product_id}/variants", h.listVariants)
			r.Patch("/products/{product_id}/variants/{variant_id}", h.updateVariant)
			r.Delete("/variants/{variant_id}", h.deleteVariant)

			r.Post("/categories", h.createCategory)
			r.Delete("/categories/{id}", h.deleteCategory)
		})
	})
}

// isDuplicateKey returns true when the error is a PostgreSQL unique constraint violation (code 23505).
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}

func isNotOwner(err error) bool {
	return strings.Contains(err.Error(), "does not belong")
}

func sellerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.SellerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
	}
	return id, ok
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), sid, req)
	if err != nil {
		switch {
		case isDuplicateKey(err):
			respond(w, http.StatusConflict, map[string]string{"error": "a product with this slug already exists in this store"})
		case isNotOwner(err):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "product_id")
	p, err := h.service.GetProduct(r.Context(), sid, id)
	if err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	storeID := chi.URLParam(r, "store_id")
	categoryID := r.URL.Query().Get("category_id")
	products, err := h.service.ListSellerProducts(r.Context(), sid, storeID, categoryID)
	if err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) listStorefrontProducts(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	categoryID := r.URL.Query().Get("category_id")
	products, err := h.service.ListStorefrontProducts(r.Context(), storeID, categoryID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) getStorefrontProduct(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	slug := chi.URLParam(r, "slug")
	p, err := h.service.GetProductBySlug(r.Context(), storeID, slug)
	if err != nil || !p.IsActive {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "product_id")
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), sid, id, req)
	if err != nil {
		switch {
		case isNotOwner(err):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		case strings.Contains(err.Error(), "must not be negative"), strings.Contains(err.Error(), "invalid"):
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) archiveProduct(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "product_id")
	if err := h.service.ArchiveProduct(r.Context(), sid, id); err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "product archived"})
}

func (h *Handler) addVariant(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "product_id")
	var req VariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	v, err := h.service.AddVariant(r.Context(), sid, productID, req)
	if err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, v)
}

func (h *Handler) listVariants(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "product_id")
	variants, err := h.service.ListVariants(r.Context(), sid, productID)
	if err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, variants)
}

func (h *Handler) updateVariant(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "variant_id")
	productID := chi.URLParam(r, "product_id")
	var req VariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	v, err := h.service.UpdateVariant(r.Context(), sid, id, productID, req)
	if err != nil {
		if isNotOwner(err) {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) deleteVariant(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "variant_id")
	if err := h.service.DeleteVariant(r.Context(), sid, id); err != nil {
		switch {
		case isNotOwner(err):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		case strings.Contains(err.Error(), "not found"):
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCategory(r.Context(), sid, req)
	if err != nil {
		switch {
		case isDuplicateKey(err):
			respond(w, http.StatusConflict, map[string]string{"error": "a category with this slug already exists in this store"})
		case isNotOwner(err):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	categories, err := h.service.ListCategories(r.Context(), storeID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	sid, ok := sellerID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCategory(r.Context(), sid, id); err != nil {
		switch {
		case isNotOwner(err):
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		case strings.Contains(err.Error(), "not found"):
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
