package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/config"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/auth"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/cart"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/catalog"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/customer"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/inventory"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/order"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/seller"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	requireSeller := auth.RequireSeller(cfg.Auth.JWTSecret)
	requireCustomer := auth.RequireCustomer(cfg.Auth.JWTSecret)

	// ── Phase 1: Identity ───────────────────────────────────
	sellerRepo := seller.NewPostgresRepository(db)
	sellerService := seller.NewService(sellerRepo)
	sellerIdentity := func(ctx context.Context) (uuid.UUID, bool) {
		return auth.SellerFromContext(ctx)
	}
	seller.NewHandler(sellerService, sellerIdentity).RegisterRoutes(router, requireSeller)

	customerRepo := customer.NewPostgresRepository(db)

	authService := auth.NewService(sellerRepo, customerRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	auth.NewHandler(authService).RegisterRoutes(router)

	customerService := customer.NewService(customerRepo, authService)
	customerIdentity := func(ctx context.Context) (uuid.UUID, uuid.UUID, bool) {
		identity, ok := auth.CustomerFromContext(ctx)
		return identity.CustomerID, identity.StoreID, ok
	}
	customer.NewHandler(customerService, customerIdentity).RegisterRoutes(router, requireCustomer)

	// ── Phase 2: Stores & Catalog ───────────────────────────
	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo, store.Defaults{
		Currency:              cfg.Commerce.DefaultCurrency,
		TaxRate:               cfg.Commerce.DefaultTaxRate,
		FlatShippingRate:      cfg.Commerce.FlatShippingRate,
		FreeShippingThreshold: cfg.Commerce.FreeShippingThreshold,
	})
	store.NewHandler(storeService).RegisterRoutes(router, requireSeller)

	// Scopes every seller-facing catalog, inventory, and order call to
	// stores the authenticated seller owns.
	ownerGuard := store.OwnershipGuard(storeRepo)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, catalog.StoreGuard(ownerGuard))
	catalog.NewHandler(catalogService).RegisterRoutes(router, requireSeller)

	inventoryService := inventory.NewService(db, inventory.StoreGuard(ownerGuard), logger)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, requireSeller)

	// ── Phase 3: Cart & Checkout ────────────────────────────
	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, logger)
	cart.NewHandler(cartService).RegisterRoutes(router, requireCustomer)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, cartRepo, order.StoreGuard(ownerGuard), logger)
	order.NewHandler(orderService).RegisterRoutes(router, requireCustomer, requireSeller)

	// ── Start Server ─────────────────────────────────────────
	logger.Info("api server starting", zap.String("port", cfg.Server.Port))
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, router))
}
