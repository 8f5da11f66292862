package main

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"freemarket-be/internal/address"
	"freemarket-be/internal/audit"
	"freemarket-be/internal/cart"
	"freemarket-be/internal/catalog"
	"freemarket-be/internal/category"
	"freemarket-be/internal/config"
	"freemarket-be/internal/db"
	"freemarket-be/internal/logger"
	"freemarket-be/internal/middleware"
	"freemarket-be/internal/order"
	"freemarket-be/internal/payment"
	"freemarket-be/internal/seller"
	"freemarket-be/internal/transport"
	"freemarket-be/internal/user"
)

// Swappable for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	database := initDBFunc(cfg)
	defer database.Close()

	handler := newServer(cfg, database)

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, handler)
}

// newServer wires repositories, services and middleware into the root handler.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	auditRepo := audit.NewRepository(database)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, categoryRepo)

	cartRepo := cart.NewRepository(database, auditRepo)
	cartSvc := cart.NewService(cartRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(paymentRepo)

	sellerRepo := seller.NewRepository(database)
	sellerSvc := seller.NewService(sellerRepo, userRepo)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	h := &transport.Handler{
		UserSvc:     userSvc,
		CatalogSvc:  catalogSvc,
		CategorySvc: categorySvc,
		CartSvc:     cartSvc,
		OrderSvc:    orderSvc,
		PaymentSvc:  paymentSvc,
		SellerSvc:   sellerSvc,
		AddressSvc:  addressSvc,
		AuditRepo:   auditRepo,
	}

	mux := h.Routes()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	handler = logger.LoggingMiddleware(handler)
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
