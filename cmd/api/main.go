package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hvaldez/garage/internal/audit"
	auditStore "github.com/hvaldez/garage/internal/audit/store"
	"github.com/hvaldez/garage/internal/auth"
	"github.com/hvaldez/garage/internal/cache"
	"github.com/hvaldez/garage/internal/config"
	"github.com/hvaldez/garage/internal/database"
	"github.com/hvaldez/garage/internal/employee"
	employeeStore "github.com/hvaldez/garage/internal/employee/store"
	garageHttp "github.com/hvaldez/garage/internal/http"
	auditHandler "github.com/hvaldez/garage/internal/http/audit"
	authHandler "github.com/hvaldez/garage/internal/http/auth"
	employeeHandler "github.com/hvaldez/garage/internal/http/employee"
	importHandler "github.com/hvaldez/garage/internal/http/importcsv"
	offeringHandler "github.com/hvaldez/garage/internal/http/offering"
	orderHandler "github.com/hvaldez/garage/internal/http/order"
	productHandler "github.com/hvaldez/garage/internal/http/product"
	saleHandler "github.com/hvaldez/garage/internal/http/sale"
	"github.com/hvaldez/garage/internal/importer"
	"github.com/hvaldez/garage/internal/offering"
	offeringStore "github.com/hvaldez/garage/internal/offering/store"
	"github.com/hvaldez/garage/internal/order"
	orderStore "github.com/hvaldez/garage/internal/order/store"
	"github.com/hvaldez/garage/internal/product"
	productStore "github.com/hvaldez/garage/internal/product/store"
	"github.com/hvaldez/garage/internal/sale"
	saleStore "github.com/hvaldez/garage/internal/sale/store"
)

func main() {
	// Best effort; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var productCache product.Cache

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		productCache = cache.New(client, cfg.Redis.TTL)

		slog.Info("product cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	authService := auth.NewService(cfg.Auth.Secret, cfg.Auth.AdminUser, cfg.Auth.AdminPassword, cfg.Auth.TokenTTL)
	if !authService.Enabled() {
		slog.Warn("AUTH_SECRET not set, API authentication is disabled")
	}

	var (
		auditService    = audit.NewService(auditStore.New(db))
		productService  = product.NewService(productStore.New(db), productCache)
		offeringService = offering.NewService(offeringStore.New(db))
		employeeService = employee.NewService(employeeStore.New(db))
		saleService     = sale.NewService(saleStore.New(db), productCache, product.CachePrefix, cfg.Sales.RestockOnDelete)
		orderService    = order.NewService(orderStore.New(db))
	)

	var (
		authH     = authHandler.NewHandler(authService)
		productH  = productHandler.NewHandler(productService, auditService)
		offeringH = offeringHandler.NewHandler(offeringService)
		employeeH = employeeHandler.NewHandler(employeeService)
		saleH     = saleHandler.NewHandler(saleService, auditService)
		orderH    = orderHandler.NewHandler(orderService, auditService)
		auditH    = auditHandler.NewHandler(auditService)
		importH   = importHandler.NewHandler(importer.New(), productService)
	)

	router := garageHttp.New(db, authService, authH, productH, offeringH, employeeH, saleH, orderH, auditH, importH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
