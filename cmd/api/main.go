package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/construplaza/construplaza-backend/api/routes"
	"github.com/construplaza/construplaza-backend/internal/audit"
	"github.com/construplaza/construplaza-backend/internal/auth"
	category "github.com/construplaza/construplaza-backend/internal/categories"
	"github.com/construplaza/construplaza-backend/internal/checkout"
	customer "github.com/construplaza/construplaza-backend/internal/customers"
	product "github.com/construplaza/construplaza-backend/internal/products"
	"github.com/construplaza/construplaza-backend/internal/reports"
	"github.com/construplaza/construplaza-backend/internal/sales"
	"github.com/construplaza/construplaza-backend/internal/users"
	"github.com/construplaza/construplaza-backend/pkg/auth/session"
	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db"
	"github.com/construplaza/construplaza-backend/pkg/logger"
	"github.com/construplaza/construplaza-backend/pkg/metrics"
	"github.com/construplaza/construplaza-backend/pkg/migrate"
	"github.com/construplaza/construplaza-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		var closeErr error
		closeErr = multierr.Append(closeErr, redisClient.Close())
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	posMetrics := metrics.NewPOSMetrics(registry)

	auditRepo := audit.NewRepository(dbClient.DB())
	auditService, err := audit.NewService(auditRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	userService, err := users.NewService(userRepo, auditService, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(userRepo, sessionManager, redisClient, cfg.JWT, cfg.AuthRateLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	categoryRepo := category.NewRepository(dbClient.DB())
	categoryService, err := category.NewService(categoryRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo, categoryRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	customerRepo := customer.NewRepository(dbClient.DB())
	customerService, err := customer.NewService(customerRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	cartStore, err := checkout.NewRedisStore(redisClient, cfg.POS.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(cartStore, productRepo, cfg.Store)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(sales.NewRepository(dbClient.DB()), productRepo, customerRepo, dbClient, auditService, posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:       authService,
			Products:   productService,
			Categories: categoryService,
			Customers:  customerService,
			Checkout:   checkoutService,
			Sales:      salesService,
			Users:      userService,
			Audit:      auditService,
			Reports:    reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
