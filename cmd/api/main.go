package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marketa-app/admin-backend/api/controllers"
	"github.com/marketa-app/admin-backend/api/routes"
	"github.com/marketa-app/admin-backend/internal/auth"
	"github.com/marketa-app/admin-backend/internal/categories"
	"github.com/marketa-app/admin-backend/internal/invoices"
	"github.com/marketa-app/admin-backend/internal/marketing"
	"github.com/marketa-app/admin-backend/internal/notifications"
	"github.com/marketa-app/admin-backend/internal/orders"
	"github.com/marketa-app/admin-backend/internal/pricing"
	"github.com/marketa-app/admin-backend/internal/products"
	"github.com/marketa-app/admin-backend/internal/users"
	"github.com/marketa-app/admin-backend/pkg/auth/session"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/db"
	"github.com/marketa-app/admin-backend/pkg/legacy"
	"github.com/marketa-app/admin-backend/pkg/logger"
	"github.com/marketa-app/admin-backend/pkg/metrics"
	"github.com/marketa-app/admin-backend/pkg/migrate"
	"github.com/marketa-app/admin-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "admin-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "admin-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	converter, err := pricing.NewConverter(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to build price converter", err)
		os.Exit(1)
	}

	legacyClient := legacy.New(cfg.LegacyBackend)

	gormDB := dbClient.DB()

	authService, err := auth.NewService(
		users.NewRepository(gormDB),
		dbClient,
		sessionManager,
		redisClient,
		cfg.JWT,
		cfg.Password,
		cfg.AuthRateLimit,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(gormDB), dbClient, cfg.CategoryCache)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(gormDB), converter)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	marketingService, err := marketing.NewService(marketing.NewRepository(gormDB), dbClient, converter, legacyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB), dbClient, legacyClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(gormDB), dbClient, notificationsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(invoices.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessionManager,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Shipping:      legacyClient,
		Registry:      registry,
		HTTPMetrics:   httpMetrics,
		Auth:          authService,
		Orders:        ordersService,
		Invoices:      invoicesService,
		Categories:    categoriesService,
		Products:      productsService,
		Marketing:     marketingService,
		Notifications: notificationsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting admin api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "admin api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
