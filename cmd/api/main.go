package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velomart/velomart-backend/api/routes"
	"github.com/velomart/velomart-backend/internal/assignments"
	"github.com/velomart/velomart-backend/internal/coupons"
	"github.com/velomart/velomart-backend/internal/dashboard"
	"github.com/velomart/velomart-backend/internal/favorites"
	"github.com/velomart/velomart-backend/internal/notifications"
	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/ordersync"
	"github.com/velomart/velomart-backend/internal/reviews"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/internal/stores"
	"github.com/velomart/velomart-backend/internal/support"
	"github.com/velomart/velomart-backend/pkg/config"
	"github.com/velomart/velomart-backend/pkg/db"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/metrics"
	"github.com/velomart/velomart-backend/pkg/migrate"
	"github.com/velomart/velomart-backend/pkg/outbox"
	"github.com/velomart/velomart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	cfg.Service.Kind = "api"

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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

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
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)
	locker := redis.NewLeaseLocker(redisClient, cfg.Locks)

	metricsRegistry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflowMetrics(metricsRegistry)

	riderRepo := riders.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	assignmentRepo := assignments.NewRepository(gormDB)
	storeRepo := stores.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	supportRepo := support.NewRepository(gormDB)
	favoriteRepo := favorites.NewRepository(gormDB)

	riderService, err := riders.NewService(riderRepo, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rider service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(couponRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient, outboxService, couponService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	orderSync, err := ordersync.New(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order sync", err)
		os.Exit(1)
	}

	assignmentService, err := assignments.NewService(
		assignmentRepo,
		dbClient,
		riderRepo,
		orderRepo,
		orderSync,
		locker,
		outboxService,
		workflowMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}

	storeService, err := stores.NewService(storeRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviewRepo, storeRepo, riderRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(supportRepo, dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	favoriteService, err := favorites.NewService(favoriteRepo, storeRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorite service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			metricsRegistry,
			riderService,
			orderService,
			assignmentService,
			storeService,
			reviewService,
			couponService,
			notificationService,
			supportService,
			favoriteService,
			dashboardService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
