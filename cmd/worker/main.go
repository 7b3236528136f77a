package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"

	"github.com/velomart/velomart-backend/internal/notifications"
	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/support"
	"github.com/velomart/velomart-backend/pkg/config"
	"github.com/velomart/velomart-backend/pkg/db"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/migrate"
	"github.com/velomart/velomart-backend/pkg/outbox/idempotency"
	"github.com/velomart/velomart-backend/pkg/pubsub"
	"github.com/velomart/velomart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "failed to close database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "failed to close redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to create pubsub client", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "failed to close pubsub client", err)
		}
	}()

	gormDB := dbClient.DB()

	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	consumer, err := notifications.NewConsumer(
		notificationService,
		orders.NewRepository(gormDB),
		support.NewRepository(gormDB),
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create notifications consumer", err)
		os.Exit(1)
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Outbox.IdempotencyTTL)
	if err != nil {
		logg.Error(ctx, "failed to create idempotency manager", err)
		os.Exit(1)
	}

	service, err := NewService(
		[]*gcppubsub.Subscriber{
			pubsubClient.AssignmentSubscription(),
			pubsubClient.NotificationSubscription(),
		},
		consumer,
		manager,
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create worker service", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker started")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(context.Background(), "worker stopped with error", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "worker shut down")
}
