package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/leadflowhq/leadflow-backend/internal/warehouse"
	"github.com/leadflowhq/leadflow-backend/pkg/bigquery"
	"github.com/leadflowhq/leadflow-backend/pkg/config"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "warehouse-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "warehouse-worker"

	logg = logger.New(logger.Options{
		ServiceName: "warehouse-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery client", err)
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "failed to close bigquery client", err)
		}
	}()

	subscription := pubsubClient.AttributionSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "attribution subscription", errors.New("subscription not configured"))
	}

	writer, err := warehouse.NewWriter(bqClient, cfg.BigQuery.ConversionEventsTable, logg, 0, 0)
	requireResource(ctx, logg, "warehouse writer", err)
	writer.Start()
	defer func() {
		if err := writer.Close(); err != nil {
			logg.Error(ctx, "failed to drain warehouse writer", err)
		}
	}()

	worker, err := warehouse.NewWorker(subscription, writer, logg)
	requireResource(ctx, logg, "warehouse worker", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "warehouse worker ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "warehouse worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
