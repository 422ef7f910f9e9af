package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/leadflowhq/leadflow-backend/api/routes"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/leadflowhq/leadflow-backend/internal/conversions"
	"github.com/leadflowhq/leadflow-backend/internal/enrichment"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	"github.com/leadflowhq/leadflow-backend/internal/warehouse"
	"github.com/leadflowhq/leadflow-backend/pkg/config"
	"github.com/leadflowhq/leadflow-backend/pkg/db"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/metrics"
	"github.com/leadflowhq/leadflow-backend/pkg/migrate"
	"github.com/leadflowhq/leadflow-backend/pkg/pubsub"
	"github.com/leadflowhq/leadflow-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "migrations", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: prometheus.NewRegistry(),
	}
	batches := metrics.NewBatchMetrics(deps.Registry)

	// The conversion event stream is optional: without a GCP project the
	// API still serves everything, it just skips warehouse publishing.
	var publisher conversions.EventPublisher
	if strings.TrimSpace(cfg.GCP.ProjectID) != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(ctx, "failed to close pubsub client", err)
			}
		}()

		publisher, err = warehouse.NewPublisher(pubsubClient)
		requireResource(ctx, logg, "conversion event publisher", err)
	} else {
		logg.Warn(ctx, "gcp project not configured, conversion events will not be published")
	}

	leadRepo := leads.NewRepository(dbClient.DB())
	listingRepo := enrichment.NewRepository(dbClient.DB())

	leadService, err := leads.NewService(leadRepo, logg, batches)
	requireResource(ctx, logg, "lead service", err)
	deps.Leads = leadService

	conversionService, err := conversions.NewService(leadRepo, logg, publisher, redisClient, batches)
	requireResource(ctx, logg, "conversion service", err)
	deps.Conversions = conversionService

	reportService, err := attribution.NewReportService(leadRepo, logg, cfg.Attribution.DefaultWindowDays)
	requireResource(ctx, logg, "attribution report service", err)
	deps.Reports = reportService

	journeyService, err := attribution.NewJourneyService(leadRepo, logg)
	requireResource(ctx, logg, "journey service", err)
	deps.Journeys = journeyService

	enrichmentService, err := enrichment.NewService(listingRepo, enrichment.NewOpenAIClient(cfg.OpenAI), logg)
	requireResource(ctx, logg, "enrichment service", err)
	deps.Enrichment = enrichmentService

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	instance := os.Getenv("DYNO")
	if instance == "" {
		instance = "local"
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance,
	})
	logg.Info(startCtx, "api server starting")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server failed", err)
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
