package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadflowhq/leadflow-backend/api/controllers"
	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/leadflowhq/leadflow-backend/internal/conversions"
	"github.com/leadflowhq/leadflow-backend/internal/enrichment"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	"github.com/leadflowhq/leadflow-backend/pkg/bigquery"
	"github.com/leadflowhq/leadflow-backend/pkg/config"
	"github.com/leadflowhq/leadflow-backend/pkg/db"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	BigQuery bigquery.Pinger
	Registry *prometheus.Registry

	Leads       leads.Service
	Conversions conversions.Service
	Reports     attribution.ReportService
	Journeys    attribution.JourneyService
	Enrichment  enrichment.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis, deps.BigQuery))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OrgContext(deps.Logger))

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadList(deps.Leads, deps.Logger))
			r.Post("/import", controllers.LeadImport(deps.Leads, deps.Logger))
			r.Get("/{leadId}/journey", controllers.LeadJourney(deps.Journeys, deps.Logger))
		})

		r.Post("/orders/shopify", controllers.ShopifyOrders(deps.Conversions, deps.Logger))

		r.Get("/reports/attribution", controllers.AttributionReport(deps.Reports, deps.Logger))

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.ListingCreate(deps.Enrichment, deps.Logger))
			r.Post("/{listingId}/score", controllers.ListingScore(deps.Enrichment, deps.Logger))
		})
	})

	return r
}
