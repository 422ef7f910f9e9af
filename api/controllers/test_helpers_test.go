package controllers

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/leadflowhq/leadflow-backend/internal/conversions"
	"github.com/leadflowhq/leadflow-backend/internal/enrichment"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

type stubLeadService struct {
	importFn func(ctx context.Context, orgID string, forms []leads.LeadForm) (*leads.ImportResult, error)
	listFn   func(ctx context.Context, orgID string, limit int, cursor string) (*leads.LeadList, error)
}

func (s *stubLeadService) Import(ctx context.Context, orgID string, forms []leads.LeadForm) (*leads.ImportResult, error) {
	return s.importFn(ctx, orgID, forms)
}

func (s *stubLeadService) List(ctx context.Context, orgID string, limit int, cursor string) (*leads.LeadList, error) {
	if s.listFn == nil {
		return &leads.LeadList{}, nil
	}
	return s.listFn(ctx, orgID, limit, cursor)
}

func (s *stubLeadService) Get(context.Context, string, uuid.UUID) (*models.Lead, error) {
	return nil, nil
}

type stubConversionService struct {
	processFn func(ctx context.Context, orgID string, orders []conversions.ShopifyOrder) (*conversions.ProcessResult, error)
}

func (s *stubConversionService) ProcessOrders(ctx context.Context, orgID string, orders []conversions.ShopifyOrder) (*conversions.ProcessResult, error) {
	return s.processFn(ctx, orgID, orders)
}

type stubReportService struct {
	reportFn func(ctx context.Context, orgID string, from, to *time.Time) (*attribution.Report, error)
}

func (s *stubReportService) Report(ctx context.Context, orgID string, from, to *time.Time) (*attribution.Report, error) {
	return s.reportFn(ctx, orgID, from, to)
}

type stubJourneyService struct {
	journeyFn func(ctx context.Context, orgID string, leadID uuid.UUID) (*attribution.Journey, error)
}

func (s *stubJourneyService) Journey(ctx context.Context, orgID string, leadID uuid.UUID) (*attribution.Journey, error) {
	return s.journeyFn(ctx, orgID, leadID)
}

type stubEnrichmentService struct {
	createFn func(ctx context.Context, orgID string, input enrichment.NewListingInput) (*models.Listing, error)
	scoreFn  func(ctx context.Context, orgID string, listingID uuid.UUID) (*models.Listing, error)
}

func (s *stubEnrichmentService) CreateListing(ctx context.Context, orgID string, input enrichment.NewListingInput) (*models.Listing, error) {
	return s.createFn(ctx, orgID, input)
}

func (s *stubEnrichmentService) ScoreListing(ctx context.Context, orgID string, listingID uuid.UUID) (*models.Listing, error) {
	return s.scoreFn(ctx, orgID, listingID)
}
