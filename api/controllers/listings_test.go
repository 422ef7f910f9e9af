package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/internal/enrichment"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCreateReturns201(t *testing.T) {
	service := &stubEnrichmentService{
		createFn: func(_ context.Context, _ string, input enrichment.NewListingInput) (*models.Listing, error) {
			assert.Equal(t, "12 Rothschild Blvd", input.Address)
			return &models.Listing{ID: uuid.New(), Address: input.Address}, nil
		},
	}

	body := `{"address": "12 Rothschild Blvd", "city": "Tel Aviv", "price": 2400000, "rooms": 4, "size_sqm": 110}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ListingCreate(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListingCreateValidatesRequiredFields(t *testing.T) {
	service := &stubEnrichmentService{
		createFn: func(context.Context, string, enrichment.NewListingInput) (*models.Listing, error) {
			t.Fatal("service must not run for an invalid body")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(`{"city": "Tel Aviv"}`))
	rec := httptest.NewRecorder()

	ListingCreate(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address")
}

func TestListingScoreParsesID(t *testing.T) {
	listingID := uuid.New()
	score := 82
	service := &stubEnrichmentService{
		scoreFn: func(_ context.Context, _ string, id uuid.UUID) (*models.Listing, error) {
			assert.Equal(t, listingID, id)
			return &models.Listing{ID: id, Score: &score}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+listingID.String()+"/score", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("listingId", listingID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	ListingScore(service, testLogger())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "82")
}

func TestListingScoreRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/nope/score", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("listingId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	ListingScore(&stubEnrichmentService{}, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
