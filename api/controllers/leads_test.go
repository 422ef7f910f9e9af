package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	pkgerrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadImportReturnsBatchResult(t *testing.T) {
	var gotOrg string
	service := &stubLeadService{
		importFn: func(_ context.Context, orgID string, forms []leads.LeadForm) (*leads.ImportResult, error) {
			gotOrg = orgID
			require.Len(t, forms, 1)
			return &leads.ImportResult{Success: true, Imported: 1, Details: []leads.ImportDetail{
				{ExternalID: forms[0].ExternalID, Status: leads.ImportStatusImported},
			}}, nil
		},
	}

	body := `{"leads": [{"external_id": "fb-1", "platform": "facebook", "field_data": [{"name": "email", "values": ["ana@example.com"]}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/import", strings.NewReader(body))
	req = req.WithContext(middleware.WithOrgID(req.Context(), "org-1"))
	rec := httptest.NewRecorder()

	LeadImport(service, testLogger())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "org-1", gotOrg)

	var envelope struct {
		Data leads.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Success)
	assert.Equal(t, 1, envelope.Data.Imported)
}

func TestLeadImportRejectsEmptyBatch(t *testing.T) {
	service := &stubLeadService{
		importFn: func(context.Context, string, []leads.LeadForm) (*leads.ImportResult, error) {
			t.Fatal("service must not run for an invalid body")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/import", strings.NewReader(`{"leads": []}`))
	rec := httptest.NewRecorder()

	LeadImport(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestLeadListParsesPagination(t *testing.T) {
	service := &stubLeadService{
		listFn: func(_ context.Context, _ string, limit int, cursor string) (*leads.LeadList, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, "abc", cursor)
			return &leads.LeadList{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads?limit=10&cursor=abc", nil)
	rec := httptest.NewRecorder()

	LeadList(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLeadListRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads?limit=ten", nil)
	rec := httptest.NewRecorder()

	LeadList(&stubLeadService{}, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func journeyRequest(t *testing.T, leadID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/"+leadID+"/journey", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("leadId", leadID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLeadJourneyRejectsMalformedID(t *testing.T) {
	service := &stubJourneyService{
		journeyFn: func(context.Context, string, uuid.UUID) (*attribution.Journey, error) {
			t.Fatal("service must not run for a malformed id")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	LeadJourney(service, testLogger())(rec, journeyRequest(t, "not-a-uuid"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadJourneyMapsNotFound(t *testing.T) {
	service := &stubJourneyService{
		journeyFn: func(context.Context, string, uuid.UUID) (*attribution.Journey, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		},
	}

	rec := httptest.NewRecorder()
	LeadJourney(service, testLogger())(rec, journeyRequest(t, uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "lead not found")
}

func TestLeadJourneyReturnsJourney(t *testing.T) {
	leadID := uuid.New()
	service := &stubJourneyService{
		journeyFn: func(_ context.Context, orgID string, id uuid.UUID) (*attribution.Journey, error) {
			assert.Equal(t, middleware.DefaultOrgID, orgID)
			assert.Equal(t, leadID, id)
			return &attribution.Journey{LeadID: leadID.String(), ConversionPath: []string{"facebook / paid-social"}}, nil
		},
	}

	req := journeyRequest(t, leadID.String())
	req = req.WithContext(middleware.WithOrgID(req.Context(), middleware.DefaultOrgID))
	rec := httptest.NewRecorder()

	LeadJourney(service, testLogger())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "facebook / paid-social")
}
