package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributionReportForwardsParsedDates(t *testing.T) {
	var gotFrom, gotTo *time.Time
	service := &stubReportService{
		reportFn: func(_ context.Context, _ string, from, to *time.Time) (*attribution.Report, error) {
			gotFrom, gotTo = from, to
			return &attribution.Report{Success: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/attribution?from=2026-08-01&to=2026-08-15", nil)
	rec := httptest.NewRecorder()

	AttributionReport(service, testLogger())(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, gotFrom)
	require.NotNil(t, gotTo)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *gotFrom)
	// inclusive upper bound covers the whole final day
	assert.Equal(t, time.Date(2026, 8, 15, 23, 59, 59, 999999999, time.UTC), *gotTo)
}

func TestAttributionReportDefaultsWhenNoDatesGiven(t *testing.T) {
	service := &stubReportService{
		reportFn: func(_ context.Context, _ string, from, to *time.Time) (*attribution.Report, error) {
			assert.Nil(t, from)
			assert.Nil(t, to)
			return &attribution.Report{Success: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/attribution", nil)
	rec := httptest.NewRecorder()

	AttributionReport(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttributionReportRejectsBadDate(t *testing.T) {
	service := &stubReportService{
		reportFn: func(context.Context, string, *time.Time, *time.Time) (*attribution.Report, error) {
			t.Fatal("service must not run for a malformed date")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/attribution?from=01-08-2026", nil)
	rec := httptest.NewRecorder()

	AttributionReport(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestAttributionReportRejectsInvertedRange(t *testing.T) {
	service := &stubReportService{
		reportFn: func(context.Context, string, *time.Time, *time.Time) (*attribution.Report, error) {
			t.Fatal("service must not run for an inverted range")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/attribution?from=2026-08-15&to=2026-08-01", nil)
	rec := httptest.NewRecorder()

	AttributionReport(service, testLogger())(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
