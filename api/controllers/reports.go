package controllers

import (
	"net/http"
	"time"

	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/api/responses"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	pkgerrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

const reportDateLayout = "2006-01-02"

func AttributionReport(service attribution.ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		from, err := parseReportDate(r.URL.Query().Get("from"), false)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := parseReportDate(r.URL.Query().Get("to"), true)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if from != nil && to != nil && to.Before(*from) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from"))
			return
		}

		report, err := service.Report(ctx, orgID, from, to)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// parseReportDate parses a date-only query value. The "to" bound stretches to
// the last instant of its day so the range stays inclusive.
func parseReportDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(reportDateLayout, raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dates must use the YYYY-MM-DD format")
	}
	if endOfDay {
		parsed = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &parsed, nil
}
