package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/api/responses"
	"github.com/leadflowhq/leadflow-backend/api/validators"
	"github.com/leadflowhq/leadflow-backend/internal/attribution"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	pkgerrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

// LeadImportRequest is the batch import body.
type LeadImportRequest struct {
	Leads []leads.LeadForm `json:"leads" validate:"required,min=1,dive"`
}

func LeadImport(service leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		var body LeadImportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Import(ctx, orgID, body.Leads)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func LeadList(service leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			limit = parsed
		}

		list, err := service.List(ctx, orgID, limit, r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func LeadJourney(service attribution.JourneyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		leadID, err := uuid.Parse(chi.URLParam(r, "leadId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "leadId must be a valid uuid"))
			return
		}

		journey, err := service.Journey(ctx, orgID, leadID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, journey)
	}
}
