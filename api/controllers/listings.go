package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/api/responses"
	"github.com/leadflowhq/leadflow-backend/api/validators"
	"github.com/leadflowhq/leadflow-backend/internal/enrichment"
	pkgerrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

func ListingCreate(service enrichment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		var body enrichment.NewListingInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		listing, err := service.CreateListing(ctx, orgID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func ListingScore(service enrichment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		listingID, err := uuid.Parse(chi.URLParam(r, "listingId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "listingId must be a valid uuid"))
			return
		}

		listing, err := service.ScoreListing(ctx, orgID, listingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}
