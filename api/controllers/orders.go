package controllers

import (
	"net/http"

	"github.com/leadflowhq/leadflow-backend/api/middleware"
	"github.com/leadflowhq/leadflow-backend/api/responses"
	"github.com/leadflowhq/leadflow-backend/api/validators"
	"github.com/leadflowhq/leadflow-backend/internal/conversions"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

// ShopifyOrdersRequest is the order reconciliation body. Shopify webhooks
// deliver one order at a time; batch backfills post several.
type ShopifyOrdersRequest struct {
	Orders []conversions.ShopifyOrder `json:"orders" validate:"required,min=1"`
}

func ShopifyOrders(service conversions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrgIDFromContext(ctx)

		var body ShopifyOrdersRequest
		if err := validators.DecodeJSONBodyLenient(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.ProcessOrders(ctx, orgID, body.Orders)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
