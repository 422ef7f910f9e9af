package middleware

import (
	"net/http"
	"strings"

	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

const (
	orgIDHeader = "X-Org-ID"

	// DefaultOrgID scopes requests that carry no org header. Single-tenant
	// installs never send the header.
	DefaultOrgID = "demo"
)

// OrgContext resolves the caller's org scope from the request header and
// stamps it onto the context. Every downstream read and write is filtered by
// this value.
func OrgContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID := strings.TrimSpace(r.Header.Get(orgIDHeader))
			if orgID == "" {
				orgID = DefaultOrgID
			}

			ctx := WithOrgID(r.Context(), orgID)
			if logg != nil {
				ctx = logg.WithOrgID(ctx, orgID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
