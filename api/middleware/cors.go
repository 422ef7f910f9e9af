package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/leadflowhq/leadflow-backend/pkg/config"
)

// CORS applies the configured allowed-origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Org-ID", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
