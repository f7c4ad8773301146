package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/karangtaruna-pekunden/marketplace/pkg/cartoken"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // storefront dev server
}

// CORS applies the storefront origin policy. An empty list falls back to localhost.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := origins
	if len(allowed) == 0 {
		allowed = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", cartoken.Header, requestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{cartoken.Header, requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
