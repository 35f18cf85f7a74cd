package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/types"
)

// CORS allows the storefront pages to call the API with the session cookie.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", types.RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{types.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
