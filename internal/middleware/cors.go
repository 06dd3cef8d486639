package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware applying CORS headers for the given
// origins. Each entry must be a full origin (scheme + host, no trailing
// slash). The method list covers the API's whole REST surface.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
