package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// SetupCORS returns the CORS wrapper for the given origins. The request ID header is
// exposed so browser clients can quote it.
func SetupCORS(allowedOrigins []string, maxAge int) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           maxAge,
	})

	return c.Handler
}
