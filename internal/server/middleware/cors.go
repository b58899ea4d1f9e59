// Package middleware holds the HTTP middleware chain for the API server.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// CORS answers cross-origin requests for the configured origins. An allowed
// origin of "*" opens the API to any origin.
func CORS(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	// Exact match, or a subdomain of an allowed host. A bare suffix check
	// would also let evil-example.com match example.com.
	allowed := func(origin string) bool {
		for _, a := range allowedOrigins {
			if a == origin || strings.HasSuffix(origin, "."+a) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowAll || allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
