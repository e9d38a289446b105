/**
 * @description
 * Authentication middleware for the property service. The API is secured by a
 * shared bearer API key; the Stripe webhook authenticates itself with a
 * signature instead and is mounted outside this middleware.
 */
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyAuthMiddleware validates the bearer API key on every request. An empty
// required key disables the check, which is how local development runs.
func APIKeyAuthMiddleware(requiredKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiredKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Invalid or missing API Key", http.StatusForbidden)
				return
			}

			provided := strings.TrimPrefix(authHeader, "Bearer ")
			if provided == authHeader {
				http.Error(w, "Invalid or missing API Key", http.StatusForbidden)
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(requiredKey)) != 1 {
				http.Error(w, "Invalid API Key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
