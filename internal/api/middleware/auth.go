package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/JupiterPi/verse/internal/api/apierr"
)

// Auth guards the operational endpoints (join-code minting, roster ingress)
// with the static bearer token held by the external bot integration. An
// empty configured token disables the check, for local development.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				presented := extractToken(r)
				if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
					apierr.WriteError(w, apierr.NewUnauthorizedError())
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken gets the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
