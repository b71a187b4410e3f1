package api

import (
	"net/http"
	"strings"

	"github.com/assetkit/assetkit/pkg/assetkit/auth"
)

// RequireToken gates a route behind the shared-secret token. Every
// failure mode (missing header, malformed header, wrong token) produces
// the same 401 response so callers cannot tell which check failed.
func RequireToken(gate *auth.TokenGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || !gate.Authorize(token) {
				respondError(w, r, http.StatusUnauthorized, "Unauthorized. Invalid or missing token.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
