// Package middleware provides HTTP middleware for the authority endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequireBearer rejects requests that do not carry a bearer credential. The
// credential itself is not validated here; the handler behind it decides what
// the key is worth.
func RequireBearer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized request - missing bearer credential",
					"path", r.URL.Path,
					"request_id", chimw.GetReqID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"missing bearer credential"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
