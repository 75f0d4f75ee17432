package middleware

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

// AdminMiddleware must run after JWTMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		logger := slog.With("middleware", "admin", "method", r.Method, "path", r.URL.Path)

		switch {
		case claims == nil:
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		case !claims.IsAdmin():
			logger.Warn("Preset change refused for non-admin", "subject", claims.Subject, "role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireAdmin guards preset mutations.
func RequireAdmin(next http.Handler) http.Handler {
	return JWTMiddleware(AdminMiddleware(next))
}
