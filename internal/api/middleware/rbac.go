package middleware

import (
	"net/http"

	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/apierr"
)

// RequireRole builds a middleware that rejects requests whose
// authenticated user role does not equal role. AuthenticatedUser must
// run first. The service has exactly two roles ("user", "admin"); admin
// routes use AdminAuth directly, which folds this check in.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, err := GetRole(r.Context())
			if err != nil || got != role {
				helpers.RespondError(w, apierr.Forbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
