package middleware

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// SetSentryApp tags the Sentry scope with the application handling the
// current request.
func SetSentryApp(ctx context.Context, appID string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("app_id", appID)
	})
}

// SetSentryUser adds the authenticated user's identity to the Sentry
// scope. Access tokens carry no email claim, so only id, role and
// the request IP are available here.
func SetSentryUser(ctx context.Context, userID, role, ip string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: userID, IPAddress: ip})
		scope.SetTag("role", role)
	})
}
