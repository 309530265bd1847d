package middleware

import (
	"context"
	"fmt"
)

// contextKey is a custom type for context keys to avoid collisions with
// other packages.
type contextKey string

// Context keys for request-scoped values set by the request authenticator
// middlewares.
const (
	appIDKey        contextKey = "app_id"
	clientIDKey     contextKey = "client_id"
	allowedScopeKey contextKey = "allowed_scopes"
	userIDKey       contextKey = "user_id"
	scopesKey       contextKey = "scopes"
	roleKey         contextKey = "role"
)

// ClientApp is what the ClientApp authenticator yields: the application
// identified by the X-Client-Id header, not yet authenticated with a
// secret.
type ClientApp struct {
	AppID         string
	ClientID      string
	AllowedScopes []string
}

func withClientApp(ctx context.Context, c ClientApp) context.Context {
	ctx = context.WithValue(ctx, appIDKey, c.AppID)
	ctx = context.WithValue(ctx, clientIDKey, c.ClientID)
	return context.WithValue(ctx, allowedScopeKey, c.AllowedScopes)
}

// GetAppID extracts the app id set by ClientApp or AuthenticatedApp.
func GetAppID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(appIDKey).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("app_id not found in context")
	}
	return v, nil
}

// GetClientID extracts the client_id set by ClientApp or AuthenticatedApp.
func GetClientID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(clientIDKey).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("client_id not found in context")
	}
	return v, nil
}

// GetAllowedScopes extracts the application's allowed scope list set by
// ClientApp.
func GetAllowedScopes(ctx context.Context) ([]string, error) {
	v, ok := ctx.Value(allowedScopeKey).([]string)
	if !ok {
		return nil, fmt.Errorf("allowed_scopes not found in context")
	}
	return v, nil
}

// User is what AuthenticatedUser yields from a verified Bearer token's
// claims.
type User struct {
	UserID string
	Scopes []string
	Role   string
}

func withUser(ctx context.Context, u User) context.Context {
	ctx = context.WithValue(ctx, userIDKey, u.UserID)
	ctx = context.WithValue(ctx, scopesKey, u.Scopes)
	return context.WithValue(ctx, roleKey, u.Role)
}

// GetUserID extracts the authenticated user id.
func GetUserID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(userIDKey).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("user_id not found in context")
	}
	return v, nil
}

// GetScopes extracts the authenticated user's granted scopes.
func GetScopes(ctx context.Context) ([]string, error) {
	v, ok := ctx.Value(scopesKey).([]string)
	if !ok {
		return nil, fmt.Errorf("scopes not found in context")
	}
	return v, nil
}

// GetRole extracts the authenticated user's role.
func GetRole(ctx context.Context) (string, error) {
	v, ok := ctx.Value(roleKey).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("role not found in context")
	}
	return v, nil
}
