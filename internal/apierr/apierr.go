// Package apierr defines the error taxonomy shared by every handler.
//
// Every failure visible to a client is an *Error: a kind slug, an HTTP
// status, and a message. Store or crypto failures that are not supposed
// to be client-visible are wrapped as Internal and logged with detail at
// the call site; the client only ever sees "internal_error".
package apierr

import (
	"log/slog"
	"net/http"
)

// Error is a protocol-visible failure.
type Error struct {
	Kind    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func new_(status int, kind, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Sentinel errors for the service's error taxonomy. Handlers and services
// compare against these with errors.Is.
var (
	InvalidCredentials       = new_(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	Unauthorized             = new_(http.StatusUnauthorized, "unauthorized", "authentication required")
	InvalidToken             = new_(http.StatusUnauthorized, "invalid_token", "invalid or expired token")
	TokenRevoked             = new_(http.StatusUnauthorized, "token_revoked", "token has been revoked")
	RefreshTokenExpired      = new_(http.StatusUnauthorized, "refresh_token_expired", "refresh token has expired")
	Forbidden                = new_(http.StatusForbidden, "forbidden", "forbidden")
	UserDisabled             = new_(http.StatusForbidden, "user_disabled", "user account is disabled")
	ApplicationNotActive     = new_(http.StatusForbidden, "application_not_active", "application is not active")
	UserNotFound             = new_(http.StatusNotFound, "user_not_found", "user not found")
	ApplicationNotFound      = new_(http.StatusNotFound, "application_not_found", "application not found")
	UserAlreadyExists        = new_(http.StatusConflict, "user_already_exists", "a user with this email already exists")
	AccountAlreadyLinked     = new_(http.StatusConflict, "account_already_linked", "account already linked")
	InvalidAuthorizationCode = new_(http.StatusBadRequest, "invalid_authorization_code", "invalid authorization code")
	AuthorizationCodeExpired = new_(http.StatusBadRequest, "authorization_code_expired", "authorization code has expired")
	InvalidRedirectURI       = new_(http.StatusBadRequest, "invalid_redirect_uri", "redirect_uri does not match")
	InvalidCodeVerifier      = new_(http.StatusBadRequest, "invalid_code_verifier", "PKCE verification failed")
	ProviderNotSupported     = new_(http.StatusBadRequest, "provider_not_supported", "provider not supported")
	ProviderNotConfigured    = new_(http.StatusBadRequest, "provider_not_configured", "provider not configured for this application")
	CannotUnlinkLastAccount  = new_(http.StatusBadRequest, "cannot_unlink_last_account", "cannot unlink the last remaining account")
	MissingClientID          = new_(http.StatusBadRequest, "missing_client_id", "X-Client-Id header is required")
	InvalidScope             = new_(http.StatusBadRequest, "invalid_scope", "invalid scope")
	RateLimited              = new_(http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
	ProviderError            = new_(http.StatusBadGateway, "provider_error", "upstream provider error")
	Internal                 = new_(http.StatusInternalServerError, "internal_error", "internal server error")
)

// BadRequest builds a bad_request error carrying a specific message,
// e.g. an unsupported grant_type or a missing parameter.
func BadRequest(message string) *Error {
	return new_(http.StatusBadRequest, "bad_request", message)
}

// ProviderNotSupportedf names the unsupported provider id.
func ProviderNotSupportedf(providerID string) *Error {
	return new_(http.StatusBadRequest, "provider_not_supported", "provider not supported: "+providerID)
}

// Wrap logs context and err server-side and returns an Internal error
// carrying a fixed, generic message. The underlying error text (which may
// include driver or query detail) never reaches the client.
func Wrap(context string, err error) *Error {
	slog.Error(context, "error", err)
	return new_(http.StatusInternalServerError, "internal_error", "internal error")
}
