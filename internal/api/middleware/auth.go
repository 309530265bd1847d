package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/auth"
	"github.com/veyra-id/veyra/internal/storage"
)

// ClientApp authenticates the "client app" requirement: the caller
// names an application via the X-Client-Id header, with no proof of
// possession of the client secret. Used by endpoints a browser or mobile
// client calls directly (register, login, provider login, refresh).
func ClientApp(store *storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get("X-Client-Id")
			if clientID == "" {
				helpers.RespondError(w, apierr.MissingClientID)
				return
			}

			app, err := store.GetApplicationByClientID(r.Context(), clientID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					helpers.RespondError(w, apierr.ApplicationNotFound)
					return
				}
				slog.Error("lookup application by client id", "error", err)
				helpers.RespondError(w, apierr.Internal)
				return
			}
			if !app.IsActive {
				helpers.RespondError(w, apierr.ApplicationNotActive)
				return
			}

			ctx := withClientApp(r.Context(), ClientApp{
				AppID:         app.ID,
				ClientID:      app.ClientID,
				AllowedScopes: app.AllowedScopes,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedApp authenticates the "authenticated app" requirement:
// HTTP Basic auth with client_id:client_secret, verified against the
// stored secret hash. Used by the OAuth2 token/revoke/introspect
// endpoints.
func AuthenticatedApp(store *storage.Store, hasher auth.PasswordHasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, clientSecret, ok := basicAuth(r)
			if !ok {
				helpers.RespondError(w, apierr.InvalidCredentials)
				return
			}

			app, err := store.GetApplicationByClientID(r.Context(), clientID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					helpers.RespondError(w, apierr.InvalidCredentials)
					return
				}
				slog.Error("lookup application by client id", "error", err)
				helpers.RespondError(w, apierr.Internal)
				return
			}
			if !auth.VerifyClientSecret(hasher, clientSecret, app.ClientSecretHash) {
				helpers.RespondError(w, apierr.InvalidCredentials)
				return
			}
			if !app.IsActive {
				helpers.RespondError(w, apierr.ApplicationNotActive)
				return
			}

			ctx := withClientApp(r.Context(), ClientApp{
				AppID:         app.ID,
				ClientID:      app.ClientID,
				AllowedScopes: app.AllowedScopes,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// basicAuth reads RFC 7617 Basic credentials from either the standard
// Authorization header or, failing that, a urlencoded client_id/
// client_secret form body, matching the token endpoint's leniency in
// RFC 6749 §2.3.1.
func basicAuth(r *http.Request) (clientID, clientSecret string, ok bool) {
	if id, secret, hasBasic := r.BasicAuth(); hasBasic {
		return id, secret, true
	}
	id := r.FormValue("client_id")
	secret := r.FormValue("client_secret")
	if id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}

// AuthenticatedUser authenticates the "authenticated user"
// requirement: a Bearer access token issued by this service's signer.
func AuthenticatedUser(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				helpers.RespondError(w, apierr.Unauthorized)
				return
			}

			claims, err := signer.VerifyAccessToken(token)
			if err != nil {
				slog.Warn("invalid access token", "error", err, "ip", r.RemoteAddr)
				helpers.RespondError(w, apierr.InvalidToken)
				return
			}

			ctx := withUser(r.Context(), User{
				UserID: claims.Subject,
				Scopes: claims.Scopes,
				Role:   claims.Role,
			})
			if len(claims.Audience) > 0 {
				ctx = withClientApp(ctx, ClientApp{ClientID: claims.Audience[0]})
			}
			SetSentryUser(ctx, claims.Subject, claims.Role, r.RemoteAddr)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth wraps AuthenticatedUser and additionally requires role ==
// "admin".
func AdminAuth(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	authenticated := AuthenticatedUser(signer)
	return func(next http.Handler) http.Handler {
		return authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetRole(r.Context())
			if err != nil || role != "admin" {
				helpers.RespondError(w, apierr.Forbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
