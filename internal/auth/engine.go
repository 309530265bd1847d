// Package auth implements the credential primitives, token signer,
// identity resolver and OAuth2 engine — the protocol core of the
// service.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/storage"
)

// TokenRequest is the decoded body of POST /oauth/token, across all four
// grants.
type TokenRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	CodeVerifier string
	Username     string
	Password     string
	RefreshToken string
	Scope        string
	DeviceID     *string
}

// TokenResponse is the response body shared by every grant that
// succeeds.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

// IntrospectResponse is the response body of POST /oauth/introspect.
type IntrospectResponse struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub,omitempty"`
	Aud    string `json:"aud,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
	Scope  string `json:"scope,omitempty"`
}

// Engine is the OAuth2 grant dispatcher.
type Engine struct {
	store             *storage.Store
	signer            *TokenSigner
	hasher            PasswordHasher
	accessExpirySecs  int64
	refreshExpiryDays int64
	identity          Identity
}

// NewEngine builds the OAuth2 engine.
func NewEngine(store *storage.Store, signer *TokenSigner, hasher PasswordHasher, accessExpirySecs, refreshExpiryDays int64) *Engine {
	return &Engine{
		store:             store,
		signer:            signer,
		hasher:            hasher,
		accessExpirySecs:  accessExpirySecs,
		refreshExpiryDays: refreshExpiryDays,
	}
}

// Exchange dispatches a token-endpoint request to the grant named by
// req.GrantType.
func (e *Engine) Exchange(ctx context.Context, app storage.Application, req TokenRequest) (TokenResponse, error) {
	switch req.GrantType {
	case "authorization_code":
		return e.exchangeAuthorizationCode(ctx, app, req)
	case "client_credentials":
		return e.exchangeClientCredentials(app)
	case "refresh_token":
		return e.exchangeRefreshToken(ctx, app, req)
	case "password":
		return e.exchangePassword(ctx, app, req)
	default:
		return TokenResponse{}, apierr.BadRequest("Unsupported grant_type: " + req.GrantType)
	}
}

func (e *Engine) exchangeAuthorizationCode(ctx context.Context, app storage.Application, req TokenRequest) (TokenResponse, error) {
	code, err := e.store.GetAuthorizationCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.InvalidAuthorizationCode
		}
		return TokenResponse{}, apierr.Wrap("lookup authorization code", err)
	}
	if code.Used {
		return TokenResponse{}, apierr.InvalidAuthorizationCode
	}
	if code.AppID != app.ID {
		return TokenResponse{}, apierr.InvalidAuthorizationCode
	}
	if code.RedirectURI != req.RedirectURI {
		return TokenResponse{}, apierr.InvalidRedirectURI
	}
	if code.ExpiresAt.Before(time.Now()) {
		return TokenResponse{}, apierr.AuthorizationCodeExpired
	}
	if code.CodeChallenge != nil {
		method := "plain"
		if code.CodeChallengeMethod != nil {
			method = *code.CodeChallengeMethod
		}
		if req.CodeVerifier == "" || !VerifyPKCE(req.CodeVerifier, *code.CodeChallenge, method) {
			return TokenResponse{}, apierr.InvalidCodeVerifier
		}
	}

	if _, err := e.store.ConsumeAuthorizationCode(ctx, req.Code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.InvalidAuthorizationCode
		}
		return TokenResponse{}, apierr.Wrap("consume authorization code", err)
	}

	user, err := e.store.GetUserByID(ctx, code.UserID)
	if err != nil {
		return TokenResponse{}, apierr.Wrap("load code subject", err)
	}
	if !user.IsActive {
		return TokenResponse{}, apierr.Forbidden
	}

	return e.issueUserTokens(ctx, user, app, code.Scopes, nil)
}

func (e *Engine) exchangeClientCredentials(app storage.Application) (TokenResponse, error) {
	token, err := e.signer.IssueAppToken(app.ID)
	if err != nil {
		return TokenResponse{}, apierr.Wrap("issue app token", err)
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   e.accessExpirySecs,
	}, nil
}

func (e *Engine) exchangeRefreshToken(ctx context.Context, app storage.Application, req TokenRequest) (TokenResponse, error) {
	hash := HashToken(req.RefreshToken)

	token, err := e.store.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.InvalidToken
		}
		return TokenResponse{}, apierr.Wrap("lookup refresh token", err)
	}
	if token.Revoked {
		return TokenResponse{}, apierr.TokenRevoked
	}
	if token.AppID != app.ID {
		return TokenResponse{}, apierr.InvalidToken
	}
	if token.ExpiresAt.Before(time.Now()) {
		return TokenResponse{}, apierr.RefreshTokenExpired
	}

	if _, err := e.store.RevokeRefreshTokenByHash(ctx, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.TokenRevoked
		}
		return TokenResponse{}, apierr.Wrap("revoke refresh token", err)
	}

	user, err := e.store.GetUserByID(ctx, token.UserID)
	if err != nil {
		return TokenResponse{}, apierr.Wrap("load refresh token subject", err)
	}
	if !user.IsActive {
		return TokenResponse{}, apierr.Forbidden
	}

	return e.issueUserTokens(ctx, user, app, token.Scopes, token.DeviceID)
}

func (e *Engine) exchangePassword(ctx context.Context, app storage.Application, req TokenRequest) (TokenResponse, error) {
	user, err := e.store.GetUserByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.InvalidCredentials
		}
		return TokenResponse{}, apierr.Wrap("lookup user by email", err)
	}

	account, err := e.store.GetAccountByUserAndProvider(ctx, user.ID, "password")
	if err != nil || account.Credential == nil {
		return TokenResponse{}, apierr.InvalidCredentials
	}

	ok, err := e.hasher.Compare(*account.Credential, req.Password)
	if err != nil || !ok {
		return TokenResponse{}, apierr.InvalidCredentials
	}

	if !user.IsActive {
		return TokenResponse{}, apierr.Forbidden
	}

	scopes := app.AllowedScopes
	if req.Scope != "" {
		scopes = intersectScopes(strings.Fields(req.Scope), app.AllowedScopes)
	}

	return e.issueUserTokens(ctx, user, app, scopes, nil)
}

// Revoke implements POST /oauth/revoke (RFC 7009 §2.2): always succeeds
// from the caller's perspective, whether or not the token existed.
func (e *Engine) Revoke(ctx context.Context, rawToken string) error {
	hash := HashToken(rawToken)
	if _, err := e.store.RevokeRefreshTokenByHash(ctx, hash); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return apierr.Wrap("revoke token", err)
	}
	return nil
}

// Introspect implements POST /oauth/introspect.
func (e *Engine) Introspect(token string) IntrospectResponse {
	claims, err := e.signer.VerifyAccessToken(token)
	if err != nil {
		return IntrospectResponse{Active: false}
	}
	aud := ""
	if len(claims.Audience) > 0 {
		aud = claims.Audience[0]
	}
	exp := int64(0)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Unix()
	}
	return IntrospectResponse{
		Active: true,
		Sub:    claims.Subject,
		Aud:    aud,
		Exp:    exp,
		Scope:  strings.Join(claims.Scopes, " "),
	}
}

func (e *Engine) issueUserTokens(ctx context.Context, user storage.User, app storage.Application, scopes []string, deviceID *string) (TokenResponse, error) {
	access, err := e.signer.IssueAccessToken(user.ID, app.ClientID, scopes, user.Role)
	if err != nil {
		return TokenResponse{}, apierr.Wrap("issue access token", err)
	}

	rawRefresh, err := GenerateRefreshToken()
	if err != nil {
		return TokenResponse{}, apierr.Wrap("generate refresh token", err)
	}

	_, err = e.store.CreateRefreshToken(ctx, storage.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		AppID:     app.ID,
		TokenHash: HashToken(rawRefresh),
		Scopes:    scopes,
		DeviceID:  deviceID,
		ExpiresAt: time.Now().Add(time.Duration(e.refreshExpiryDays) * 24 * time.Hour),
	})
	if err != nil {
		return TokenResponse{}, apierr.Wrap("persist refresh token", err)
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    e.accessExpirySecs,
		Scope:        strings.Join(scopes, " "),
	}, nil
}

func intersectScopes(requested, allowed []string) []string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		allowedSet[s] = struct{}{}
	}
	out := make([]string, 0, len(requested))
	for _, s := range requested {
		if _, ok := allowedSet[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
