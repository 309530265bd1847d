package auth

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/auth/providers"
	"github.com/veyra-id/veyra/internal/storage"
)

// Identity is the subset of IdentityResolver the onboarding flows need;
// Engine depends on the interface so tests can substitute a fake.
type Identity interface {
	Resolve(ctx context.Context, providerID string, info providers.ProviderUserInfo) (ResolvedIdentity, error)
}

// WithIdentity attaches an identity resolver, enabling ProviderLogin.
// Register/Login/RefreshSession/Logout work without one.
func (e *Engine) WithIdentity(resolver Identity) *Engine {
	e.identity = resolver
	return e
}

// Register implements POST /api/auth/register: creates a user with a
// password account and issues tokens under the given application.
func (e *Engine) Register(ctx context.Context, app storage.Application, email, password string, name *string) (string, TokenResponse, error) {
	if err := ValidatePasswordComplexity(password); err != nil {
		return "", TokenResponse{}, apierr.BadRequest(err.Error())
	}

	if _, err := e.store.GetUserByEmail(ctx, email); err == nil {
		return "", TokenResponse{}, apierr.UserAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", TokenResponse{}, apierr.Wrap("check existing user", err)
	}

	hash, err := e.hasher.Hash(password)
	if err != nil {
		return "", TokenResponse{}, apierr.Wrap("hash password", err)
	}

	user, err := e.store.CreateUser(ctx, storage.User{
		ID:            uuid.NewString(),
		Email:         &email,
		Name:          name,
		EmailVerified: false,
		Role:          "user",
		IsActive:      true,
	})
	if err != nil {
		return "", TokenResponse{}, apierr.Wrap("create user", err)
	}

	if _, err := e.store.CreateAccount(ctx, storage.Account{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		ProviderID:        "password",
		ProviderAccountID: &email,
		Credential:        &hash,
		ProviderMetadata:  "{}",
	}); err != nil {
		return "", TokenResponse{}, apierr.Wrap("create password account", err)
	}

	tokens, err := e.issueUserTokens(ctx, user, app, app.AllowedScopes, nil)
	return user.ID, tokens, err
}

// Login implements POST /api/auth/login: first-party password
// authentication for end users.
func (e *Engine) Login(ctx context.Context, app storage.Application, email, password string) (TokenResponse, error) {
	return e.exchangePassword(ctx, app, TokenRequest{Username: email, Password: password})
}

// ProviderLogin implements POST /api/auth/provider/{provider_id}/login.
func (e *Engine) ProviderLogin(ctx context.Context, app storage.Application, providerID string, credential json.RawMessage) (TokenResponse, error) {
	if e.identity == nil {
		return TokenResponse{}, apierr.Wrap("provider login", errors.New("identity resolver not configured"))
	}

	binding, err := e.store.GetAppProvider(ctx, app.ID, providerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenResponse{}, apierr.ProviderNotConfigured
		}
		return TokenResponse{}, apierr.Wrap("lookup app provider", err)
	}
	if !binding.IsActive {
		return TokenResponse{}, apierr.ProviderNotConfigured
	}

	provider, err := providers.Create(providerID, json.RawMessage(binding.Config))
	if err != nil {
		return TokenResponse{}, err
	}

	info, err := provider.Authenticate(ctx, credential)
	if err != nil {
		return TokenResponse{}, err
	}

	identity, err := e.identity.Resolve(ctx, providerID, info)
	if err != nil {
		return TokenResponse{}, err
	}

	user, err := e.store.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return TokenResponse{}, apierr.Wrap("load resolved user", err)
	}

	return e.issueUserTokens(ctx, user, app, app.AllowedScopes, nil)
}

// RefreshSession implements POST /api/auth/refresh: identical grant
// semantics to the refresh_token grant on the token endpoint, reached
// through ClientApp authentication instead of AuthenticatedApp.
func (e *Engine) RefreshSession(ctx context.Context, app storage.Application, rawToken string) (TokenResponse, error) {
	return e.exchangeRefreshToken(ctx, app, TokenRequest{RefreshToken: rawToken})
}

// Logout implements POST /api/auth/logout: revokes the presented refresh
// token outright (not RFC 7009's always-200 semantics — this is a
// first-party, authenticated endpoint, so an unknown token is an error).
func (e *Engine) Logout(ctx context.Context, rawToken string) error {
	hash := HashToken(rawToken)
	if _, err := e.store.RevokeRefreshTokenByHash(ctx, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apierr.InvalidToken
		}
		return apierr.Wrap("revoke session", err)
	}
	return nil
}
