package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/auth/providers"
	"github.com/veyra-id/veyra/internal/storage"
)

// IdentityResolver implements account linking: given a verified ProviderUserInfo, it
// finds or creates the linked user and account.
type IdentityResolver struct {
	store *storage.Store
}

// NewIdentityResolver builds an IdentityResolver over the given store.
func NewIdentityResolver(store *storage.Store) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// ResolvedIdentity is what the OAuth2 engine needs to issue tokens after
// resolution.
type ResolvedIdentity struct {
	UserID string
	Role   string
}

// Resolve finds or creates the user bound to (providerID, info.ProviderAccountID).
func (r *IdentityResolver) Resolve(ctx context.Context, providerID string, info providers.ProviderUserInfo) (ResolvedIdentity, error) {
	metadataJSON, err := encodeMetadata(info.Metadata)
	if err != nil {
		return ResolvedIdentity{}, apierr.Wrap("encode provider metadata", err)
	}

	account, err := r.store.GetAccountByProviderIdentity(ctx, providerID, info.ProviderAccountID)
	switch {
	case err == nil:
		if _, err := r.store.UpdateAccountMetadata(ctx, account.ID, account.Credential, metadataJSON); err != nil {
			return ResolvedIdentity{}, apierr.Wrap("update account metadata", err)
		}
		user, err := r.store.GetUserByID(ctx, account.UserID)
		if err != nil {
			return ResolvedIdentity{}, apierr.Wrap("load account owner", err)
		}
		if !user.IsActive {
			return ResolvedIdentity{}, apierr.UserDisabled
		}
		return ResolvedIdentity{UserID: user.ID, Role: user.Role}, nil

	case errors.Is(err, storage.ErrNotFound):
		user, err := r.store.CreateUser(ctx, storage.User{
			ID:            uuid.NewString(),
			Email:         info.Email,
			Name:          info.Name,
			AvatarURL:     info.AvatarURL,
			EmailVerified: false,
			Role:          "user",
			IsActive:      true,
		})
		if err != nil {
			return ResolvedIdentity{}, apierr.Wrap("create user", err)
		}
		if _, err := r.store.CreateAccount(ctx, storage.Account{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			ProviderID:        providerID,
			ProviderAccountID: &info.ProviderAccountID,
			Credential:        nil,
			ProviderMetadata:  metadataJSON,
		}); err != nil {
			return ResolvedIdentity{}, apierr.Wrap("create account", err)
		}
		return ResolvedIdentity{UserID: user.ID, Role: "user"}, nil

	default:
		return ResolvedIdentity{}, apierr.Wrap("lookup account by provider identity", err)
	}
}

// Link binds an additional provider to an existing user, enforcing the
// link invariants.
func (r *IdentityResolver) Link(ctx context.Context, userID, providerID string, info providers.ProviderUserInfo, credential *string) error {
	if _, err := r.store.GetAccountByUserAndProvider(ctx, userID, providerID); err == nil {
		return apierr.AccountAlreadyLinked
	} else if !errors.Is(err, storage.ErrNotFound) {
		return apierr.Wrap("check existing account", err)
	}

	if _, err := r.store.GetAccountByProviderIdentity(ctx, providerID, info.ProviderAccountID); err == nil {
		return apierr.AccountAlreadyLinked
	} else if !errors.Is(err, storage.ErrNotFound) {
		return apierr.Wrap("check provider identity collision", err)
	}

	metadataJSON, err := encodeMetadata(info.Metadata)
	if err != nil {
		return apierr.Wrap("encode provider metadata", err)
	}

	_, err = r.store.CreateAccount(ctx, storage.Account{
		ID:                uuid.NewString(),
		UserID:            userID,
		ProviderID:        providerID,
		ProviderAccountID: &info.ProviderAccountID,
		Credential:        credential,
		ProviderMetadata:  metadataJSON,
	})
	if err != nil {
		return apierr.Wrap("create linked account", err)
	}
	return nil
}

// Unlink removes a user's binding to a provider, enforcing the
// "at least one account" invariant.
func (r *IdentityResolver) Unlink(ctx context.Context, userID, providerID string) error {
	account, err := r.store.GetAccountByUserAndProvider(ctx, userID, providerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apierr.ProviderNotSupportedf(providerID)
		}
		return apierr.Wrap("lookup account to unlink", err)
	}

	count, err := r.store.CountAccountsByUser(ctx, userID)
	if err != nil {
		return apierr.Wrap("count user accounts", err)
	}
	if count <= 1 {
		return apierr.CannotUnlinkLastAccount
	}

	if err := r.store.DeleteAccount(ctx, account.ID); err != nil {
		return apierr.Wrap("delete account", err)
	}
	return nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if m == nil {
		m = map[string]any{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal provider metadata: %w", err)
	}
	return string(b), nil
}
