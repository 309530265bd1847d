package api

import (
	"encoding/json"

	"github.com/veyra-id/veyra/internal/auth"
	"github.com/veyra-id/veyra/internal/storage"
)

func toTokenResponseDTO(t auth.TokenResponse) tokenResponseDTO {
	return tokenResponseDTO{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		Scope:        t.Scope,
	}
}

func toUserDTO(u storage.User) userDTO {
	return userDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		Role:          u.Role,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toAccountDTO(a storage.Account) accountDTO {
	return accountDTO{
		ID:                a.ID,
		ProviderID:        a.ProviderID,
		ProviderAccountID: a.ProviderAccountID,
		CreatedAt:         a.CreatedAt,
	}
}

func toApplicationDTO(a storage.Application) applicationDTO {
	return applicationDTO{
		ID:            a.ID,
		Name:          a.Name,
		ClientID:      a.ClientID,
		RedirectURIs:  a.RedirectURIs,
		AllowedScopes: a.AllowedScopes,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAppProviderDTO(p storage.AppProvider) appProviderDTO {
	return appProviderDTO{
		ID:         p.ID,
		AppID:      p.AppID,
		ProviderID: p.ProviderID,
		Config:     json.RawMessage(p.Config),
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

func toAuditLogDTO(e storage.AuditLog) auditLogDTO {
	return auditLogDTO{
		ID:        e.ID,
		ActorID:   e.ActorID,
		AppID:     e.AppID,
		Action:    e.Action,
		TargetID:  e.TargetID,
		Metadata:  json.RawMessage(e.Metadata),
		CreatedAt: e.CreatedAt,
	}
}
