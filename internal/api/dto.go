package api

import (
	"encoding/json"
	"time"
)

// tokenResponseDTO mirrors auth.TokenResponse; kept separate so the wire
// shape doesn't silently change if the engine's internal struct does.
type tokenResponseDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

type tokenRequestDTO struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	CodeVerifier string `json:"code_verifier,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	DeviceID     *string `json:"device_id,omitempty"`
}

type revokeRequestDTO struct {
	Token string `json:"token"`
}

type introspectRequestDTO struct {
	Token string `json:"token"`
}

type introspectResponseDTO struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub,omitempty"`
	Aud    string `json:"aud,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
	Scope  string `json:"scope,omitempty"`
}

type registerRequestDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type registerResponseDTO struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type providerLoginRequestDTO struct {
	Credential any `json:"credential"`
}

type refreshRequestDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequestDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type userDTO struct {
	ID            string  `json:"id"`
	Email         *string `json:"email,omitempty"`
	Name          *string `json:"name,omitempty"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	EmailVerified bool    `json:"email_verified"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type updateProfileRequestDTO struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type accountDTO struct {
	ID                string  `json:"id"`
	ProviderID        string  `json:"provider_id"`
	ProviderAccountID *string `json:"provider_account_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type linkAccountRequestDTO struct {
	Credential any `json:"credential"`
}

type applicationDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ClientID      string    `json:"client_id"`
	RedirectURIs  []string  `json:"redirect_uris"`
	AllowedScopes []string  `json:"allowed_scopes"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type createApplicationRequestDTO struct {
	Name          string   `json:"name"`
	RedirectURIs  []string `json:"redirect_uris"`
	AllowedScopes []string `json:"allowed_scopes"`
}

type createApplicationResponseDTO struct {
	applicationDTO
	ClientSecret string `json:"client_secret"`
}

type updateApplicationRequestDTO struct {
	Name          *string  `json:"name,omitempty"`
	RedirectURIs  []string `json:"redirect_uris,omitempty"`
	AllowedScopes []string `json:"allowed_scopes,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type rotateSecretResponseDTO struct {
	ClientSecret string `json:"client_secret"`
}

type appProviderDTO struct {
	ID         string          `json:"id"`
	AppID      string          `json:"app_id"`
	ProviderID string          `json:"provider_id"`
	Config     json.RawMessage `json:"config"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

type createAppProviderRequestDTO struct {
	ProviderID string          `json:"provider_id"`
	Config     json.RawMessage `json:"config"`
	IsActive   bool            `json:"is_active"`
}

type createUserRequestDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
	Role     string  `json:"role,omitempty"`
}

type updateUserRequestDTO struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type statsResponseDTO struct {
	Applications int64 `json:"applications"`
	Users        int64 `json:"users"`
}

type auditLogDTO struct {
	ID        string          `json:"id"`
	ActorID   *string         `json:"actor_id,omitempty"`
	AppID     *string         `json:"app_id,omitempty"`
	Action    string          `json:"action"`
	TargetID  *string         `json:"target_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

type paginatedDTO struct {
	Items  any   `json:"items"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total,omitempty"`
}
