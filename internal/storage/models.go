// Package storage is the store gateway: typed, parameterized operations
// against the seven tables defined in db/migrations. IDs are stored as
// text UUIDs and JSON-ish list columns (redirect_uris, allowed_scopes,
// scopes) are stored as TEXT holding a JSON array, decoded at the
// boundary.
package storage

import "time"

// Application is a relying party.
type Application struct {
	ID                string
	Name              string
	ClientID          string
	ClientSecretHash  string
	RedirectURIs      []string
	AllowedScopes     []string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AppProvider binds a provider to an application.
type AppProvider struct {
	ID         string
	AppID      string
	ProviderID string
	Config     string // opaque JSON, parsed by the provider constructor
	IsActive   bool
	CreatedAt  time.Time
}

// User is a principal.
type User struct {
	ID            string
	Email         *string
	Name          *string
	AvatarURL     *string
	EmailVerified bool
	Role          string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Account binds a user to one provider identity.
type Account struct {
	ID                 string
	UserID             string
	ProviderID         string
	ProviderAccountID  *string
	Credential         *string
	ProviderMetadata   string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AuthorizationCode is single-use and short-lived.
type AuthorizationCode struct {
	Code                string
	AppID               string
	UserID              string
	RedirectURI         string
	Scopes              []string
	CodeChallenge       *string
	CodeChallengeMethod *string
	ExpiresAt           time.Time
	Used                bool
	CreatedAt           time.Time
}

// RefreshToken is long-lived and rotating.
type RefreshToken struct {
	ID        string
	UserID    string
	AppID     string
	TokenHash string
	Scopes    []string
	DeviceID  *string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// AuditLog is an append-only security event record.
type AuditLog struct {
	ID        string
	ActorID   *string
	AppID     *string
	Action    string
	TargetID  *string
	Metadata  string
	CreatedAt time.Time
}
