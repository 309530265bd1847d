// Package providers implements the identity provider registry: a map
// from provider_id to a constructor that turns an application's opaque
// config blob into an AuthProvider capable of authenticating a
// provider-specific credential payload.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/veyra-id/veyra/internal/apierr"
)

// ProviderUserInfo is the normalized identity a provider hands back after
// a successful authenticate call.
type ProviderUserInfo struct {
	ProviderAccountID string
	Email             *string
	Name              *string
	AvatarURL         *string
	Metadata          map[string]any
}

// AuthProvider is the capability set every provider variant satisfies.
// Implementations are self-contained tagged variants, never a shared base
// type — an unknown provider_id fails at registry lookup, never at a
// runtime type assertion.
type AuthProvider interface {
	ProviderID() string
	Authenticate(ctx context.Context, credential json.RawMessage) (ProviderUserInfo, error)
}

type constructor func(config json.RawMessage) (AuthProvider, error)

var registry = map[string]constructor{
	"password": func(json.RawMessage) (AuthProvider, error) { return passwordMarker{}, nil },
	"wechat":   newWeChatProvider,
	"test":     newTestProvider,
}

// Create builds the AuthProvider for provider_id from its per-application
// config blob. Unknown ids fail with ProviderNotSupported.
func Create(providerID string, config json.RawMessage) (AuthProvider, error) {
	ctor, ok := registry[providerID]
	if !ok {
		return nil, apierr.ProviderNotSupportedf(providerID)
	}
	p, err := ctor(config)
	if err != nil {
		return nil, fmt.Errorf("construct provider %q: %w", providerID, err)
	}
	return p, nil
}

// passwordMarker is retained purely so accounts with provider_id="password"
// resolve to a registered value; actual password authentication is
// handled directly by the OAuth2 engine and the auth handlers, never
// through Authenticate.
type passwordMarker struct{}

func (passwordMarker) ProviderID() string { return "password" }

func (passwordMarker) Authenticate(context.Context, json.RawMessage) (ProviderUserInfo, error) {
	return ProviderUserInfo{}, fmt.Errorf("password provider does not implement Authenticate")
}
