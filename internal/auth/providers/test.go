//go:build testprovider

package providers

import (
	"context"
	"encoding/json"

	"github.com/veyra-id/veyra/internal/apierr"
)

type testCredential struct {
	AccountID string  `json:"account_id"`
	Email     *string `json:"email,omitempty"`
	Name      *string `json:"name,omitempty"`
}

type testProviderImpl struct{}

func newTestProvider(json.RawMessage) (AuthProvider, error) {
	return testProviderImpl{}, nil
}

func (testProviderImpl) ProviderID() string { return "test" }

// Authenticate echoes its input back as a ProviderUserInfo, letting
// integration tests exercise the identity resolver without a real
// federated round trip.
func (testProviderImpl) Authenticate(_ context.Context, credential json.RawMessage) (ProviderUserInfo, error) {
	var cred testCredential
	if err := json.Unmarshal(credential, &cred); err != nil || cred.AccountID == "" {
		return ProviderUserInfo{}, apierr.BadRequest(`invalid test credential: expected {"account_id": "..."}`)
	}
	return ProviderUserInfo{
		ProviderAccountID: cred.AccountID,
		Email:             cred.Email,
		Name:              cred.Name,
		Metadata:          map[string]any{},
	}, nil
}
