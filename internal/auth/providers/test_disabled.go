//go:build !testprovider

package providers

import (
	"encoding/json"

	"github.com/veyra-id/veyra/internal/apierr"
)

// newTestProvider is disabled unless the binary is built with the
// testprovider tag: the deterministic test provider must never be
// reachable in production.
func newTestProvider(json.RawMessage) (AuthProvider, error) {
	return nil, apierr.ProviderNotSupportedf("test")
}
