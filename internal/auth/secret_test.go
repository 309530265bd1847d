package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashClientSecretRoundTrip(t *testing.T) {
	hash := HashClientSecret("s3cr3t-client-value")
	assert.True(t, strings.HasPrefix(hash, "sha256:"))

	ok := VerifyClientSecret(NewArgon2Hasher(), "s3cr3t-client-value", hash)
	assert.True(t, ok)

	ok = VerifyClientSecret(NewArgon2Hasher(), "wrong-value", hash)
	assert.False(t, ok)
}

func TestVerifyClientSecretLegacyArgon2(t *testing.T) {
	h := NewArgon2Hasher()
	legacyHash, err := h.Hash("legacy-secret")
	require.NoError(t, err)

	assert.True(t, VerifyClientSecret(h, "legacy-secret", legacyHash))
	assert.False(t, VerifyClientSecret(h, "wrong", legacyHash))
}
