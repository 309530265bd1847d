package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAuthCodeLengthAndUniqueness(t *testing.T) {
	code1, err := GenerateAuthCode()
	require.NoError(t, err)
	code2, err := GenerateAuthCode()
	require.NoError(t, err)

	assert.Len(t, code1, 128)
	assert.NotEqual(t, code1, code2)
}

func TestGenerateRefreshTokenLengthAndUniqueness(t *testing.T) {
	tok1, err := GenerateRefreshToken()
	require.NoError(t, err)
	tok2, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, tok1, 64)
	assert.NotEqual(t, tok1, tok2)
}

func TestHashTokenDeterministic(t *testing.T) {
	h1 := HashToken("refresh-token-value")
	h2 := HashToken("refresh-token-value")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashToken("a-different-value"))
}

func TestVerifyPKCES256(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	assert.True(t, VerifyPKCE(verifier, challenge, "S256"))
	assert.False(t, VerifyPKCE("wrong-verifier", challenge, "S256"))
}

func TestVerifyPKCEPlain(t *testing.T) {
	assert.True(t, VerifyPKCE("same-value", "same-value", "plain"))
	assert.False(t, VerifyPKCE("one-value", "other-value", "plain"))
}

func TestVerifyPKCEUnknownMethodFailsClosed(t *testing.T) {
	assert.False(t, VerifyPKCE("verifier", "verifier", "S512"))
	assert.False(t, VerifyPKCE("verifier", "verifier", ""))
}
