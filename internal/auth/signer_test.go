package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, expiry time.Duration) *TokenSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	})

	signer, err := NewTokenSigner(privPEM, pubPEM, "veyra-test", expiry)
	require.NoError(t, err)
	return signer
}

func TestAccessTokenRoundTrip(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	token, err := signer.IssueAccessToken("user-1", "client-1", []string{"profile", "email"}, "user")
	require.NoError(t, err)

	claims, err := signer.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, []string{"client-1"}, []string(claims.Audience))
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, []string{"profile", "email"}, claims.Scopes)
}

func TestAppTokenRoundTrip(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	token, err := signer.IssueAppToken("app-1")
	require.NoError(t, err)

	claims, err := signer.VerifyAppToken(token)
	require.NoError(t, err)
	assert.Equal(t, "app-1", claims.Subject)
	assert.Equal(t, "client_credentials", claims.GrantType)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	signer := newTestSigner(t, -time.Minute)

	token, err := signer.IssueAccessToken("user-1", "client-1", nil, "user")
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccessTokenWrongSigner(t *testing.T) {
	signer := newTestSigner(t, time.Hour)
	other := newTestSigner(t, time.Hour)

	token, err := signer.IssueAccessToken("user-1", "client-1", nil, "user")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAppTokenAcceptsUserTokenWithEmptyGrantType(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	token, err := signer.IssueAccessToken("user-1", "client-1", nil, "user")
	require.NoError(t, err)

	// AppClaims has no "scopes"/"role" fields, so a user-access token still
	// parses, but GrantType comes back empty rather than producing an error.
	claims, err := signer.VerifyAppToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.GrantType)
}

func TestPublicJWKShape(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	jwk := signer.PublicJWK()
	assert.Equal(t, "RSA", jwk["kty"])
	assert.Equal(t, "sig", jwk["use"])
	assert.Equal(t, "RS256", jwk["alg"])
	assert.NotEmpty(t, jwk["n"])
	assert.NotEmpty(t, jwk["e"])
	assert.NotEmpty(t, jwk["kid"])
}

func TestPublicJWKStableAcrossCalls(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	first := signer.PublicJWK()
	second := signer.PublicJWK()
	assert.Equal(t, first["kid"], second["kid"])
	assert.Equal(t, first["n"], second["n"])
}
