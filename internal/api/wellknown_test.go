package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-id/veyra/internal/auth"
	"github.com/veyra-id/veyra/internal/config"
)

func testRSAKeyPairPEM(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	})
	return privPEM, pubPEM
}

// Handler tests below exercise only the two well-known endpoints, the one
// slice of the HTTP surface with no storage dependency. Everything else on
// Server calls through to *storage.Store, a concrete type (not an
// interface), so driving it from a unit test means either a live Postgres
// connection or faking out every method the engine and middleware use —
// neither is attempted here.

func newWellKnownServer(t *testing.T) *Server {
	t.Helper()
	privPEM, pubPEM := testRSAKeyPairPEM(t)
	signer, err := auth.NewTokenSigner(privPEM, pubPEM, "veyra-test", time.Hour)
	require.NoError(t, err)
	return &Server{signer: signer, cfg: config.Config{JWTIssuer: "veyra-test"}}
}

func TestJWKS(t *testing.T) {
	s := newWellKnownServer(t)
	req := httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	rr := httptest.NewRecorder()

	s.JWKS(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, "RSA", body.Keys[0]["kty"])
	assert.Equal(t, "sig", body.Keys[0]["use"])
	assert.Equal(t, "RS256", body.Keys[0]["alg"])
	assert.NotEmpty(t, body.Keys[0]["n"])
	assert.NotEmpty(t, body.Keys[0]["kid"])
}

func TestOIDCConfiguration(t *testing.T) {
	s := newWellKnownServer(t)
	req := httptest.NewRequest(http.MethodGet, "/.well-known/openid-configuration", nil)
	rr := httptest.NewRecorder()

	s.OIDCConfiguration(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "veyra-test", body["issuer"])
	assert.Equal(t, "/oauth/token", body["token_endpoint"])
	assert.Contains(t, body["grant_types_supported"], "authorization_code")
}
