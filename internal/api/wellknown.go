package api

import (
	"net/http"

	"github.com/veyra-id/veyra/internal/api/helpers"
)

// JWKS implements GET /.well-known/jwks.json: publishes the signer's RSA
// public key so relying parties can verify access tokens locally.
func (s *Server) JWKS(w http.ResponseWriter, r *http.Request) {
	helpers.RespondJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]any{s.signer.PublicJWK()},
	})
}

// OIDCConfiguration implements GET /.well-known/openid-configuration.
func (s *Server) OIDCConfiguration(w http.ResponseWriter, r *http.Request) {
	issuer := s.cfg.JWTIssuer
	helpers.RespondJSON(w, http.StatusOK, map[string]any{
		"issuer":                                issuer,
		"jwks_uri":                              "/.well-known/jwks.json",
		"token_endpoint":                        "/oauth/token",
		"revocation_endpoint":                   "/oauth/revoke",
		"introspection_endpoint":                "/oauth/introspect",
		"grant_types_supported":                 []string{"authorization_code", "client_credentials", "refresh_token", "password"},
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"code_challenge_methods_supported":      []string{"plain", "S256"},
	})
}
