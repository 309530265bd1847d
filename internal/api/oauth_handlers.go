package api

import (
	"log/slog"
	"net/http"

	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/audit"
	"github.com/veyra-id/veyra/internal/auth"
)

// Token implements POST /oauth/token.
func (s *Server) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("token: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	app, err := s.appFromContext(r)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	tokens, err := s.engine.Exchange(r.Context(), app, auth.TokenRequest{
		GrantType:    req.GrantType,
		Code:         req.Code,
		RedirectURI:  req.RedirectURI,
		CodeVerifier: req.CodeVerifier,
		Username:     req.Username,
		Password:     req.Password,
		RefreshToken: req.RefreshToken,
		Scope:        req.Scope,
		DeviceID:     req.DeviceID,
	})
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "oauth.token_issued", audit.LogParams{
		AppID:    &app.ID,
		Metadata: map[string]any{"grant_type": req.GrantType},
	})
	helpers.RespondJSON(w, http.StatusOK, toTokenResponseDTO(tokens))
}

// Revoke implements POST /oauth/revoke. Always 200 per RFC 7009 §2.2.
func (s *Server) Revoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("revoke: invalid request body", "error", err)
		helpers.RespondJSON(w, http.StatusOK, map[string]string{})
		return
	}

	if err := s.engine.Revoke(r.Context(), req.Token); err != nil {
		slog.Error("revoke: store error", "error", err)
	}
	helpers.RespondJSON(w, http.StatusOK, map[string]string{})
}

// Introspect implements POST /oauth/introspect.
func (s *Server) Introspect(w http.ResponseWriter, r *http.Request) {
	var req introspectRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("introspect: invalid request body", "error", err)
		helpers.RespondJSON(w, http.StatusOK, introspectResponseDTO{Active: false})
		return
	}

	result := s.engine.Introspect(req.Token)
	helpers.RespondJSON(w, http.StatusOK, introspectResponseDTO{
		Active: result.Active,
		Sub:    result.Sub,
		Aud:    result.Aud,
		Exp:    result.Exp,
		Scope:  result.Scope,
	})
}
