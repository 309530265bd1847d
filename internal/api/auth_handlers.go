package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/api/middleware"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/audit"
	"github.com/veyra-id/veyra/internal/storage"
)

// Register implements POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("register: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	app, err := s.appFromContext(r)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	userID, tokens, err := s.engine.Register(r.Context(), app, req.Email, req.Password, req.Name)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "user.registered", audit.LogParams{
		ActorID: &userID,
		AppID:   &app.ID,
	})

	helpers.RespondJSON(w, http.StatusCreated, registerResponseDTO{
		UserID:       userID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// Login implements POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("login: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	app, err := s.appFromContext(r)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	tokens, err := s.engine.Login(r.Context(), app, req.Email, req.Password)
	if err != nil {
		slog.Warn("login: failed attempt", "email", req.Email, "ip", helpers.GetRealIP(r))
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "user.login", audit.LogParams{AppID: &app.ID})
	helpers.RespondJSON(w, http.StatusOK, toTokenResponseDTO(tokens))
}

// ProviderLogin implements POST /api/auth/provider/{provider_id}/login.
func (s *Server) ProviderLogin(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider_id")

	var req providerLoginRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("provider login: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	credential, err := json.Marshal(req.Credential)
	if err != nil {
		helpers.RespondError(w, apierr.BadRequest("invalid credential payload"))
		return
	}

	app, err := s.appFromContext(r)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	tokens, err := s.engine.ProviderLogin(r.Context(), app, providerID, credential)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "user.provider_login", audit.LogParams{AppID: &app.ID})
	helpers.RespondJSON(w, http.StatusOK, toTokenResponseDTO(tokens))
}

// Refresh implements POST /api/auth/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("refresh: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	app, err := s.appFromContext(r)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	tokens, err := s.engine.RefreshSession(r.Context(), app, req.RefreshToken)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	helpers.RespondJSON(w, http.StatusOK, toTokenResponseDTO(tokens))
}

// Logout implements POST /api/auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("logout: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	if err := s.engine.Logout(r.Context(), req.RefreshToken); err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "user.logout", audit.LogParams{ActorID: &userID})
	helpers.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// appFromContext loads the application bound by ClientApp for the
// current request and verifies it is still active.
func (s *Server) appFromContext(r *http.Request) (storage.Application, error) {
	appID, err := middleware.GetAppID(r.Context())
	if err != nil {
		return storage.Application{}, apierr.MissingClientID
	}
	app, err := s.store.GetApplicationByID(r.Context(), appID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Application{}, apierr.ApplicationNotFound
		}
		return storage.Application{}, apierr.Wrap("lookup application", err)
	}
	if !app.IsActive {
		return storage.Application{}, apierr.ApplicationNotActive
	}
	return app, nil
}
