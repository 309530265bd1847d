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
	"github.com/veyra-id/veyra/internal/auth/providers"
	"github.com/veyra-id/veyra/internal/storage"
)

// GetProfile implements GET /api/users/me.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Unauthorized)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.UserNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load profile", err))
		return
	}

	helpers.RespondJSON(w, http.StatusOK, toUserDTO(user))
}

// UpdateProfile implements PATCH /api/users/me.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Unauthorized)
		return
	}

	var req updateProfileRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("update profile: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.UserNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load profile", err))
		return
	}

	if req.Name != nil {
		user.Name = req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	updated, err := s.store.UpdateUser(r.Context(), user)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("update profile", err))
		return
	}

	helpers.RespondJSON(w, http.StatusOK, toUserDTO(updated))
}

// ListAccounts implements GET /api/users/me/accounts.
func (s *Server) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Unauthorized)
		return
	}

	accounts, err := s.store.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("list accounts", err))
		return
	}

	out := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountDTO(a))
	}
	helpers.RespondJSON(w, http.StatusOK, out)
}

// LinkAccount implements POST /api/users/me/accounts/{provider_id}/link.
func (s *Server) LinkAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Unauthorized)
		return
	}
	providerID := chi.URLParam(r, "provider_id")

	clientID, err := middleware.GetClientID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.MissingClientID)
		return
	}
	app, err := s.store.GetApplicationByClientID(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.ApplicationNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("lookup application", err))
		return
	}
	appID := app.ID

	var req linkAccountRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("link account: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	credential, err := json.Marshal(req.Credential)
	if err != nil {
		helpers.RespondError(w, apierr.BadRequest("invalid credential payload"))
		return
	}

	binding, err := s.store.GetAppProvider(r.Context(), appID, providerID)
	if err != nil || !binding.IsActive {
		if errors.Is(err, storage.ErrNotFound) || (err == nil && !binding.IsActive) {
			helpers.RespondError(w, apierr.ProviderNotConfigured)
			return
		}
		helpers.RespondError(w, apierr.Wrap("lookup app provider", err))
		return
	}

	provider, err := providers.Create(providerID, json.RawMessage(binding.Config))
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	info, err := provider.Authenticate(r.Context(), credential)
	if err != nil {
		helpers.RespondError(w, err)
		return
	}

	if err := s.identity.Link(r.Context(), userID, providerID, info, nil); err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "account.linked", audit.LogParams{ActorID: &userID})
	w.WriteHeader(http.StatusNoContent)
}

// UnlinkAccount implements DELETE /api/users/me/accounts/{provider_id}.
func (s *Server) UnlinkAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Unauthorized)
		return
	}
	providerID := chi.URLParam(r, "provider_id")

	if err := s.identity.Unlink(r.Context(), userID, providerID); err != nil {
		helpers.RespondError(w, err)
		return
	}

	s.audit.Log(r.Context(), "account.unlinked", audit.LogParams{ActorID: &userID})
	w.WriteHeader(http.StatusNoContent)
}
