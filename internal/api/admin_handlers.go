package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/api/middleware"
	"github.com/veyra-id/veyra/internal/apierr"
	"github.com/veyra-id/veyra/internal/audit"
	"github.com/veyra-id/veyra/internal/auth"
	"github.com/veyra-id/veyra/internal/storage"
)

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// ListApplications implements GET /admin/applications.
func (s *Server) ListApplications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	apps, err := s.store.ListApplications(r.Context(), limit, offset)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("list applications", err))
		return
	}
	out := make([]applicationDTO, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationDTO(a))
	}
	helpers.RespondJSON(w, http.StatusOK, paginatedDTO{Items: out, Limit: limit, Offset: offset})
}

// CreateApplication implements POST /admin/applications.
func (s *Server) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("create application: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		helpers.RespondError(w, apierr.BadRequest("name is required"))
		return
	}

	clientSecret := uuid.NewString() + uuid.NewString()
	app, err := s.store.CreateApplication(r.Context(), storage.Application{
		ID:               uuid.NewString(),
		Name:             req.Name,
		ClientID:         uuid.NewString(),
		ClientSecretHash: auth.HashClientSecret(clientSecret),
		RedirectURIs:     req.RedirectURIs,
		AllowedScopes:    req.AllowedScopes,
		IsActive:         true,
	})
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("create application", err))
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "application.created", audit.LogParams{ActorID: &actorID, TargetID: &app.ID})

	helpers.RespondJSON(w, http.StatusCreated, createApplicationResponseDTO{
		applicationDTO: toApplicationDTO(app),
		ClientSecret:   clientSecret,
	})
}

// GetApplication implements GET /admin/applications/{app_id}.
func (s *Server) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.store.GetApplicationByID(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.ApplicationNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load application", err))
		return
	}
	helpers.RespondJSON(w, http.StatusOK, toApplicationDTO(app))
}

// UpdateApplication implements PATCH /admin/applications/{app_id}.
func (s *Server) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	app, err := s.store.GetApplicationByID(r.Context(), appID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.ApplicationNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load application", err))
		return
	}

	var req updateApplicationRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("update application: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if req.Name != nil {
		app.Name = *req.Name
	}
	if req.RedirectURIs != nil {
		app.RedirectURIs = req.RedirectURIs
	}
	if req.AllowedScopes != nil {
		app.AllowedScopes = req.AllowedScopes
	}
	if req.IsActive != nil {
		app.IsActive = *req.IsActive
	}

	updated, err := s.store.UpdateApplication(r.Context(), app)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("update application", err))
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "application.updated", audit.LogParams{ActorID: &actorID, TargetID: &appID})
	helpers.RespondJSON(w, http.StatusOK, toApplicationDTO(updated))
}

// RotateApplicationSecret implements POST /admin/applications/{app_id}/rotate-secret.
func (s *Server) RotateApplicationSecret(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	app, err := s.store.GetApplicationByID(r.Context(), appID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.ApplicationNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load application", err))
		return
	}

	clientSecret := uuid.NewString() + uuid.NewString()
	app.ClientSecretHash = auth.HashClientSecret(clientSecret)
	if _, err := s.store.UpdateApplication(r.Context(), app); err != nil {
		helpers.RespondError(w, apierr.Wrap("rotate secret", err))
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "application.secret_rotated", audit.LogParams{ActorID: &actorID, TargetID: &appID})
	helpers.RespondJSON(w, http.StatusOK, rotateSecretResponseDTO{ClientSecret: clientSecret})
}

// ListAppProviders implements GET /admin/applications/{app_id}/providers.
func (s *Server) ListAppProviders(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	bindings, err := s.store.ListAppProviders(r.Context(), appID)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("list app providers", err))
		return
	}
	out := make([]appProviderDTO, 0, len(bindings))
	for _, p := range bindings {
		out = append(out, toAppProviderDTO(p))
	}
	helpers.RespondJSON(w, http.StatusOK, out)
}

// CreateAppProvider implements POST /admin/applications/{app_id}/providers.
func (s *Server) CreateAppProvider(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")

	var req createAppProviderRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("create app provider: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if req.ProviderID == "" {
		helpers.RespondError(w, apierr.BadRequest("provider_id is required"))
		return
	}

	config := req.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	binding, err := s.store.CreateAppProvider(r.Context(), storage.AppProvider{
		ID:         uuid.NewString(),
		AppID:      appID,
		ProviderID: req.ProviderID,
		Config:     string(config),
		IsActive:   req.IsActive,
	})
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("create app provider", err))
		return
	}

	helpers.RespondJSON(w, http.StatusCreated, toAppProviderDTO(binding))
}

// DeleteAppProvider implements DELETE /admin/applications/{app_id}/providers/{provider_id}.
func (s *Server) DeleteAppProvider(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	providerID := chi.URLParam(r, "provider_id")

	if err := s.store.DeleteAppProvider(r.Context(), appID, providerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.ProviderNotSupportedf(providerID))
			return
		}
		helpers.RespondError(w, apierr.Wrap("delete app provider", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListUsers implements GET /admin/users.
func (s *Server) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	users, err := s.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("list users", err))
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	helpers.RespondJSON(w, http.StatusOK, paginatedDTO{Items: out, Limit: limit, Offset: offset})
}

// AdminCreateUser implements POST /admin/users.
func (s *Server) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("admin create user: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if err := auth.ValidatePasswordComplexity(req.Password); err != nil {
		helpers.RespondError(w, apierr.BadRequest(err.Error()))
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		helpers.RespondError(w, apierr.UserAlreadyExists)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		helpers.RespondError(w, apierr.Wrap("check existing user", err))
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("hash password", err))
		return
	}

	user, err := s.store.CreateUser(r.Context(), storage.User{
		ID:       uuid.NewString(),
		Email:    &req.Email,
		Name:     req.Name,
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("create user", err))
		return
	}
	if _, err := s.store.CreateAccount(r.Context(), storage.Account{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		ProviderID:        "password",
		ProviderAccountID: &req.Email,
		Credential:        &hash,
		ProviderMetadata:  "{}",
	}); err != nil {
		helpers.RespondError(w, apierr.Wrap("create password account", err))
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "user.created_by_admin", audit.LogParams{ActorID: &actorID, TargetID: &user.ID})
	helpers.RespondJSON(w, http.StatusCreated, toUserDTO(user))
}

// AdminGetUser implements GET /admin/users/{user_id}.
func (s *Server) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.UserNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load user", err))
		return
	}
	helpers.RespondJSON(w, http.StatusOK, toUserDTO(user))
}

// AdminUpdateUser implements PATCH /admin/users/{user_id}.
func (s *Server) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondError(w, apierr.UserNotFound)
			return
		}
		helpers.RespondError(w, apierr.Wrap("load user", err))
		return
	}

	var req updateUserRequestDTO
	if err := helpers.DecodeJSON(r, &req); err != nil {
		slog.Warn("admin update user: invalid request body", "error", err)
		helpers.RespondError(w, apierr.BadRequest("invalid request body"))
		return
	}
	if req.Name != nil {
		user.Name = req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	wasActive := user.IsActive
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	updated, err := s.store.UpdateUser(r.Context(), user)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("update user", err))
		return
	}
	if wasActive && !updated.IsActive {
		if err := s.store.RevokeAllRefreshTokensForUser(r.Context(), updated.ID); err != nil {
			slog.Error("revoke sessions on deactivation failed", "user", updated.ID, "error", err)
		}
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "user.updated_by_admin", audit.LogParams{ActorID: &actorID, TargetID: &userID})
	helpers.RespondJSON(w, http.StatusOK, toUserDTO(updated))
}

// AdminListUserAccounts implements GET /admin/users/{user_id}/accounts.
func (s *Server) AdminListUserAccounts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
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

// AdminUnlinkUserAccount implements DELETE /admin/users/{user_id}/accounts/{provider_id}.
func (s *Server) AdminUnlinkUserAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	providerID := chi.URLParam(r, "provider_id")

	if err := s.identity.Unlink(r.Context(), userID, providerID); err != nil {
		helpers.RespondError(w, err)
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	s.audit.Log(r.Context(), "account.unlinked_by_admin", audit.LogParams{ActorID: &actorID, TargetID: &userID})
	w.WriteHeader(http.StatusNoContent)
}

// Stats implements GET /admin/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	appCount, err := s.store.CountApplications(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("count applications", err))
		return
	}
	userCount, err := s.store.CountUsers(r.Context())
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("count users", err))
		return
	}
	helpers.RespondJSON(w, http.StatusOK, statsResponseDTO{Applications: appCount, Users: userCount})
}
