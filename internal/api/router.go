package api

import (
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/veyra-id/veyra/internal/api/middleware"
	"github.com/veyra-id/veyra/internal/metrics"
	"github.com/veyra-id/veyra/internal/ratelimit"
)

func (s *Server) newRouter() *chi.Mux {
	r := chi.NewRouter()

	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(sentryHandler.Handle)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(s.cfg.CORSAllowedOrigins))

	r.Get("/health", s.Health)
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/.well-known/jwks.json", s.JWKS)
	r.Get("/.well-known/openid-configuration", s.OIDCConfiguration)

	r.Route("/oauth", func(r chi.Router) {
		r.Use(middleware.AuthenticatedApp(s.store, s.hasher))
		r.Use(middleware.RateLimit(s.rateLimit, ratelimit.GroupOAuth))
		r.Post("/token", s.Token)
		r.Post("/revoke", s.Revoke)
		r.Post("/introspect", s.Introspect)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ClientApp(s.store))
			r.Use(middleware.RateLimit(s.rateLimit, ratelimit.GroupAuth))
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
			r.Post("/provider/{provider_id}/login", s.ProviderLogin)
			r.Post("/refresh", s.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthenticatedUser(s.signer))
			r.Use(middleware.RateLimit(s.rateLimit, ratelimit.GroupUser))
			r.Post("/logout", s.Logout)
		})
	})

	r.Route("/api/users/me", func(r chi.Router) {
		r.Use(middleware.AuthenticatedUser(s.signer))
		r.Use(middleware.RateLimit(s.rateLimit, ratelimit.GroupUser))
		r.Get("/", s.GetProfile)
		r.Patch("/", s.UpdateProfile)
		r.Get("/accounts", s.ListAccounts)
		r.Post("/accounts/{provider_id}/link", s.LinkAccount)
		r.Delete("/accounts/{provider_id}", s.UnlinkAccount)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(s.signer))
		r.Use(middleware.RateLimit(s.rateLimit, ratelimit.GroupAdmin))

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", s.ListApplications)
			r.Post("/", s.CreateApplication)
			r.Get("/{app_id}", s.GetApplication)
			r.Patch("/{app_id}", s.UpdateApplication)
			r.Post("/{app_id}/rotate-secret", s.RotateApplicationSecret)
			r.Get("/{app_id}/providers", s.ListAppProviders)
			r.Post("/{app_id}/providers", s.CreateAppProvider)
			r.Delete("/{app_id}/providers/{provider_id}", s.DeleteAppProvider)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.AdminListUsers)
			r.Post("/", s.AdminCreateUser)
			r.Get("/{user_id}", s.AdminGetUser)
			r.Patch("/{user_id}", s.AdminUpdateUser)
			r.Get("/{user_id}/accounts", s.AdminListUserAccounts)
			r.Delete("/{user_id}/accounts/{provider_id}", s.AdminUnlinkUserAccount)
		})

		r.Get("/stats", s.Stats)
		r.Get("/audit-log", s.ListAuditLog)
	})

	return r
}
