package api

import (
	"log/slog"

	gosundheit "github.com/AppsFlyer/go-sundheit"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veyra-id/veyra/internal/audit"
	"github.com/veyra-id/veyra/internal/auth"
	"github.com/veyra-id/veyra/internal/config"
	"github.com/veyra-id/veyra/internal/ratelimit"
	"github.com/veyra-id/veyra/internal/storage"
)

// Server holds every dependency the HTTP surface needs. It owns no
// business logic of its own; handlers delegate to the engine, identity
// resolver and store gateway.
type Server struct {
	Router *chi.Mux

	store     *storage.Store
	pool      *pgxpool.Pool
	engine    *auth.Engine
	identity  *auth.IdentityResolver
	signer    *auth.TokenSigner
	hasher    auth.PasswordHasher
	audit     audit.Service
	rateLimit *ratelimit.Registry
	cfg       config.Config
	health    gosundheit.Health
	logger    *slog.Logger
}

// NewServer wires dependencies and builds the route tree.
func NewServer(
	pool *pgxpool.Pool,
	store *storage.Store,
	engine *auth.Engine,
	identity *auth.IdentityResolver,
	signer *auth.TokenSigner,
	hasher auth.PasswordHasher,
	auditSvc audit.Service,
	rateLimit *ratelimit.Registry,
	cfg config.Config,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:     store,
		pool:      pool,
		engine:    engine,
		identity:  identity,
		signer:    signer,
		hasher:    hasher,
		audit:     auditSvc,
		rateLimit: rateLimit,
		cfg:       cfg,
		logger:    logger,
	}
	s.health = newHealthChecker(pool, func() bool { return signer != nil })
	s.Router = s.newRouter()
	return s
}

