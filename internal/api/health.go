package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	gosundheit "github.com/AppsFlyer/go-sundheit"
	"github.com/AppsFlyer/go-sundheit/checks"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veyra-id/veyra/internal/api/helpers"
)

var errSigningKeysNotLoaded = errors.New("signing key pair not loaded")

// newHealthChecker wires the two checks behind GET /health: database
// connectivity and whether the signing key pair loaded. Server.Health
// nests their results under "checks" alongside the overall status.
func newHealthChecker(pool *pgxpool.Pool, keysLoaded func() bool) gosundheit.Health {
	h := gosundheit.New()

	h.RegisterCheck(&gosundheit.Config{
		Check: &checks.CustomCheck{
			CheckName: "database",
			CheckFunc: func() (interface{}, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := pool.Ping(ctx); err != nil {
					return nil, err
				}
				return "ok", nil
			},
		},
		ExecutionPeriod:  15 * time.Second,
		InitiallyPassing: true,
	})

	h.RegisterCheck(&gosundheit.Config{
		Check: &checks.CustomCheck{
			CheckName: "signing_keys",
			CheckFunc: func() (interface{}, error) {
				if !keysLoaded() {
					return nil, errSigningKeysNotLoaded
				}
				return "ok", nil
			},
		},
		ExecutionPeriod:  1 * time.Minute,
		InitiallyPassing: true,
	})

	return h
}

// Health serves GET /health: {status, version} plus a per-check
// breakdown from go-sundheit. status/version are the contract the rest
// of the system (and load balancer health probes) depend on; the checks
// map is additional detail, not a replacement for those two fields.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	results, healthy := s.health.Results()

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	helpers.RespondJSON(w, code, map[string]any{
		"status":  status,
		"version": s.cfg.Version,
		"checks":  results,
	})
}
