package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error fn returns. The OAuth2 engine's compare-and-swap
// operations do not go through it: marking an authorization code used
// (ConsumeAuthorizationCode) and revoking a refresh token on rotation
// (RevokeRefreshTokenByHash) are each a single atomic UPDATE ... RETURNING
// statement.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(*Store) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // safe to call after Commit

	if err := fn(New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ensure pgx.Tx satisfies DBTX at compile time.
var _ DBTX = (pgx.Tx)(nil)
