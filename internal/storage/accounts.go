package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreateAccount binds a user to a provider identity.
func (s *Store) CreateAccount(ctx context.Context, a Account) (Account, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO accounts (id, user_id, provider_id, provider_account_id, credential, provider_metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at
	`, a.ID, a.UserID, a.ProviderID, a.ProviderAccountID, a.Credential, a.ProviderMetadata)
	return scanAccount(row)
}

// GetAccountByUserAndProvider fetches the account binding a user has with
// one provider, if any.
func (s *Store) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) (Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at
		FROM accounts WHERE user_id = $1 AND provider_id = $2
	`, userID, providerID)
	return scanAccount(row)
}

// GetAccountByProviderIdentity resolves the account (and therefore the
// user) owning a given provider_id + provider_account_id pair. This is
// the core lookup behind federated login.
func (s *Store) GetAccountByProviderIdentity(ctx context.Context, providerID, providerAccountID string) (Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at
		FROM accounts WHERE provider_id = $1 AND provider_account_id = $2
	`, providerID, providerAccountID)
	return scanAccount(row)
}

// ListAccountsByUser returns every provider binding a user has.
func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]Account, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.ProviderAccountID, &a.Credential, &a.ProviderMetadata, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountAccountsByUser returns how many provider bindings a user has. The
// identity resolver uses this to enforce the "at least one account"
// invariant before allowing an unlink.
func (s *Store) CountAccountsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// UpdateAccountMetadata replaces the opaque provider_metadata blob and
// credential for an existing binding.
func (s *Store) UpdateAccountMetadata(ctx context.Context, id string, credential *string, metadata string) (Account, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE accounts SET credential = $2, provider_metadata = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, provider_id, provider_account_id, credential, provider_metadata, created_at, updated_at
	`, id, credential, metadata)
	return scanAccount(row)
}

// DeleteAccount removes a provider binding.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.ProviderAccountID, &a.Credential, &a.ProviderMetadata, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}
