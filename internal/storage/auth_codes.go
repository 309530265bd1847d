package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateAuthorizationCode inserts a fresh, unused authorization code.
func (s *Store) CreateAuthorizationCode(ctx context.Context, c AuthorizationCode) (AuthorizationCode, error) {
	scopes, err := encodeList(c.Scopes)
	if err != nil {
		return AuthorizationCode{}, fmt.Errorf("encode scopes: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO authorization_codes (code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
		RETURNING code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, used, created_at
	`, c.Code, c.AppID, c.UserID, c.RedirectURI, scopes, c.CodeChallenge, c.CodeChallengeMethod, c.ExpiresAt)
	return scanAuthCode(row)
}

// GetAuthorizationCode fetches a code regardless of its used/expired
// state; the caller is responsible for checking both before trusting it.
func (s *Store) GetAuthorizationCode(ctx context.Context, code string) (AuthorizationCode, error) {
	row := s.db.QueryRow(ctx, `
		SELECT code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, used, created_at
		FROM authorization_codes WHERE code = $1
	`, code)
	return scanAuthCode(row)
}

// ConsumeAuthorizationCode atomically marks a code used and returns the
// pre-consumption row, in one statement. A code that is already used or
// does not exist consumes nothing and returns ErrNotFound — the caller
// cannot tell the two apart, which is intentional: replay of a used code
// must look identical to an unknown code.
func (s *Store) ConsumeAuthorizationCode(ctx context.Context, code string) (AuthorizationCode, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE authorization_codes SET used = true
		WHERE code = $1 AND used = false
		RETURNING code, app_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, expires_at, false, created_at
	`, code)
	return scanAuthCode(row)
}

func scanAuthCode(row pgx.Row) (AuthorizationCode, error) {
	var c AuthorizationCode
	var scopes string
	err := row.Scan(&c.Code, &c.AppID, &c.UserID, &c.RedirectURI, &scopes, &c.CodeChallenge, &c.CodeChallengeMethod, &c.ExpiresAt, &c.Used, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthorizationCode{}, ErrNotFound
		}
		return AuthorizationCode{}, err
	}
	if c.Scopes, err = decodeList(scopes); err != nil {
		return AuthorizationCode{}, err
	}
	return c, nil
}
