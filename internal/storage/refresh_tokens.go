package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateRefreshToken inserts a new refresh token record. The raw token is
// never passed here — only its hash.
func (s *Store) CreateRefreshToken(ctx context.Context, t RefreshToken) (RefreshToken, error) {
	scopes, err := encodeList(t.Scopes)
	if err != nil {
		return RefreshToken{}, fmt.Errorf("encode scopes: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO refresh_tokens (id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		RETURNING id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked, created_at
	`, t.ID, t.UserID, t.AppID, t.TokenHash, scopes, t.DeviceID, t.ExpiresAt)
	return scanRefreshToken(row)
}

// GetRefreshTokenByHash fetches a refresh token by its hash, regardless
// of revoked/expired state.
func (s *Store) GetRefreshTokenByHash(ctx context.Context, hash string) (RefreshToken, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked, created_at
		FROM refresh_tokens WHERE token_hash = $1
	`, hash)
	return scanRefreshToken(row)
}

// RevokeRefreshTokenByHash atomically revokes a token by hash, returning
// the pre-revocation row. Revoking an already-revoked or unknown token
// returns ErrNotFound, so a reused refresh token and a forged one are
// indistinguishable to the caller.
func (s *Store) RevokeRefreshTokenByHash(ctx context.Context, hash string) (RefreshToken, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE refresh_tokens SET revoked = true
		WHERE token_hash = $1 AND revoked = false
		RETURNING id, user_id, app_id, token_hash, scopes, device_id, expires_at, false, created_at
	`, hash)
	return scanRefreshToken(row)
}

// RevokeRefreshTokenByID revokes a token by primary key rather than by
// the raw token's hash.
func (s *Store) RevokeRefreshTokenByID(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE id = $1 AND revoked = false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllRefreshTokensForUser revokes every active token a user holds,
// used when an admin deactivates the account.
func (s *Store) RevokeAllRefreshTokensForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`, userID)
	return err
}

// ListActiveSessionsByUser returns a user's non-revoked, non-expired
// refresh tokens, newest first.
func (s *Store) ListActiveSessionsByUser(ctx context.Context, userID string) ([]RefreshToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, app_id, token_hash, scopes, device_id, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RefreshToken
	for rows.Next() {
		t, err := scanRefreshTokenRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanRefreshToken(row pgx.Row) (RefreshToken, error) {
	var t RefreshToken
	var scopes string
	err := row.Scan(&t.ID, &t.UserID, &t.AppID, &t.TokenHash, &scopes, &t.DeviceID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshToken{}, ErrNotFound
		}
		return RefreshToken{}, err
	}
	if t.Scopes, err = decodeList(scopes); err != nil {
		return RefreshToken{}, err
	}
	return t, nil
}

func scanRefreshTokenRows(rows pgx.Rows) (RefreshToken, error) {
	var t RefreshToken
	var scopes string
	if err := rows.Scan(&t.ID, &t.UserID, &t.AppID, &t.TokenHash, &scopes, &t.DeviceID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt); err != nil {
		return RefreshToken{}, err
	}
	var err error
	if t.Scopes, err = decodeList(scopes); err != nil {
		return RefreshToken{}, err
	}
	return t, nil
}
