package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by single-row lookups that match no row.
var ErrNotFound = errors.New("not found")

// CreateApplication inserts a new relying party.
func (s *Store) CreateApplication(ctx context.Context, a Application) (Application, error) {
	redirects, err := encodeList(a.RedirectURIs)
	if err != nil {
		return Application{}, fmt.Errorf("encode redirect_uris: %w", err)
	}
	scopes, err := encodeList(a.AllowedScopes)
	if err != nil {
		return Application{}, fmt.Errorf("encode allowed_scopes: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO applications (id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at
	`, a.ID, a.Name, a.ClientID, a.ClientSecretHash, redirects, scopes, a.IsActive)
	return scanApplication(row)
}

// GetApplicationByID fetches an application by primary key.
func (s *Store) GetApplicationByID(ctx context.Context, id string) (Application, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at
		FROM applications WHERE id = $1
	`, id)
	return scanApplication(row)
}

// GetApplicationByClientID fetches an application by its public client_id.
func (s *Store) GetApplicationByClientID(ctx context.Context, clientID string) (Application, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at
		FROM applications WHERE client_id = $1
	`, clientID)
	return scanApplication(row)
}

// ListApplications returns a page of applications ordered by creation time.
func (s *Store) ListApplications(ctx context.Context, limit, offset int) ([]Application, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at
		FROM applications ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplicationRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// CountApplications returns the total number of applications.
func (s *Store) CountApplications(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM applications`).Scan(&count)
	return count, err
}

// UpdateApplication updates the mutable fields of an application.
func (s *Store) UpdateApplication(ctx context.Context, a Application) (Application, error) {
	redirects, err := encodeList(a.RedirectURIs)
	if err != nil {
		return Application{}, fmt.Errorf("encode redirect_uris: %w", err)
	}
	scopes, err := encodeList(a.AllowedScopes)
	if err != nil {
		return Application{}, fmt.Errorf("encode allowed_scopes: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE applications
		SET name = $2, redirect_uris = $3, allowed_scopes = $4, is_active = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, client_id, client_secret_hash, redirect_uris, allowed_scopes, is_active, created_at, updated_at
	`, a.ID, a.Name, redirects, scopes, a.IsActive)
	return scanApplication(row)
}

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	var redirects, scopes string
	err := row.Scan(&a.ID, &a.Name, &a.ClientID, &a.ClientSecretHash, &redirects, &scopes, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if a.RedirectURIs, err = decodeList(redirects); err != nil {
		return Application{}, err
	}
	if a.AllowedScopes, err = decodeList(scopes); err != nil {
		return Application{}, err
	}
	return a, nil
}

func scanApplicationRows(rows pgx.Rows) (Application, error) {
	var a Application
	var redirects, scopes string
	err := rows.Scan(&a.ID, &a.Name, &a.ClientID, &a.ClientSecretHash, &redirects, &scopes, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Application{}, err
	}
	if a.RedirectURIs, err = decodeList(redirects); err != nil {
		return Application{}, err
	}
	if a.AllowedScopes, err = decodeList(scopes); err != nil {
		return Application{}, err
	}
	return a, nil
}
