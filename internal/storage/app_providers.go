package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreateAppProvider binds a provider to an application.
func (s *Store) CreateAppProvider(ctx context.Context, p AppProvider) (AppProvider, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO app_providers (id, app_id, provider_id, config, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, app_id, provider_id, config, is_active, created_at
	`, p.ID, p.AppID, p.ProviderID, p.Config, p.IsActive)
	return scanAppProvider(row)
}

// GetAppProvider fetches one application's binding to one provider.
func (s *Store) GetAppProvider(ctx context.Context, appID, providerID string) (AppProvider, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, app_id, provider_id, config, is_active, created_at
		FROM app_providers WHERE app_id = $1 AND provider_id = $2
	`, appID, providerID)
	return scanAppProvider(row)
}

// ListAppProviders returns every provider bound to an application.
func (s *Store) ListAppProviders(ctx context.Context, appID string) ([]AppProvider, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, app_id, provider_id, config, is_active, created_at
		FROM app_providers WHERE app_id = $1 ORDER BY created_at
	`, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppProvider
	for rows.Next() {
		var p AppProvider
		if err := rows.Scan(&p.ID, &p.AppID, &p.ProviderID, &p.Config, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteAppProvider removes a provider binding from an application.
func (s *Store) DeleteAppProvider(ctx context.Context, appID, providerID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM app_providers WHERE app_id = $1 AND provider_id = $2`, appID, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppProvider(row pgx.Row) (AppProvider, error) {
	var p AppProvider
	err := row.Scan(&p.ID, &p.AppID, &p.ProviderID, &p.Config, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AppProvider{}, ErrNotFound
	}
	return p, err
}
