package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, avatar_url, email_verified, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at
	`, u.ID, u.Email, u.Name, u.AvatarURL, u.EmailVerified, u.Role, u.IsActive)
	return scanUser(row)
}

// GetUserByID fetches a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email. Emails are optional, so this can
// legitimately match no row even when the table is populated.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

// UpdateUser updates the mutable profile fields of a user.
func (s *Store) UpdateUser(ctx context.Context, u User) (User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET email = $2, name = $3, avatar_url = $4, email_verified = $5, role = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at
	`, u.ID, u.Email, u.Name, u.AvatarURL, u.EmailVerified, u.Role, u.IsActive)
	return scanUser(row)
}

// ListUsers returns a page of users ordered by creation time, newest
// first. Inactive users are included.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, name, avatar_url, email_verified, role, is_active, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerified, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count)
	return count, err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerified, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
