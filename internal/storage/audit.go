package storage

import (
	"context"
)

// CreateAuditLog appends one event to the audit trail. Audit writes never
// fail a request: callers log and continue rather than surface a storage
// error to the client for a side channel.
func (s *Store) CreateAuditLog(ctx context.Context, e AuditLog) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, app_id, action, target_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.ActorID, e.AppID, e.Action, e.TargetID, e.Metadata)
	return err
}

// ListAuditLogs returns a page of audit events, most recent first.
func (s *Store) ListAuditLogs(ctx context.Context, limit, offset int) ([]AuditLog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, actor_id, app_id, action, target_id, metadata, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditLog
	for rows.Next() {
		var e AuditLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.AppID, &e.Action, &e.TargetID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
