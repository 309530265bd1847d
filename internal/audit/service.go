// Package audit records security-relevant events to an append-only trail.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/veyra-id/veyra/internal/storage"
)

// Service records audit events.
type Service interface {
	Log(ctx context.Context, action string, params LogParams)
}

// LogParams encapsulates the optional fields of an audit event. ActorID
// and AppID are nil when the event has no authenticated actor or is not
// scoped to one application.
type LogParams struct {
	ActorID  *string
	AppID    *string
	TargetID *string
	Metadata map[string]any
}

// DBService persists audit events through the Store gateway. Writes never
// fail the request they accompany: a store error is logged and swallowed
// rather than surfaced to the caller.
type DBService struct {
	store  *storage.Store
	logger *slog.Logger
}

// NewDBService builds a DB-backed audit service.
func NewDBService(store *storage.Store, logger *slog.Logger) *DBService {
	return &DBService{store: store, logger: logger}
}

// Log records one event. Called fire-and-forget from request handlers.
func (s *DBService) Log(ctx context.Context, action string, params LogParams) {
	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		s.logger.ErrorContext(ctx, "audit metadata marshal failed", "error", err, "action", action)
		metadataJSON = []byte("{}")
	}

	entry := storage.AuditLog{
		ID:       uuid.NewString(),
		ActorID:  params.ActorID,
		AppID:    params.AppID,
		Action:   action,
		TargetID: params.TargetID,
		Metadata: string(metadataJSON),
	}

	if err := s.store.CreateAuditLog(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "audit log insert failed", "error", err, "action", action)
	}
}
