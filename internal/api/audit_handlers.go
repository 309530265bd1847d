package api

import (
	"net/http"

	"github.com/veyra-id/veyra/internal/api/helpers"
	"github.com/veyra-id/veyra/internal/apierr"
)

// ListAuditLog implements GET /admin/audit-log: a supplemented,
// admin-only read over the append-only audit trail.
func (s *Server) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	entries, err := s.store.ListAuditLogs(r.Context(), limit, offset)
	if err != nil {
		helpers.RespondError(w, apierr.Wrap("list audit log", err))
		return
	}

	out := make([]auditLogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditLogDTO(e))
	}
	helpers.RespondJSON(w, http.StatusOK, paginatedDTO{Items: out, Limit: limit, Offset: offset})
}
