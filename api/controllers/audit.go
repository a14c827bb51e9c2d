package controllers

import (
	"net/http"
	"strings"

	"github.com/construplaza/construplaza-backend/api/responses"
	"github.com/construplaza/construplaza-backend/api/validators"
	"github.com/construplaza/construplaza-backend/internal/audit"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/logger"
	"github.com/construplaza/construplaza-backend/pkg/pagination"
)

// ListAuditEntries serves the admin audit trail with filters and cursor
// pagination.
func ListAuditEntries(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		query, err := auditQueryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func auditQueryFromRequest(r *http.Request) (audit.ListQuery, error) {
	var query audit.ListQuery

	if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
		action, err := enums.ParseAuditAction(raw)
		if err != nil {
			return query, pkgerrors.New(pkgerrors.CodeValidation, "unknown audit action").WithDetails(map[string]any{"field": "action"})
		}
		query.Filters.Action = &action
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("entity")); raw != "" {
		entity, err := enums.ParseAuditEntity(raw)
		if err != nil {
			return query, pkgerrors.New(pkgerrors.CodeValidation, "unknown audit entity").WithDetails(map[string]any{"field": "entity"})
		}
		query.Filters.Entity = &entity
	}

	actorID, err := validators.ParseQueryUUID(r, "actor_id")
	if err != nil {
		return query, err
	}
	query.Filters.ActorID = actorID
	query.Filters.Username = validators.SanitizeString(r.URL.Query().Get("user"), 40)

	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return query, err
	}
	if !from.IsZero() {
		query.Filters.From = &from
	}

	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return query, err
	}
	if !to.IsZero() {
		// Date-only upper bound covers the whole day.
		end := to.AddDate(0, 0, 1)
		query.Filters.To = &end
	}

	limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
	if err != nil {
		return query, err
	}
	query.Pagination = pagination.Params{
		Limit:  limit,
		Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 200),
	}
	return query, nil
}
