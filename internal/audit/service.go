package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

// EntryDTO represents one audit trail row returned to clients.
type EntryDTO struct {
	ID         uuid.UUID       `json:"id"`
	Action     string          `json:"action"`
	Entity     string          `json:"entity"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`
	ActorID    uuid.UUID       `json:"actor_id"`
	Actor      string          `json:"actor,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// PageDTO carries one page of audit entries.
type PageDTO struct {
	Entries    []EntryDTO `json:"entries"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Service records and queries the staff action trail.
type Service interface {
	Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error
	List(ctx context.Context, query ListQuery) (*PageDTO, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs an audit service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Record appends one entry. Detail is marshaled to JSON as-is; a nil detail
// stores an empty payload.
func (s *service) Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error {
	if !action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid audit action")
	}
	if !entity.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid audit entity")
	}

	var payload json.RawMessage
	if detail != nil {
		encoded, err := json.Marshal(detail)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode audit detail")
		}
		payload = encoded
	}

	entry := &models.AuditEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Detail:     payload,
		OccurredAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
	}
	return nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*PageDTO, error) {
	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}

	entries := make([]EntryDTO, len(result.Entries))
	for i := range result.Entries {
		entries[i] = newEntryDTO(&result.Entries[i])
	}
	return &PageDTO{Entries: entries, NextCursor: result.NextCursor}, nil
}

func newEntryDTO(entry *models.AuditEntry) EntryDTO {
	dto := EntryDTO{
		ID:         entry.ID,
		Action:     entry.Action.String(),
		Entity:     entry.Entity.String(),
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Detail:     entry.Detail,
		OccurredAt: entry.OccurredAt,
	}
	if entry.Actor != nil {
		dto.Actor = entry.Actor.Username
	}
	return dto
}
