package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	"github.com/construplaza/construplaza-backend/pkg/pagination"
)

// Repository persists audit entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new audit entry row.
func (r *Repository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListFilters narrows the audit trail. Empty fields are ignored.
type ListFilters struct {
	Action   *enums.AuditAction
	Entity   *enums.AuditEntity
	ActorID  *uuid.UUID
	Username string
	From     *time.Time
	To       *time.Time
}

// ListQuery bundles filters with cursor pagination inputs.
type ListQuery struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult carries one page of entries plus the cursor for the next.
type ListResult struct {
	Entries    []models.AuditEntry
	NextCursor string
}

// List returns the newest entries first, keyset-paginated on
// (occurred_at, id).
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.AuditEntry{}).
		Preload("Actor")

	filters := query.Filters
	if filters.Action != nil {
		qb = qb.Where("action = ?", *filters.Action)
	}
	if filters.Entity != nil {
		qb = qb.Where("entity = ?", *filters.Entity)
	}
	if filters.ActorID != nil {
		qb = qb.Where("actor_id = ?", *filters.ActorID)
	}
	if filters.Username != "" {
		qb = qb.Where("actor_id IN (SELECT id FROM users WHERE username = ?)", filters.Username)
	}
	if filters.From != nil {
		qb = qb.Where("occurred_at >= ?", *filters.From)
	}
	if filters.To != nil {
		qb = qb.Where("occurred_at <= ?", *filters.To)
	}
	if cursor != nil {
		qb = qb.Where("(occurred_at < ?) OR (occurred_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AuditEntry
	err = qb.Order("occurred_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.OccurredAt, ID: last.ID})
	}
	return &ListResult{Entries: rows, NextCursor: nextCursor}, nil
}
