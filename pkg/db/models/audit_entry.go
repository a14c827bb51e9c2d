package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

// AuditEntry records one staff action over a tracked entity.
type AuditEntry struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID    uuid.UUID         `gorm:"column:actor_id;type:uuid;not null;index"`
	Actor      *User             `gorm:"foreignKey:ActorID"`
	Action     enums.AuditAction `gorm:"column:action;type:text;not null"`
	Entity     enums.AuditEntity `gorm:"column:entity;type:text;not null"`
	EntityID   *uuid.UUID        `gorm:"column:entity_id;type:uuid"`
	Detail     json.RawMessage   `gorm:"column:detail;type:jsonb"`
	OccurredAt time.Time         `gorm:"column:occurred_at;not null;index"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
