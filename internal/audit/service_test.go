package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/pagination"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS audit_entries (
  id TEXT PRIMARY KEY,
  actor_id TEXT NOT NULL,
  action TEXT NOT NULL,
  entity TEXT NOT NULL,
  entity_id TEXT,
  detail TEXT,
  occurred_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func newActor(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@construplaza.com",
		PasswordHash: "hash",
		FirstName:    "Audit",
		LastName:     "Tester",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRecordAndList(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	actor := newActor(t, db, "admin")
	entityID := uuid.New()

	require.NoError(t, svc.Record(ctx, actor.ID, enums.AuditActionCrear, enums.AuditEntityProducto, &entityID, map[string]any{
		"sku": "FER-001",
	}))

	page, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, "CREAR", page.Entries[0].Action)
	require.Equal(t, "PRODUCTO", page.Entries[0].Entity)
	require.Equal(t, "admin", page.Entries[0].Actor)
	require.JSONEq(t, `{"sku":"FER-001"}`, string(page.Entries[0].Detail))
	require.Empty(t, page.NextCursor)
}

func TestRecordRejectsUnknownKinds(t *testing.T) {
	svc, err := NewService(NewRepository(setupAuditTestDB(t)))
	require.NoError(t, err)
	ctx := context.Background()

	err = svc.Record(ctx, uuid.New(), enums.AuditAction("PURGAR"), enums.AuditEntityProducto, nil, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = svc.Record(ctx, uuid.New(), enums.AuditActionCrear, enums.AuditEntity("ALMACEN"), nil, nil)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListFilters(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	admin := newActor(t, db, "admin")
	seller := newActor(t, db, "vendedor1")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seed := []struct {
		actor    uuid.UUID
		action   enums.AuditAction
		entity   enums.AuditEntity
		occurred time.Time
	}{
		{admin.ID, enums.AuditActionCrear, enums.AuditEntityProducto, base},
		{admin.ID, enums.AuditActionEliminar, enums.AuditEntityCategoria, base.Add(time.Hour)},
		{seller.ID, enums.AuditActionVenta, enums.AuditEntityVenta, base.Add(2 * time.Hour)},
	}
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, &models.AuditEntry{
			ID:         uuid.New(),
			ActorID:    s.actor,
			Action:     s.action,
			Entity:     s.entity,
			OccurredAt: s.occurred,
		}))
	}

	action := enums.AuditActionVenta
	byAction, err := repo.List(ctx, ListQuery{Filters: ListFilters{Action: &action}})
	require.NoError(t, err)
	require.Len(t, byAction.Entries, 1)
	require.Equal(t, enums.AuditEntityVenta, byAction.Entries[0].Entity)

	byUser, err := repo.List(ctx, ListQuery{Filters: ListFilters{Username: "admin"}})
	require.NoError(t, err)
	require.Len(t, byUser.Entries, 2)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	byRange, err := repo.List(ctx, ListQuery{Filters: ListFilters{From: &from, To: &to}})
	require.NoError(t, err)
	require.Len(t, byRange.Entries, 1)
	require.Equal(t, enums.AuditActionEliminar, byRange.Entries[0].Action)
}

func TestListPagination(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	actor := newActor(t, db, "admin")
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.AuditEntry{
			ID:         uuid.New(),
			ActorID:    actor.ID,
			Action:     enums.AuditActionCrear,
			Entity:     enums.AuditEntityProducto,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	first, err := repo.List(ctx, ListQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	require.NotEmpty(t, first.NextCursor)
	require.True(t, first.Entries[0].OccurredAt.After(first.Entries[1].OccurredAt))

	second, err := repo.List(ctx, ListQuery{Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Entries, 2)
	require.True(t, first.Entries[1].OccurredAt.After(second.Entries[0].OccurredAt))

	third, err := repo.List(ctx, ListQuery{Pagination: pagination.Params{Limit: 2, Cursor: second.NextCursor}})
	require.NoError(t, err)
	require.Len(t, third.Entries, 1)
	require.Empty(t, third.NextCursor)
}
