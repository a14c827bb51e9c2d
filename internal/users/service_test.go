package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

type recordedAudit struct {
	Action enums.AuditAction
	Entity enums.AuditEntity
}

type stubAudit struct {
	entries []recordedAudit
}

func (s *stubAudit) Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error {
	s.entries = append(s.entries, recordedAudit{Action: action, Entity: entity})
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUserService(t *testing.T) (Service, *gorm.DB, *stubAudit) {
	t.Helper()

	db := setupUsersTestDB(t)
	audit := &stubAudit{}
	svc, err := NewService(NewRepository(db), audit, testPasswordConfig())
	require.NoError(t, err)
	return svc, db, audit
}

func TestCreateUser(t *testing.T) {
	svc, db, audit := newUserService(t)
	ctx := context.Background()

	dto, err := svc.CreateUser(ctx, uuid.New(), CreateUserInput{
		Username:  " VENDEDOR1 ",
		Email:     "Vendedor1@Construplaza.com",
		Password:  "secreto123",
		FirstName: "Juan",
		LastName:  "Pérez",
		Role:      enums.UserRoleVendedor,
	})
	require.NoError(t, err)
	require.Equal(t, "vendedor1", dto.Username)
	require.Equal(t, "vendedor1@construplaza.com", dto.Email)
	require.Equal(t, "VENDEDOR", dto.Role)
	require.True(t, dto.IsActive)

	var row models.User
	require.NoError(t, db.First(&row, "id = ?", dto.ID).Error)
	require.NotEqual(t, "secreto123", row.PasswordHash)

	ok, err := security.VerifyPassword("secreto123", row.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, audit.entries, 1)
	require.Equal(t, enums.AuditActionCrear, audit.entries[0].Action)
	require.Equal(t, enums.AuditEntityUsuario, audit.entries[0].Entity)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{name: "emptyUsername", input: CreateUserInput{Password: "secreto123", Role: enums.UserRoleVendedor}},
		{name: "shortPassword", input: CreateUserInput{Username: "u1", Password: "corto", Role: enums.UserRoleVendedor}},
		{name: "badRole", input: CreateUserInput{Username: "u1", Password: "secreto123", Role: enums.UserRole("CLIENTE")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	input := CreateUserInput{
		Username: "vendedor1",
		Email:    "v1@construplaza.com",
		Password: "secreto123",
		Role:     enums.UserRoleVendedor,
	}
	_, err := svc.CreateUser(ctx, uuid.New(), input)
	require.NoError(t, err)

	input.Email = "otro@construplaza.com"
	_, err = svc.CreateUser(ctx, uuid.New(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDeactivateUser(t *testing.T) {
	svc, db, audit := newUserService(t)
	ctx := context.Background()
	admin := uuid.New()

	created, err := svc.CreateUser(ctx, admin, CreateUserInput{
		Username: "almacenero1",
		Email:    "a1@construplaza.com",
		Password: "secreto123",
		Role:     enums.UserRoleAlmacenero,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, admin, created.ID))

	var row models.User
	require.NoError(t, db.First(&row, "id = ?", created.ID).Error)
	require.False(t, row.IsActive)

	require.Len(t, audit.entries, 2)
	require.Equal(t, enums.AuditActionEliminar, audit.entries[1].Action)
}

func TestDeactivateUserSelf(t *testing.T) {
	svc, _, _ := newUserService(t)
	self := uuid.New()

	err := svc.DeactivateUser(context.Background(), self, self)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
