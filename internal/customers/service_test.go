package customer

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  document_type TEXT NOT NULL,
  document_number TEXT NOT NULL UNIQUE,
  names TEXT,
  legal_name TEXT,
  address TEXT,
  phone TEXT,
  email TEXT,
  is_anonymous INTEGER NOT NULL DEFAULT 0,
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

func newCustomerService(t *testing.T) (Service, *gorm.DB, *stubAudit) {
	t.Helper()

	db := setupCustomerTestDB(t)
	audit := &stubAudit{}
	svc, err := NewService(NewRepository(db), audit)
	require.NoError(t, err)
	return svc, db, audit
}

func strPtr(s string) *string { return &s }

func TestCreateCustomerDNI(t *testing.T) {
	svc, _, audit := newCustomerService(t)
	ctx := context.Background()

	dto, err := svc.CreateCustomer(ctx, uuid.New(), CreateCustomerInput{
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45781236",
		Names:          strPtr("María Quispe"),
	})
	require.NoError(t, err)
	require.Equal(t, "DNI", dto.DocumentType)
	require.Equal(t, "María Quispe", dto.DisplayName)

	require.Len(t, audit.entries, 1)
	require.Equal(t, enums.AuditActionCrear, audit.entries[0].Action)
	require.Equal(t, enums.AuditEntityCliente, audit.entries[0].Entity)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateCustomerInput
	}{
		{
			name: "shortDNI",
			input: CreateCustomerInput{
				DocumentType:   enums.DocumentTypeDNI,
				DocumentNumber: "1234567",
				Names:          strPtr("X"),
			},
		},
		{
			name: "nonNumeric",
			input: CreateCustomerInput{
				DocumentType:   enums.DocumentTypeDNI,
				DocumentNumber: "4578123A",
				Names:          strPtr("X"),
			},
		},
		{
			name: "rucWithoutLegalName",
			input: CreateCustomerInput{
				DocumentType:   enums.DocumentTypeRUC,
				DocumentNumber: "20123456789",
			},
		},
		{
			name: "dniWithoutNames",
			input: CreateCustomerInput{
				DocumentType:   enums.DocumentTypeDNI,
				DocumentNumber: "45781236",
			},
		},
		{
			name: "badType",
			input: CreateCustomerInput{
				DocumentType:   enums.DocumentType("CE"),
				DocumentNumber: "45781236",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestCreateCustomerDuplicateDocument(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()

	input := CreateCustomerInput{
		DocumentType:   enums.DocumentTypeRUC,
		DocumentNumber: "20123456789",
		LegalName:      strPtr("Constructora Andina SAC"),
	}
	_, err := svc.CreateCustomer(ctx, uuid.New(), input)
	require.NoError(t, err)

	_, err = svc.CreateCustomer(ctx, uuid.New(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestGetByDocument(t *testing.T) {
	svc, _, _ := newCustomerService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, uuid.New(), CreateCustomerInput{
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45781236",
		Names:          strPtr("María Quispe"),
	})
	require.NoError(t, err)

	dto, err := svc.GetByDocument(ctx, "45781236")
	require.NoError(t, err)
	require.Equal(t, "María Quispe", *dto.Names)

	_, err = svc.GetByDocument(ctx, "99999999")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateCustomer(t *testing.T) {
	svc, _, audit := newCustomerService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, uuid.New(), CreateCustomerInput{
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45781236",
		Names:          strPtr("María Quispe"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, uuid.New(), created.ID, UpdateCustomerInput{
		Address: strPtr("Jr. Huallaga 450"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jr. Huallaga 450", *updated.Address)
	require.Equal(t, "María Quispe", *updated.Names)

	require.Len(t, audit.entries, 2)
	require.Equal(t, enums.AuditActionEditar, audit.entries[1].Action)
}

func TestDeleteCustomerAnonymizes(t *testing.T) {
	svc, db, audit := newCustomerService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, uuid.New(), CreateCustomerInput{
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45781236",
		Names:          strPtr("María Quispe"),
		Phone:          strPtr("987654321"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, uuid.New(), created.ID))

	var row models.Customer
	require.NoError(t, db.First(&row, "id = ?", created.ID).Error)
	require.True(t, row.IsAnonymous)
	require.Nil(t, row.Names)
	require.Nil(t, row.Phone)
	require.Equal(t, "CLIENTE VARIOS", row.DisplayName())

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	err = svc.DeleteCustomer(ctx, uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.Len(t, audit.entries, 2)
	require.Equal(t, enums.AuditActionEliminar, audit.entries[1].Action)
}
