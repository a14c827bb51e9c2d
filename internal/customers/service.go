package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

// CustomerDTO represents the customer payload returned to clients.
type CustomerDTO struct {
	ID             uuid.UUID `json:"id"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	Names          *string   `json:"names,omitempty"`
	LegalName      *string   `json:"legal_name,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	DisplayName    string    `json:"display_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateCustomerInput holds the validated payload to register a customer.
type CreateCustomerInput struct {
	DocumentType   enums.DocumentType
	DocumentNumber string
	Names          *string
	LegalName      *string
	Address        *string
	Phone          *string
	Email          *string
}

// UpdateCustomerInput holds optional mutation values for a customer.
type UpdateCustomerInput struct {
	Names     *string
	LegalName *string
	Address   *string
	Phone     *string
	Email     *string
}

// Service exposes customer registry operations.
type Service interface {
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
	GetByDocument(ctx context.Context, documentNumber string) (*CustomerDTO, error)
	CreateCustomer(ctx context.Context, actorID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, actorID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, actorID, customerID uuid.UUID) error
}

type auditRecorder interface {
	Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error
}

type service struct {
	repo  *Repository
	audit auditRecorder
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: audit}, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	dtos := make([]CustomerDTO, len(rows))
	for i := range rows {
		dtos[i] = newCustomerDTO(&rows[i])
	}
	return dtos, nil
}

func (s *service) GetByDocument(ctx context.Context, documentNumber string) (*CustomerDTO, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document number required")
	}

	customer, err := s.repo.FindByDocument(ctx, documentNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}
	dto := newCustomerDTO(customer)
	return &dto, nil
}

func (s *service) CreateCustomer(ctx context.Context, actorID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error) {
	input.DocumentNumber = strings.TrimSpace(input.DocumentNumber)
	if err := validateDocument(input.DocumentType, input.DocumentNumber); err != nil {
		return nil, err
	}
	if err := validateNames(input.DocumentType, input.Names, input.LegalName); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Customer{
		ID:             uuid.New(),
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		Names:          input.Names,
		LegalName:      input.LegalName,
		Address:        input.Address,
		Phone:          input.Phone,
		Email:          input.Email,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "document_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "document number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionCrear, enums.AuditEntityCliente, &created.ID, map[string]any{
		"document_type":   created.DocumentType.String(),
		"document_number": created.DocumentNumber,
	}); err != nil {
		return nil, err
	}
	dto := newCustomerDTO(created)
	return &dto, nil
}

func (s *service) UpdateCustomer(ctx context.Context, actorID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer.IsAnonymous {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "anonymous customer cannot be edited")
	}

	if input.Names != nil {
		customer.Names = input.Names
	}
	if input.LegalName != nil {
		customer.LegalName = input.LegalName
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if err := validateNames(customer.DocumentType, customer.Names, customer.LegalName); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionEditar, enums.AuditEntityCliente, &updated.ID, map[string]any{
		"document_number": updated.DocumentNumber,
	}); err != nil {
		return nil, err
	}
	dto := newCustomerDTO(updated)
	return &dto, nil
}

// DeleteCustomer anonymizes the record. The row stays so past sales keep a
// valid reference, but every personal field is cleared.
func (s *service) DeleteCustomer(ctx context.Context, actorID, customerID uuid.UUID) error {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer.IsAnonymous {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer is already anonymous")
	}

	documentNumber := customer.DocumentNumber
	customer.Names = nil
	customer.LegalName = nil
	customer.Address = nil
	customer.Phone = nil
	customer.Email = nil
	customer.IsAnonymous = true

	if _, err := s.repo.Update(ctx, customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "anonymize customer")
	}

	return s.audit.Record(ctx, actorID, enums.AuditActionEliminar, enums.AuditEntityCliente, &customer.ID, map[string]any{
		"document_number": documentNumber,
	})
}

func validateDocument(documentType enums.DocumentType, documentNumber string) error {
	if !documentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
	}
	if len(documentNumber) != documentType.Length() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must have %d digits", documentType, documentType.Length()))
	}
	for _, r := range documentNumber {
		if r < '0' || r > '9' {
			return pkgerrors.New(pkgerrors.CodeValidation, "document number must be numeric")
		}
	}
	return nil
}

func validateNames(documentType enums.DocumentType, names, legalName *string) error {
	switch documentType {
	case enums.DocumentTypeRUC:
		if legalName == nil || strings.TrimSpace(*legalName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "legal name required for RUC")
		}
	default:
		if names == nil || strings.TrimSpace(*names) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "names required for DNI")
		}
	}
	return nil
}

func newCustomerDTO(customer *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:             customer.ID,
		DocumentType:   customer.DocumentType.String(),
		DocumentNumber: customer.DocumentNumber,
		Names:          customer.Names,
		LegalName:      customer.LegalName,
		Address:        customer.Address,
		Phone:          customer.Phone,
		Email:          customer.Email,
		DisplayName:    customer.DisplayName(),
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}
