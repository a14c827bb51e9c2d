package category

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

// CategoryDTO represents the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service exposes category read and admin management operations.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, actorID uuid.UUID, name string, description *string) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, actorID, categoryID uuid.UUID, name *string, description *string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, actorID, categoryID uuid.UUID) error
}

type auditRecorder interface {
	Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error
}

type service struct {
	repo  *Repository
	audit auditRecorder
}

// NewService constructs a category service instance.
func NewService(repo *Repository, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: audit}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, len(rows))
	for i := range rows {
		dtos[i] = newCategoryDTO(&rows[i])
	}
	return dtos, nil
}

func (s *service) CreateCategory(ctx context.Context, actorID uuid.UUID, name string, description *string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	created, err := s.repo.Create(ctx, &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsActive:    true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionCrear, enums.AuditEntityCategoria, &created.ID, map[string]any{
		"name": created.Name,
	}); err != nil {
		return nil, err
	}
	dto := newCategoryDTO(created)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, actorID, categoryID uuid.UUID, name *string, description *string) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
		}
		category.Name = trimmed
	}
	if description != nil {
		category.Description = description
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionEditar, enums.AuditEntityCategoria, &updated.ID, map[string]any{
		"name": updated.Name,
	}); err != nil {
		return nil, err
	}
	dto := newCategoryDTO(updated)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, actorID, categoryID uuid.UUID) error {
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if err := s.repo.Deactivate(ctx, category.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate category")
	}

	return s.audit.Record(ctx, actorID, enums.AuditActionEliminar, enums.AuditEntityCategoria, &category.ID, map[string]any{
		"name": category.Name,
	})
}

func newCategoryDTO(category *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
