package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

// Service exposes catalog read and admin management operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	SearchProducts(ctx context.Context, filters SearchFilters) ([]ProductDTO, error)
	ListLowStock(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU           string
	Name          string
	Description   *string
	Brand         *string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Stock         int
	MinStock      int
	MeasureUnit   enums.MeasureUnit
	CategoryID    *uuid.UUID
	ImageURL      *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU           *string
	Name          *string
	Description   *string
	Brand         *string
	SalePrice     *decimal.Decimal
	PurchasePrice *decimal.Decimal
	Stock         *int
	MinStock      *int
	MeasureUnit   *enums.MeasureUnit
	CategoryID    *uuid.UUID
	ImageURL      *string
	IsActive      *bool
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type auditRecorder interface {
	Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error
}

type service struct {
	repo       *Repository
	categories categoryLoader
	audit      auditRecorder
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, categories categoryLoader, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, categories: categories, audit: audit}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get product")
	}
	return NewProductDTO(product), nil
}

func (s *service) SearchProducts(ctx context.Context, filters SearchFilters) ([]ProductDTO, error) {
	rows, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) CreateProduct(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input.SalePrice, input.PurchasePrice, input.Stock, input.MinStock, input.MeasureUnit); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		SKU:           input.SKU,
		Name:          input.Name,
		Description:   input.Description,
		Brand:         input.Brand,
		SalePrice:     input.SalePrice,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		MinStock:      input.MinStock,
		MeasureUnit:   input.MeasureUnit,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
		IsActive:      true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionCrear, enums.AuditEntityProducto, &created.ID, map[string]any{
		"sku":  created.SKU,
		"name": created.Name,
	}); err != nil {
		return nil, err
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyProductInput(product, input)
	if err := validateProductInput(product.SalePrice, product.PurchasePrice, product.Stock, product.MinStock, product.MeasureUnit); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	if err := s.audit.Record(ctx, actorID, enums.AuditActionEditar, enums.AuditEntityProducto, &updated.ID, map[string]any{
		"sku":  updated.SKU,
		"name": updated.Name,
	}); err != nil {
		return nil, err
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Deactivate(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}

	return s.audit.Record(ctx, actorID, enums.AuditActionEliminar, enums.AuditEntityProducto, &product.ID, map[string]any{
		"sku":  product.SKU,
		"name": product.Name,
	})
}

func (s *service) ensureCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func validateProductInput(salePrice, purchasePrice decimal.Decimal, stock, minStock int, unit enums.MeasureUnit) error {
	if salePrice.IsNegative() || purchasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if stock < 0 || minStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if !unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid measure unit")
	}
	return nil
}

func applyProductInput(product *models.Product, input UpdateProductInput) {
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.SalePrice != nil {
		product.SalePrice = *input.SalePrice
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.MeasureUnit != nil {
		product.MeasureUnit = *input.MeasureUnit
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
