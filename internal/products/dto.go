package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Brand         *string         `json:"brand,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	MeasureUnit   string          `json:"measure_unit"`
	Category      *CategoryRefDTO `json:"category,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	IsCritical    bool            `json:"is_critical"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryRefDTO surfaces the category a product belongs to.
type CategoryRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		Brand:         product.Brand,
		SalePrice:     product.SalePrice,
		PurchasePrice: product.PurchasePrice,
		Stock:         product.Stock,
		MinStock:      product.MinStock,
		MeasureUnit:   product.MeasureUnit.String(),
		ImageURL:      product.ImageURL,
		IsActive:      product.IsActive,
		IsCritical:    product.IsCritical(),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRefDTO{
			ID:   product.Category.ID,
			Name: product.Category.Name,
		}
	}
	return dto
}

// NewProductDTOs maps a model slice into DTOs preserving order.
func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = *NewProductDTO(&products[i])
	}
	return dtos
}
