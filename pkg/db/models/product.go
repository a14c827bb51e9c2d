package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

// Product represents a catalog item sold at the counter.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string            `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Name          string            `gorm:"column:name;type:text;not null"`
	Description   *string           `gorm:"column:description"`
	Brand         *string           `gorm:"column:brand"`
	SalePrice     decimal.Decimal   `gorm:"column:sale_price;type:numeric(12,2);not null"`
	PurchasePrice decimal.Decimal   `gorm:"column:purchase_price;type:numeric(12,2);not null"`
	Stock         int               `gorm:"column:stock;not null;default:0"`
	MinStock      int               `gorm:"column:min_stock;not null;default:0"`
	MeasureUnit   enums.MeasureUnit `gorm:"column:measure_unit;type:text;not null"`
	CategoryID    *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Category      *Category         `gorm:"foreignKey:CategoryID"`
	ImageURL      *string           `gorm:"column:image_url"`
	IsActive      bool              `gorm:"column:is_active;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsCritical reports whether stock has fallen to or below the minimum.
func (p Product) IsCritical() bool {
	return p.Stock <= p.MinStock
}
