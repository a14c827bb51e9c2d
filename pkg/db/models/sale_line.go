package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine snapshots one product position at the moment of sale.
type SaleLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID      uuid.UUID       `gorm:"column:sale_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	ProductSKU  string          `gorm:"column:product_sku;type:text;not null"`
	ProductName string          `gorm:"column:product_name;type:text;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}
