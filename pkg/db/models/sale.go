package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

// Sale is the immutable record of a completed checkout.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Series        string              `gorm:"column:series;type:text;not null"`
	Number        int64               `gorm:"column:number;not null"`
	VoucherType   enums.VoucherType   `gorm:"column:voucher_type;type:text;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	Seller        *User               `gorm:"foreignKey:SellerID"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax           decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	AmountPaid    *decimal.Decimal    `gorm:"column:amount_paid;type:numeric(12,2)"`
	Change        *decimal.Decimal    `gorm:"column:change;type:numeric(12,2)"`
	Lines         []SaleLine          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	IssuedAt      time.Time           `gorm:"column:issued_at;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// VoucherNumber renders the printable series-correlative pair.
func (s Sale) VoucherNumber() string {
	return fmt.Sprintf("%s-%08d", s.Series, s.Number)
}
