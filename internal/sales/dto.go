package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
)

// SaleDTO represents a recorded sale returned to clients.
type SaleDTO struct {
	ID            uuid.UUID        `json:"id"`
	VoucherNumber string           `json:"voucher_number"`
	VoucherType   string           `json:"voucher_type"`
	PaymentMethod string           `json:"payment_method"`
	Customer      string           `json:"customer"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	Change        *decimal.Decimal `json:"change,omitempty"`
	Lines         []SaleLineDTO    `json:"lines"`
	IssuedAt      time.Time        `json:"issued_at"`
}

// SaleLineDTO represents one sold position.
type SaleLineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SalesPageDTO carries one page of a seller's history.
type SalesPageDTO struct {
	Sales      []SaleDTO `json:"sales"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NewSaleDTO builds a DTO from the persisted model.
func NewSaleDTO(sale *models.Sale) *SaleDTO {
	dto := &SaleDTO{
		ID:            sale.ID,
		VoucherNumber: sale.VoucherNumber(),
		VoucherType:   sale.VoucherType.String(),
		PaymentMethod: sale.PaymentMethod.String(),
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		AmountPaid:    sale.AmountPaid,
		Change:        sale.Change,
		IssuedAt:      sale.IssuedAt,
	}
	if sale.Customer != nil {
		dto.Customer = sale.Customer.DisplayName()
	}
	dto.Lines = make([]SaleLineDTO, len(sale.Lines))
	for i, line := range sale.Lines {
		dto.Lines[i] = SaleLineDTO{
			ProductID:   line.ProductID,
			ProductSKU:  line.ProductSKU,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		}
	}
	return dto
}
