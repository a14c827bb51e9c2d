package checkout

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

// CatalogItem is the immutable product snapshot a cart line is built from.
// Stock is the availability known at the moment the item entered the cart.
type CatalogItem struct {
	ID          uuid.UUID         `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand,omitempty"`
	Category    string            `json:"category,omitempty"`
	MeasureUnit enums.MeasureUnit `json:"measure_unit"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Stock       int               `json:"stock"`
}

// CartLine holds one product position. Invariant: 1 <= Quantity <= Item.Stock.
type CartLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

// Total returns quantity times unit price at full precision.
func (l CartLine) Total() decimal.Decimal {
	return l.Item.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Customer is the buyer identification collected before issuing a receipt.
type Customer struct {
	Anonymous      bool               `json:"anonymous"`
	DocumentType   enums.DocumentType `json:"document_type,omitempty"`
	DocumentNumber string             `json:"document_number,omitempty"`
	Names          string             `json:"names,omitempty"`
	LegalName      string             `json:"legal_name,omitempty"`
	Address        string             `json:"address,omitempty"`
}

// Totals carries the money summary of a cart. Subtotal keeps full precision;
// Tax and Total are rounded to two decimals. Rounding the subtotal is a
// display concern only.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt is the immutable result of a confirmed checkout.
type Receipt struct {
	TicketNumber int               `json:"ticket_number"`
	VoucherType  enums.VoucherType `json:"voucher_type"`
	IssuedAt     time.Time         `json:"issued_at"`
	Seller       string            `json:"seller,omitempty"`
	Customer     Customer          `json:"customer"`
	Lines        []CartLine        `json:"lines"`
	Totals       Totals            `json:"totals"`
}

// VoucherNumber renders the printable series-ticket pair, e.g. B001-4821.
func (r Receipt) VoucherNumber() string {
	return r.VoucherType.Serie() + "-" + strconv.Itoa(r.TicketNumber)
}
