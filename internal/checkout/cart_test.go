package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

func catalogItem(price string, stock int) CatalogItem {
	return CatalogItem{
		ID:          uuid.New(),
		SKU:         "FER-001",
		Name:        "Cemento Sol 42.5kg",
		MeasureUnit: enums.MeasureUnitUnidad,
		UnitPrice:   decimal.RequireFromString(price),
		Stock:       stock,
	}
}

func TestCartTotalsSingleLine(t *testing.T) {
	cart := NewCart()
	item := catalogItem("28.50", 10)
	cart.AddItem(item)
	cart.AddItem(item)

	totals := cart.Totals()
	require.Equal(t, "57.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "10.26", totals.Tax.StringFixed(2))
	require.Equal(t, "67.26", totals.Total.StringFixed(2))
}

func TestCartAddClampsToStock(t *testing.T) {
	cart := NewCart()
	item := catalogItem("5.00", 3)
	for i := 0; i < 4; i++ {
		cart.AddItem(item)
	}

	lines := cart.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Quantity)
}

func TestCartRefusesZeroStockItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalogItem("5.00", 0))
	require.Zero(t, cart.Len())
}

func TestChangeQuantityRemovesLineAtZero(t *testing.T) {
	cart := NewCart()
	item := catalogItem("12.90", 8)
	cart.AddItem(item)

	cart.ChangeQuantity(item.ID, -1)
	require.Zero(t, cart.Len())
}

func TestChangeQuantityClampsToStock(t *testing.T) {
	cart := NewCart()
	item := catalogItem("12.90", 4)
	cart.AddItem(item)

	cart.ChangeQuantity(item.ID, 10)
	require.Equal(t, 4, cart.Lines()[0].Quantity)

	cart.ChangeQuantity(uuid.New(), 5) // unknown id is a no-op
	require.Equal(t, 4, cart.Lines()[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	cart := NewCart()
	first := catalogItem("3.20", 5)
	second := catalogItem("7.80", 5)
	cart.AddItem(first)
	cart.AddItem(second)

	cart.RemoveItem(first.ID)
	lines := cart.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, second.ID, lines[0].Item.ID)

	cart.RemoveItem(uuid.New())
	require.Len(t, cart.Lines(), 1)
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	items := []CatalogItem{
		catalogItem("1.00", 5),
		catalogItem("2.00", 5),
		catalogItem("3.00", 5),
	}
	for _, it := range items {
		cart.AddItem(it)
	}

	lines := cart.Lines()
	require.Len(t, lines, 3)
	for i, it := range items {
		require.Equal(t, it.ID, lines[i].Item.ID)
	}
}

func TestConfirmAnonymousClearsCart(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalogItem("28.50", 10))

	now := time.Date(2026, 3, 2, 16, 45, 0, 0, time.UTC)
	receipt, err := cart.Confirm(Customer{Anonymous: true}, enums.VoucherTypeBoleta, now)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.Zero(t, cart.Len())

	require.Equal(t, now, receipt.IssuedAt)
	require.Len(t, receipt.Lines, 1)
	require.GreaterOrEqual(t, receipt.TicketNumber, 1000)
	require.LessOrEqual(t, receipt.TicketNumber, 9999)
	require.Equal(t, "B001", receipt.VoucherType.Serie())
}

func TestConfirmEmptyCartFails(t *testing.T) {
	cart := NewCart()
	_, err := cart.Confirm(Customer{Anonymous: true}, enums.VoucherTypeBoleta, time.Now())
	require.Error(t, err)
	require.Equal(t, ReasonEmptyCart, FailureReason(err))
}

func TestConfirmRUCWithoutLegalNameLeavesCartUntouched(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalogItem("28.50", 10))

	customer := Customer{
		DocumentType:   enums.DocumentTypeRUC,
		DocumentNumber: "20123456789",
	}
	_, err := cart.Confirm(customer, enums.VoucherTypeFactura, time.Now())
	require.Error(t, err)
	require.Equal(t, ReasonMissingLegalName, FailureReason(err))
	require.Equal(t, 1, cart.Len())

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestConfirmReceiptIsSnapshot(t *testing.T) {
	cart := NewCart()
	item := catalogItem("10.00", 10)
	cart.AddItem(item)

	receipt, err := cart.Confirm(Customer{Anonymous: true}, enums.VoucherTypeBoleta, time.Now())
	require.NoError(t, err)

	cart.AddItem(item)
	cart.ChangeQuantity(item.ID, 3)
	require.Len(t, receipt.Lines, 1)
	require.Equal(t, 1, receipt.Lines[0].Quantity)
}
