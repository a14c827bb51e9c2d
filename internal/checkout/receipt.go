package checkout

import (
	"fmt"
	"strings"

	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/enums"
)

const receiptDivider = "================================"

// FormatReceipt renders the 80mm-ticket text for a confirmed receipt. The
// output is deterministic for a given receipt and store identity; printing
// is an external concern.
func FormatReceipt(r Receipt, store config.StoreConfig) string {
	var b strings.Builder

	b.WriteString(store.Name + "\n")
	b.WriteString("RUC: " + store.TaxID + "\n")
	b.WriteString(store.Address + "\n")
	b.WriteString("Tel: " + store.Phone + "\n")
	b.WriteString(receiptDivider + "\n")

	title := "BOLETA DE VENTA"
	if r.VoucherType == enums.VoucherTypeFactura {
		title = "FACTURA ELECTRÓNICA"
	}
	b.WriteString(title + "\n")
	b.WriteString(r.VoucherNumber() + "\n")
	b.WriteString("FECHA: " + r.IssuedAt.Format("02/01/2006") + "\n")
	b.WriteString("HORA: " + r.IssuedAt.Format("15:04") + "\n")
	writeCustomer(&b, r.Customer)
	b.WriteString(receiptDivider + "\n")

	for _, line := range r.Lines {
		b.WriteString(fmt.Sprintf("%d x %s  →  S/ %s\n", line.Quantity, line.Item.Name, line.Total().StringFixed(2)))
	}
	b.WriteString(receiptDivider + "\n")

	b.WriteString("Subtotal: S/ " + r.Totals.Subtotal.StringFixed(2) + "\n")
	b.WriteString("IGV (18%): S/ " + r.Totals.Tax.StringFixed(2) + "\n")
	b.WriteString("TOTAL: S/ " + r.Totals.Total.StringFixed(2) + "\n")
	b.WriteString(receiptDivider + "\n")

	b.WriteString("SON: " + amountLegend(r.Totals) + "\n")
	b.WriteString("Gracias por su compra\n")
	if r.Seller != "" {
		b.WriteString("Vendedor: " + r.Seller + "\n")
	}
	b.WriteString(store.Website + "\n")

	return b.String()
}

// amountLegend spells the total as "<words> CON NN/100 SOLES".
func amountLegend(t Totals) string {
	fixed := t.Total.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	whole := int(t.Total.IntPart())
	cents := "00"
	if len(parts) == 2 {
		cents = parts[1]
	}
	return fmt.Sprintf("%s CON %s/100 SOLES", AmountToWords(whole), cents)
}

func writeCustomer(b *strings.Builder, c Customer) {
	if c.Anonymous {
		b.WriteString("CLIENTE: ANÓNIMO\n")
		return
	}
	b.WriteString(c.DocumentType.String() + ": " + c.DocumentNumber + "\n")
	if c.DocumentType == enums.DocumentTypeRUC {
		b.WriteString("RAZÓN SOCIAL: " + c.LegalName + "\n")
	} else {
		b.WriteString("CLIENTE: " + c.Names + "\n")
	}
	if c.Address != "" {
		b.WriteString("DIRECCIÓN: " + c.Address + "\n")
	}
}
