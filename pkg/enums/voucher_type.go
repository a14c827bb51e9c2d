package enums

import "fmt"

// VoucherType distinguishes the fiscal document issued for a sale.
type VoucherType string

const (
	VoucherTypeBoleta  VoucherType = "BOLETA"
	VoucherTypeFactura VoucherType = "FACTURA"
)

var validVoucherTypes = []VoucherType{
	VoucherTypeBoleta,
	VoucherTypeFactura,
}

// Serie returns the fixed series code printed before the correlative number.
func (v VoucherType) Serie() string {
	switch v {
	case VoucherTypeBoleta:
		return "B001"
	case VoucherTypeFactura:
		return "F001"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v VoucherType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoucherType.
func (v VoucherType) IsValid() bool {
	for _, candidate := range validVoucherTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVoucherType converts raw input into a VoucherType.
func ParseVoucherType(value string) (VoucherType, error) {
	for _, candidate := range validVoucherTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voucher type %q", value)
}
