package enums

import "fmt"

// PaymentMethod describes how a customer settles a sale at the counter.
type PaymentMethod string

const (
	PaymentMethodEfectivo PaymentMethod = "EFECTIVO"
	PaymentMethodTarjeta  PaymentMethod = "TARJETA"
	PaymentMethodYape     PaymentMethod = "YAPE"
	PaymentMethodPlin     PaymentMethod = "PLIN"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodEfectivo,
	PaymentMethodTarjeta,
	PaymentMethodYape,
	PaymentMethodPlin,
}

// RequiresTenderedAmount reports whether the method collects physical cash
// and therefore needs an amount-paid to compute change.
func (p PaymentMethod) RequiresTenderedAmount() bool {
	return p == PaymentMethodEfectivo
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
