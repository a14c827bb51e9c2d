package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

func TestValidateCustomer(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		reason   string
	}{
		{
			name:     "anonymous always valid",
			customer: Customer{Anonymous: true},
		},
		{
			name: "dni with names valid",
			customer: Customer{
				DocumentType:   enums.DocumentTypeDNI,
				DocumentNumber: "45678912",
				Names:          "María Quispe",
			},
		},
		{
			name: "ruc with legal name valid",
			customer: Customer{
				DocumentType:   enums.DocumentTypeRUC,
				DocumentNumber: "20123456789",
				LegalName:      "Constructora Andina SAC",
			},
		},
		{
			name: "missing document number",
			customer: Customer{
				DocumentType: enums.DocumentTypeDNI,
				Names:        "María Quispe",
			},
			reason: ReasonMissingDocumentNumber,
		},
		{
			name: "dni without names",
			customer: Customer{
				DocumentType:   enums.DocumentTypeDNI,
				DocumentNumber: "45678912",
			},
			reason: ReasonMissingNames,
		},
		{
			name: "ruc without legal name",
			customer: Customer{
				DocumentType:   enums.DocumentTypeRUC,
				DocumentNumber: "20123456789",
				Names:          "does not satisfy RUC",
			},
			reason: ReasonMissingLegalName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomer(tt.customer)
			if tt.reason == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.reason, FailureReason(err))
		})
	}
}

func TestValidateCustomerAddressIsOptional(t *testing.T) {
	customer := Customer{
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45678912",
		Names:          "María Quispe",
		Address:        "",
	}
	require.NoError(t, ValidateCustomer(customer))
}

func TestFailureReasonForeignError(t *testing.T) {
	require.Empty(t, FailureReason(nil))
	require.Empty(t, FailureReason(assertAnError()))
}

func assertAnError() error {
	return errForeign{}
}

type errForeign struct{}

func (errForeign) Error() string { return "boom" }
