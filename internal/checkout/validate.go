package checkout

import (
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

// Validation failure reasons surfaced in error details.
const (
	ReasonEmptyCart             = "empty_cart"
	ReasonMissingDocumentNumber = "missing_document_number"
	ReasonMissingNames          = "missing_names"
	ReasonMissingLegalName      = "missing_legal_name"
)

// ValidateCustomer checks the buyer identification against the rules the
// counter enforces: anonymous buyers are always accepted; identified buyers
// need a document number; DNI holders need personal names; RUC holders need
// a legal name. The address is optional in every case.
func ValidateCustomer(c Customer) error {
	if c.Anonymous {
		return nil
	}
	if c.DocumentNumber == "" {
		return validationError("document number is required", ReasonMissingDocumentNumber)
	}
	switch {
	case c.DocumentType == enums.DocumentTypeRUC:
		if c.LegalName == "" {
			return validationError("legal name is required for RUC customers", ReasonMissingLegalName)
		}
	default:
		if c.Names == "" {
			return validationError("customer names are required", ReasonMissingNames)
		}
	}
	return nil
}

func validationError(message, reason string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{
		"reason": reason,
	})
}

// FailureReason extracts the validation reason from a checkout error, or
// returns an empty string for foreign errors.
func FailureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return ""
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return ""
	}
	reason, _ := details["reason"].(string)
	return reason
}
