package enums

import "fmt"

// DocumentType identifies the national identity document carried by a customer.
type DocumentType string

const (
	DocumentTypeDNI DocumentType = "DNI"
	DocumentTypeRUC DocumentType = "RUC"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeDNI,
	DocumentTypeRUC,
}

// Length returns the exact digit count the document number must have.
func (d DocumentType) Length() int {
	switch d {
	case DocumentTypeDNI:
		return 8
	case DocumentTypeRUC:
		return 11
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
