package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/construplaza/construplaza-backend/pkg/enums"
)

// Customer represents a buyer identified by a national document. Walk-in
// buyers with no document are recorded against the anonymous customer.
type Customer struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentType   enums.DocumentType `gorm:"column:document_type;type:text;not null"`
	DocumentNumber string             `gorm:"column:document_number;type:text;not null;uniqueIndex"`
	Names          *string            `gorm:"column:names"`
	LegalName      *string            `gorm:"column:legal_name"`
	Address        *string            `gorm:"column:address"`
	Phone          *string            `gorm:"column:phone"`
	Email          *string            `gorm:"column:email"`
	IsAnonymous    bool               `gorm:"column:is_anonymous;not null;default:false"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName returns the printable customer name for receipts, preferring
// the business name for RUC holders.
func (c Customer) DisplayName() string {
	if c.LegalName != nil && *c.LegalName != "" {
		return *c.LegalName
	}
	if c.Names != nil && *c.Names != "" {
		return *c.Names
	}
	return "CLIENTE VARIOS"
}
