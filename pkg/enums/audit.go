package enums

import "fmt"

// AuditAction classifies what a staff member did to an entity.
type AuditAction string

const (
	AuditActionCrear    AuditAction = "CREAR"
	AuditActionEditar   AuditAction = "EDITAR"
	AuditActionEliminar AuditAction = "ELIMINAR"
	AuditActionVenta    AuditAction = "VENTA"
)

var validAuditActions = []AuditAction{
	AuditActionCrear,
	AuditActionEditar,
	AuditActionEliminar,
	AuditActionVenta,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}

// AuditEntity names the record kind an audit entry refers to.
type AuditEntity string

const (
	AuditEntityProducto  AuditEntity = "PRODUCTO"
	AuditEntityCliente   AuditEntity = "CLIENTE"
	AuditEntityCategoria AuditEntity = "CATEGORIA"
	AuditEntityVenta     AuditEntity = "VENTA"
	AuditEntityUsuario   AuditEntity = "USUARIO"
)

var validAuditEntities = []AuditEntity{
	AuditEntityProducto,
	AuditEntityCliente,
	AuditEntityCategoria,
	AuditEntityVenta,
	AuditEntityUsuario,
}

// String implements fmt.Stringer.
func (e AuditEntity) String() string {
	return string(e)
}

// IsValid reports whether the value is a known AuditEntity.
func (e AuditEntity) IsValid() bool {
	for _, candidate := range validAuditEntities {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseAuditEntity converts raw input into an AuditEntity.
func ParseAuditEntity(value string) (AuditEntity, error) {
	for _, candidate := range validAuditEntities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit entity %q", value)
}
